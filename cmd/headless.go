package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"memo/internal/app"
	"memo/internal/core/clock"
	"memo/internal/core/looper"
	"memo/internal/core/stopwatch"
	"memo/internal/logx"
	"memo/internal/notification"
	"memo/internal/platform"
	"memo/internal/ui/preferences"
)

const headlessUsage = "commands: start [seconds], pause, stop, status, quit"

// consoleHost keeps the process alive while a session runs. StopSelf ends
// the headless run.
type consoleHost struct {
	log     logx.Logger
	once    sync.Once
	stopped chan struct{}
}

func newConsoleHost(log logx.Logger) *consoleHost {
	return &consoleHost{log: log, stopped: make(chan struct{})}
}

func (host *consoleHost) StartForeground(n notification.Notification) error {
	host.log.Debug("foreground started", logx.Int("notification", n.ID))
	return nil
}

func (host *consoleHost) StopForeground() error {
	host.log.Debug("foreground stopped")
	return nil
}

func (host *consoleHost) StopSelf() {
	host.once.Do(func() { close(host.stopped) })
}

func runHeadless(ctx context.Context, opts options, settings preferences.Settings, in io.Reader, out io.Writer, log logx.Logger) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lp := looper.New(clock.Real(), log)
	defer lp.Quit()

	host := newConsoleHost(log)
	service := app.New(app.Options{
		Looper:   lp,
		Settings: settings,
		Surface:  notification.NewConsole(out),
		Host:     host,
		Log:      log,
	})
	defer func() {
		_ = service.Close()
	}()

	if opts.autoStart {
		if err := service.Dispatch(ctx, stopwatch.Start(opts.resume)); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintln(out, headlessUsage)
	return serveCommands(ctx, service, host.stopped, in, out)
}

// serveCommands feeds stdin lines to the service until input ends, the
// session stops itself or ctx is cancelled.
func serveCommands(ctx context.Context, service *app.Service, stopped <-chan struct{}, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			case <-stopped:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-stopped:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			select {
			case <-stopped:
				return nil
			default:
			}
			done, err := handleLine(ctx, service, line, out)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func handleLine(ctx context.Context, service *app.Service, line string, out io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "status":
		snapshot, err := service.Snapshot(ctx)
		if err != nil {
			return false, err
		}
		_, _ = fmt.Fprintf(out, "%s %s\n", snapshot.State, stopwatch.FormatClock(snapshot.Elapsed))
		return false, nil
	}

	err := service.Dispatch(ctx, stopwatch.ParseCommand(line))
	switch {
	case errors.Is(err, stopwatch.ErrNotHandled):
		_, _ = fmt.Fprintf(out, "unknown command %q, %s\n", strings.TrimSpace(line), headlessUsage)
		return false, nil
	case err != nil:
		return false, err
	}
	return false, nil
}

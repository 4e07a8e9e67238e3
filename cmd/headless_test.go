package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"memo/internal/app"
	"memo/internal/core/clock"
	"memo/internal/core/looper"
	"memo/internal/logx"
	"memo/internal/notification"
	"memo/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadlessService(t *testing.T, out *bytes.Buffer) (*app.Service, *consoleHost) {
	t.Helper()
	lp := looper.New(clock.NewManual(time.Unix(0, 0)), logx.Nop())
	t.Cleanup(lp.Quit)

	host := newConsoleHost(logx.Nop())
	service := app.New(app.Options{
		Looper:   lp,
		Settings: preferences.DefaultSettings(),
		Surface:  notification.NewConsole(out),
		Host:     host,
		Log:      logx.Nop(),
	})
	t.Cleanup(func() { _ = service.Close() })
	return service, host
}

func TestServeCommandsStopEndsRun(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	service, host := newHeadlessService(t, out)

	in := strings.NewReader("start 42\nstatus\npause\nstatus\nstop\nstart\n")
	require.NoError(t, serveCommands(context.Background(), service, host.stopped, in, out))

	assert.Equal(t, strings.Join([]string{
		"[Memo] time running: 00:42",
		"start 00:42",
		"[Memo] come back",
		"pause 00:42",
		"[notification removed]",
	}, "\n")+"\n", out.String())
	assert.Equal(t, 1, service.Sessions(), "input after stop is not read")
}

func TestServeCommandsUnknownCommand(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	service, host := newHeadlessService(t, out)

	in := strings.NewReader("rewind\n\nquit\nstart\n")
	require.NoError(t, serveCommands(context.Background(), service, host.stopped, in, out))

	assert.Contains(t, out.String(), `unknown command "rewind"`)
	assert.Equal(t, 1, service.Sessions(), "an unknown command opens a session but changes nothing")
	assert.NotContains(t, out.String(), "time running")
}

func TestServeCommandsEndOfInput(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	service, host := newHeadlessService(t, out)

	require.NoError(t, serveCommands(context.Background(), service, host.stopped, strings.NewReader("start\n"), out))
	assert.Equal(t, "[Memo] time running: 00:00\n", out.String())
}

func TestServeCommandsCancelled(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	service, host := newHeadlessService(t, out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reader, writer := io.Pipe()
	defer writer.Close()

	require.NoError(t, serveCommands(ctx, service, host.stopped, reader, out))
	assert.Empty(t, out.String())
}

func TestConsoleHostStopSelfOnce(t *testing.T) {
	t.Parallel()
	host := newConsoleHost(logx.Nop())
	host.StopSelf()
	host.StopSelf()

	select {
	case <-host.stopped:
	default:
		t.Fatal("stopped channel not closed")
	}
}

package main

import (
	"errors"
	"fmt"
	"os"

	"memo/internal/logx"
	"memo/internal/storage"
	"memo/internal/ui/preferences"

	"github.com/spf13/cobra"
)

const appName = "Memo"

type options struct {
	headless   bool
	logLevel   string
	resume     int
	autoStart  bool
	configPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "memo",
		Short:         "Stopwatch that lives in the system tray",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.autoStart = cmd.Flags().Changed("resume")
			settings, configPath, err := loadSettings(opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				settings.Log.Level = opts.logLevel
			}

			log, closer, err := logx.New(settings.Log)
			if err != nil {
				return err
			}
			defer func() {
				_ = closer.Close()
			}()

			if opts.headless {
				return runHeadless(cmd.Context(), opts, settings, cmd.InOrStdin(), cmd.OutOrStdout(), log)
			}
			return runGUI(opts, settings, configPath, log)
		},
	}
	root.Flags().BoolVar(&opts.headless, "headless", false, "run without a desktop; read start/pause/stop/status from stdin")
	root.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level: trace|debug|info|warn|error")
	root.Flags().IntVar(&opts.resume, "resume", 0, "start immediately, resuming from this many seconds")
	root.Flags().StringVar(&opts.configPath, "config", "", "settings file (default: user config dir)")
	return root
}

func loadSettings(opts options) (preferences.Settings, string, error) {
	path := opts.configPath
	if path == "" {
		defaultPath, err := storage.DefaultPath(appName)
		if err != nil {
			return preferences.DefaultSettings(), "", err
		}
		path = defaultPath
	}

	settings, err := storage.LoadSettings(path)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return settings, path, err
		}
		// A broken file should not keep the stopwatch from starting.
		_, _ = fmt.Fprintf(os.Stderr, "memo: ignoring settings: %v\n", err)
		return preferences.DefaultSettings(), path, nil
	}
	return settings, path, nil
}

package main

import (
	"context"
	"errors"
	"fmt"

	"memo/internal/app"
	"memo/internal/core/clock"
	"memo/internal/core/looper"
	"memo/internal/core/stopwatch"
	"memo/internal/logx"
	"memo/internal/notification"
	"memo/internal/platform"
	"memo/internal/storage"
	"memo/internal/ui/mainwindow"
	"memo/internal/ui/preferences"
	"memo/internal/ui/tray"
	"memo/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

func runGUI(opts options, settings preferences.Settings, configPath string, log logx.Logger) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		log.Info("already running, activating the existing window")
		return platform.ActivateRunning(appName)
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := fyneapp.NewWithID("com.memo.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconActive))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform, use --headless")
	}

	lp := looper.New(clock.Real(), log)
	defer lp.Quit()

	var (
		service     *app.Service
		mainWindow  *mainwindow.Window
		prefsWindow *preferences.Window
	)
	dispatch := func(cmd stopwatch.Command) {
		go func() {
			if err := service.Dispatch(context.Background(), cmd); err != nil {
				log.Warn("dispatch from tray", logx.String("action", string(cmd.Action)), logx.Err(err))
			}
		}()
	}

	trayManager := tray.New(desktopApp, settings.Title, tray.Icons{
		Active: resources.MustIcon(resources.IconActive),
		Idle:   resources.MustIcon(resources.IconPaused),
	}, tray.Callbacks{
		OnOpen: func() {
			mainWindow.Show()
		},
		OnToggle: func() {
			go func() {
				if err := service.Toggle(context.Background()); err != nil {
					log.Warn("toggle from tray", logx.Err(err))
				}
			}()
		},
		OnStop: func() {
			dispatch(stopwatch.Stop())
		},
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnQuit: func() {
			fyneApp.Quit()
		},
	})

	service = app.New(app.Options{
		Looper:   lp,
		Settings: settings,
		Surface:  trayManager,
		Toast:    notification.NewToast(),
		Host:     trayManager,
		Log:      log,
	})
	defer func() {
		_ = service.Close()
	}()

	mainWindow = mainwindow.New(fyneApp, settings.Title, service, log)
	mainWindow.Watch(service.Subscribe(64))

	prefsWindow = preferences.New(fyneApp, settings, func(updated preferences.Settings) error {
		if err := storage.SaveSettings(configPath, updated); err != nil {
			return err
		}
		return service.UpdateSettings(updated)
	})

	trayEvents := service.Subscribe(64)
	go func() {
		for event := range trayEvents {
			if event.Type == stopwatch.EventStateChange {
				trayManager.SetState(event.State)
			}
		}
	}()

	guard.OnActivate(func() {
		fyne.Do(mainWindow.Show)
	})

	if opts.autoStart {
		dispatch(stopwatch.Start(opts.resume))
	}

	log.Info("memo started", logx.String("config", configPath))
	mainWindow.Show()
	fyneApp.Run()
	return nil
}

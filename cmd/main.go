package main

import (
	"log"
	"os"

	"github.com/spf13/afero"

	"intervaltimer/internal/app"
	"intervaltimer/internal/config"
	"intervaltimer/internal/core/model"
	"intervaltimer/internal/core/timer"
	"intervaltimer/internal/cue"
	"intervaltimer/internal/logging"
	"intervaltimer/internal/platform"
	"intervaltimer/internal/ui/preferences"
	"intervaltimer/internal/ui/saved"
	"intervaltimer/internal/ui/timerview"
	"intervaltimer/internal/ui/tray"
	"intervaltimer/resources"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

func main() {
	cfg, err := config.Load(config.Overrides{})
	if err != nil {
		log.Printf("config: %v", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	lock, err := platform.AcquireInstanceLock(config.AppName, cfg.DataDir)
	if err != nil {
		logger.Error("single instance: %v", err)
		return
	}
	defer func() {
		_ = lock.Release()
	}()

	controller, err := app.New(app.Dependencies{
		Fs:       afero.NewOsFs(),
		Config:   cfg,
		WakeLock: platform.NewWakeLock("Interval workout in progress"),
		Logger:   logger,
	})
	if err != nil {
		logger.Error("start: %v", err)
		return
	}
	defer controller.Shutdown()

	fyneApp := fyneapp.NewWithID("com.intervaltimer.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconTimer))

	prefs := controller.Preferences()
	player := cue.NewPlayer(platform.NewSink(logger), logger)
	player.SetSoundEnabled(prefs.SoundEnabled)
	player.SetNotificationsEnabled(prefs.NotificationsEnabled)
	player.SetNotifier(tray.Notifier{App: fyneApp})
	player.Start()
	defer player.Close()
	controller.AddCueListener(player)

	var (
		editor      *preferences.Window
		savedWindow *saved.Window
	)

	timerWindow := timerview.New(fyneApp, timerview.Callbacks{
		OnToggle: controller.Toggle,
		OnReset:  controller.Reset,
		OnSoundToggle: func(enabled bool) {
			player.SetSoundEnabled(enabled)
			controller.UpdatePreferences(func(prefs *model.Preferences) {
				prefs.SoundEnabled = enabled
			})
		},
		OnEditor: func() {
			editor.Show()
		},
		OnSaved: func() {
			savedWindow.SetWorkouts(controller.Workouts())
			savedWindow.Show()
		},
	})
	timerWindow.SetSoundEnabled(prefs.SoundEnabled)
	player.SetVibrator(timerWindow)

	editor = preferences.New(fyneApp, prefs, preferences.Callbacks{
		OnApply: func(workout model.WorkoutConfig) {
			controller.SetConfig(model.PatchFrom(workout))
			timerWindow.Show()
		},
		OnSave: func(name string) error {
			if _, err := controller.SaveCurrent(name); err != nil {
				return err
			}
			savedWindow.SetWorkouts(controller.Workouts())
			return nil
		},
		OnPreferences: func(updated model.Preferences) {
			controller.UpdatePreferences(func(prefs *model.Preferences) {
				prefs.SoundEnabled = updated.SoundEnabled
				prefs.NotificationsEnabled = updated.NotificationsEnabled
				prefs.KeepAwake = updated.KeepAwake
			})
			player.SetSoundEnabled(updated.SoundEnabled)
			player.SetNotificationsEnabled(updated.NotificationsEnabled)
			timerWindow.SetSoundEnabled(updated.SoundEnabled)
		},
	})

	savedWindow = saved.New(fyneApp, saved.Callbacks{
		OnLoad: func(id string) error {
			snapshot, err := controller.LoadWorkout(id)
			if err != nil {
				return err
			}
			editor.SetConfig(snapshot.Config)
			timerWindow.Show()
			return nil
		},
		OnDelete: func(id string) error {
			if err := controller.DeleteWorkout(id); err != nil {
				return err
			}
			savedWindow.SetWorkouts(controller.Workouts())
			return nil
		},
	})

	var trayManager *tray.Manager
	desktopApp, hasTray := fyneApp.(desktop.App)
	if hasTray {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShowTimer: timerWindow.Show,
			OnToggle:    controller.Toggle,
			OnReset:     controller.Reset,
			OnEditor:    editor.Show,
			OnSaved: func() {
				savedWindow.SetWorkouts(controller.Workouts())
				savedWindow.Show()
			},
			OnQuit: fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconTimer))
	} else {
		logger.Info("system tray unsupported on this platform")
		timerWindow.SetOnClose(fyneApp.Quit)
	}

	events := controller.Subscribe(16)
	go func() {
		trayIcon := resources.IconTimer
		for event := range events {
			snapshot := event.Snapshot
			timerWindow.Render(snapshot)
			if trayManager == nil {
				continue
			}
			icon := iconFor(snapshot)
			fyne.Do(func() {
				trayManager.SetStatus(tray.StatusLine(snapshot))
				trayManager.SetRunning(snapshot.Status == model.StatusRunning)
				if icon != trayIcon {
					trayIcon = icon
					desktopApp.SetSystemTrayIcon(resources.MustIcon(icon))
				}
			})
		}
	}()

	timerWindow.Render(controller.Snapshot())
	timerWindow.Show()
	fyneApp.Run()
}

func iconFor(snapshot timer.Snapshot) string {
	switch {
	case snapshot.Status == model.StatusPaused:
		return resources.IconPaused
	case snapshot.Status != model.StatusRunning:
		return resources.IconTimer
	case snapshot.Phase == model.PhaseRest:
		return resources.IconRest
	default:
		return resources.IconWork
	}
}

package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"intervaltimer/internal/core/model"
	"intervaltimer/internal/core/timer"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowTimer func()
	OnToggle    func()
	OnReset     func()
	OnEditor    func()
	OnSaved     func()
	OnQuit      func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	callbacks  Callbacks
	running    bool
	status     string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		status:    "Ready to Start",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("Start", func() {
		invoke(manager.callbacks.OnToggle)
	})
	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		invoke(manager.callbacks.OnReset)
	})

	manager.refreshStatus()
	return manager
}

// SetStatus updates the status label, e.g. "WORK 00:12 · Round 2 of 7".
func (manager *Manager) SetStatus(status string) {
	if status == manager.status {
		return
	}
	manager.status = status
	manager.refreshStatus()
}

// SetRunning switches the toggle item between Start and Pause.
func (manager *Manager) SetRunning(running bool) {
	if running == manager.running {
		return
	}
	manager.running = running
	if running {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.refreshMenu()
}

// StatusLabel returns the current status line.
func (manager *Manager) StatusLabel() string {
	return manager.statusItem.Label
}

// ToggleLabel returns the current label of the start/pause item.
func (manager *Manager) ToggleLabel() string {
	return manager.toggleItem.Label
}

func (manager *Manager) refreshStatus() {
	manager.statusItem.Label = manager.status
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("IntervalTimer",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show timer", func() {
			invoke(manager.callbacks.OnShowTimer)
		}),
		manager.toggleItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Workout setup", func() {
			invoke(manager.callbacks.OnEditor)
		}),
		fyne.NewMenuItem("Saved workouts", func() {
			invoke(manager.callbacks.OnSaved)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			invoke(manager.callbacks.OnQuit)
		}),
	))
}

func invoke(handler func()) {
	if handler != nil {
		handler()
	}
}

// StatusLine renders a snapshot for the status menu item.
func StatusLine(snapshot timer.Snapshot) string {
	switch snapshot.Status {
	case model.StatusRunning, model.StatusPaused:
		return fmt.Sprintf("%s %s · %s", model.PhaseLabel(snapshot.Phase), snapshot.Clock(), snapshot.StatusMessage())
	default:
		return snapshot.StatusMessage()
	}
}

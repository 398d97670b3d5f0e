package app

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"intervaltimer/internal/config"
	"intervaltimer/internal/core/model"
	"intervaltimer/internal/core/timer"
	"intervaltimer/internal/logging"
	"intervaltimer/internal/storage"
)

// ErrEmptyName is returned when a workout is saved without a name.
var ErrEmptyName = errors.New("workout name is empty")

// Dependencies are the collaborators a Controller is built from.
type Dependencies struct {
	Fs       afero.Fs
	Config   *config.Config
	WakeLock timer.WakeLock
	Logger   logging.Logger
}

// Controller is the application root. It owns the timer machine, its driver
// and the saved workout store, and keeps preferences in sync on disk.
type Controller struct {
	mu      sync.Mutex
	fs      afero.Fs
	dataDir string
	logger  logging.Logger
	prefs   model.Preferences
	machine *timer.Machine
	driver  *timer.Driver
	store   *storage.WorkoutStore
}

// New loads preferences and saved workouts from the data directory and builds
// a machine configured with the last edited workout.
func New(deps Dependencies) (*Controller, error) {
	if deps.Config == nil {
		return nil, errors.New("controller: config is required")
	}
	fs := deps.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	dataDir := deps.Config.DataDir
	if err := fs.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	prefs, err := storage.LoadSettings(fs, dataDir)
	if err != nil {
		logger.Warn("using default preferences: %v", err)
	}

	store, err := storage.OpenWorkoutStore(fs, dataDir, logger)
	if err != nil {
		return nil, err
	}

	controller := &Controller{
		fs:      fs,
		dataDir: dataDir,
		logger:  logger,
		prefs:   prefs,
		machine: timer.New(prefs.Workout),
		store:   store,
	}

	var wakeLock timer.WakeLock
	if deps.WakeLock != nil {
		wakeLock = &keepAwakeLock{lock: deps.WakeLock, enabled: func() bool {
			return controller.Preferences().KeepAwake
		}}
	}
	controller.driver = timer.NewDriver(controller.machine,
		timer.DriverConfig{TickInterval: deps.Config.TickInterval}, wakeLock, logger)
	return controller, nil
}

// AddCueListener registers a listener for start, transition and completion cues.
func (controller *Controller) AddCueListener(listener timer.CueListener) {
	controller.machine.AddCueListener(listener)
}

// Subscribe returns a channel of timer events.
func (controller *Controller) Subscribe(buffer int) <-chan timer.Event {
	return controller.machine.Subscribe(buffer)
}

func (controller *Controller) Snapshot() timer.Snapshot {
	return controller.machine.Snapshot()
}

// SetConfig applies patch, stops any running countdown and remembers the
// resulting config as the last edited workout.
func (controller *Controller) SetConfig(patch model.ConfigPatch) timer.Snapshot {
	controller.driver.Stop()
	snapshot := controller.machine.SetConfig(patch)

	controller.mu.Lock()
	controller.prefs.Workout = snapshot.Config
	controller.persistLocked()
	controller.mu.Unlock()

	return snapshot
}

func (controller *Controller) Start() {
	controller.driver.Start()
}

func (controller *Controller) Pause() {
	controller.driver.Pause()
}

func (controller *Controller) Reset() {
	controller.driver.Reset()
}

// Toggle starts the workout unless it is running, in which case it pauses.
func (controller *Controller) Toggle() {
	if controller.machine.Snapshot().Status == model.StatusRunning {
		controller.Pause()
		return
	}
	controller.Start()
}

// SaveCurrent stores the current config under name.
func (controller *Controller) SaveCurrent(name string) (model.WorkoutConfig, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.WorkoutConfig{}, ErrEmptyName
	}
	saved, err := controller.store.Save(name, controller.machine.Config())
	if err != nil {
		return model.WorkoutConfig{}, fmt.Errorf("save workout %q: %w", name, err)
	}
	controller.logger.Info("saved workout %q as %s", saved.Name, saved.ID)
	return saved, nil
}

// Workouts lists saved workouts in the order they were saved.
func (controller *Controller) Workouts() []model.WorkoutConfig {
	return controller.store.List()
}

// LoadWorkout resets the timer and configures it from the saved workout id.
func (controller *Controller) LoadWorkout(id string) (timer.Snapshot, error) {
	workout, err := controller.store.Load(id)
	if err != nil {
		return controller.Snapshot(), err
	}
	controller.driver.Reset()
	return controller.SetConfig(model.PatchFrom(workout)), nil
}

func (controller *Controller) DeleteWorkout(id string) error {
	if err := controller.store.Delete(id); err != nil {
		return fmt.Errorf("delete workout %s: %w", id, err)
	}
	return nil
}

// Preferences returns the current user preferences.
func (controller *Controller) Preferences() model.Preferences {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.prefs
}

// UpdatePreferences applies update to the toggles and writes them to disk. The
// workout config is owned by SetConfig and is not changed here. Switching
// keep-awake takes or releases the wake lock of an active workout.
func (controller *Controller) UpdatePreferences(update func(*model.Preferences)) model.Preferences {
	controller.mu.Lock()
	keepAwake := controller.prefs.KeepAwake
	workout := controller.prefs.Workout
	update(&controller.prefs)
	controller.prefs.Workout = workout
	controller.persistLocked()
	prefs := controller.prefs
	controller.mu.Unlock()

	switch {
	case prefs.KeepAwake && !keepAwake:
		controller.driver.HoldWakeLock()
	case !prefs.KeepAwake && keepAwake:
		controller.driver.ReleaseWakeLock()
	}
	return prefs
}

// Shutdown stops the countdown, releases the wake lock and closes event channels.
func (controller *Controller) Shutdown() {
	controller.driver.Stop()
	controller.machine.Close()
}

func (controller *Controller) persistLocked() {
	if err := storage.SaveSettings(controller.fs, controller.dataDir, controller.prefs); err != nil {
		controller.logger.Warn("save preferences: %v", err)
	}
}

// keepAwakeLock only takes the wake lock while the keep-awake preference is on.
type keepAwakeLock struct {
	lock    timer.WakeLock
	enabled func() bool
	held    bool
}

func (lock *keepAwakeLock) Acquire() error {
	if !lock.enabled() {
		return timer.ErrWakeLockDisabled
	}
	if err := lock.lock.Acquire(); err != nil {
		return err
	}
	lock.held = true
	return nil
}

func (lock *keepAwakeLock) Release() error {
	if !lock.held {
		return nil
	}
	lock.held = false
	return lock.lock.Release()
}

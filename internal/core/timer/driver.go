package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"intervaltimer/internal/core/model"
	"intervaltimer/internal/logging"
)

// ErrWakeLockDisabled is returned by a WakeLock that is switched off. The driver
// treats it as "not held" without logging a warning.
var ErrWakeLockDisabled = errors.New("wake lock disabled")

// WakeLock keeps the display awake while a workout runs.
type WakeLock interface {
	Acquire() error
	Release() error
}

// DriverConfig contains runtime options for Driver.
type DriverConfig struct {
	TickInterval time.Duration
}

// Driver is the cooperative scheduler that calls Machine.Tick once per interval
// while the workout runs. All countdown accounting lives in Step.
type Driver struct {
	mu       sync.Mutex
	machine  *Machine
	options  DriverConfig
	wakeLock WakeLock
	logger   logging.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	locked   bool
}

// NewDriver creates a Driver for machine. wakeLock may be nil.
func NewDriver(machine *Machine, options DriverConfig, wakeLock WakeLock, logger logging.Logger) *Driver {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Driver{
		machine:  machine,
		options:  options,
		wakeLock: wakeLock,
		logger:   logger,
	}
}

// Start starts or resumes the workout and launches the ticking loop.
func (driver *Driver) Start() {
	driver.machine.Start()
	if driver.machine.Snapshot().Status != model.StatusRunning {
		return
	}

	driver.mu.Lock()
	defer driver.mu.Unlock()
	if driver.cancel != nil {
		return
	}
	driver.acquireLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	driver.cancel = cancel
	driver.done = done
	go driver.run(ctx, done)
}

// Pause freezes the workout and stops the ticking loop. The wake lock is kept.
func (driver *Driver) Pause() {
	driver.machine.Pause()
	driver.stopLoop()
}

// Reset stops the loop, releases the wake lock and returns the machine to idle.
func (driver *Driver) Reset() {
	driver.stopLoop()
	driver.releaseWakeLock()
	driver.machine.Reset()
}

// Stop ends the loop and releases the wake lock without touching the machine.
func (driver *Driver) Stop() {
	driver.stopLoop()
	driver.releaseWakeLock()
}

// HoldWakeLock takes the wake lock if a workout is running or paused and the
// lock is not already held.
func (driver *Driver) HoldWakeLock() {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	switch driver.machine.Snapshot().Status {
	case model.StatusRunning, model.StatusPaused:
		driver.acquireLocked()
	}
}

// ReleaseWakeLock gives the wake lock up while leaving the workout untouched.
func (driver *Driver) ReleaseWakeLock() {
	driver.releaseWakeLock()
}

// Running reports whether the ticking loop is active.
func (driver *Driver) Running() bool {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	return driver.cancel != nil
}

// Step performs one scheduler beat: both countdowns drop by one second and the
// machine resolves completion or phase boundaries. It reports whether the
// workout is still running afterwards.
func (driver *Driver) Step() bool {
	snapshot := driver.machine.Snapshot()
	if snapshot.Status != model.StatusRunning {
		return false
	}

	previous := snapshot
	snapshot = driver.machine.Tick(snapshot.CurrentTime-1, snapshot.TotalTimeRemaining-1)
	switch {
	case snapshot.Status == model.StatusCompleted:
		driver.logger.Info("workout complete after %d rounds", snapshot.CurrentRound)
	case snapshot.CurrentRound != previous.CurrentRound || snapshot.Phase != previous.Phase:
		driver.logger.Debug("round %d/%d %s", snapshot.CurrentRound, snapshot.TotalRounds, snapshot.Phase)
	}
	return snapshot.Status == model.StatusRunning
}

func (driver *Driver) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(driver.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !driver.Step() {
				driver.finish(done)
				return
			}
		}
	}
}

// finish clears the loop handle when the loop ends on its own. The wake lock is
// kept only if the workout was paused.
func (driver *Driver) finish(done chan struct{}) {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	if driver.done != done {
		return
	}
	driver.cancel()
	driver.cancel = nil
	driver.done = nil
	if driver.machine.Snapshot().Status != model.StatusPaused {
		driver.releaseLocked()
	}
}

func (driver *Driver) stopLoop() {
	driver.mu.Lock()
	cancel, done := driver.cancel, driver.done
	driver.cancel = nil
	driver.done = nil
	driver.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (driver *Driver) releaseWakeLock() {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	driver.releaseLocked()
}

func (driver *Driver) acquireLocked() {
	if driver.wakeLock == nil || driver.locked {
		return
	}
	if err := driver.wakeLock.Acquire(); err != nil {
		if errors.Is(err, ErrWakeLockDisabled) {
			driver.logger.Debug("wake lock skipped: %v", err)
			return
		}
		driver.logger.Warn("acquire wake lock: %v", err)
		return
	}
	driver.locked = true
}

func (driver *Driver) releaseLocked() {
	if driver.wakeLock == nil || !driver.locked {
		return
	}
	if err := driver.wakeLock.Release(); err != nil {
		driver.logger.Warn("release wake lock: %v", err)
	}
	driver.locked = false
}

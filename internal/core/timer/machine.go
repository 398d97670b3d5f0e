package timer

import (
	"sync"
	"time"

	"intervaltimer/internal/core/model"
)

type cueKind int

const (
	cueNone cueKind = iota
	cuePhaseStart
	cuePhaseTransition
	cueWorkoutComplete
)

// Machine is the workout state machine. It owns no clock: countdown values are
// written by Tick, which a Driver calls once per interval.
type Machine struct {
	mu                 sync.Mutex
	config             model.WorkoutConfig
	status             model.Status
	phase              model.Phase
	currentTime        int
	totalTimeRemaining int
	currentRound       int
	totalRounds        int
	listeners          []CueListener
	events             []chan Event
}

// CalculateRounds returns the number of full rounds that fit in the total time.
// A zero-length cycle yields zero rounds.
func CalculateRounds(config model.WorkoutConfig) int {
	cycle := config.CycleLength()
	if cycle <= 0 || config.TotalTime <= 0 {
		return 0
	}
	return config.TotalTime / cycle
}

// New creates a Machine in the idle state for the given configuration.
func New(config model.WorkoutConfig) *Machine {
	machine := &Machine{config: config}
	machine.resetLocked()
	return machine
}

// AddCueListener registers a listener for cue signals.
func (machine *Machine) AddCueListener(listener CueListener) {
	if listener == nil {
		return
	}
	machine.mu.Lock()
	machine.listeners = append(machine.listeners, listener)
	machine.mu.Unlock()
}

// Subscribe registers a new observer channel. Events are dropped for
// subscribers that fall behind.
func (machine *Machine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	machine.mu.Lock()
	machine.events = append(machine.events, ch)
	machine.mu.Unlock()
	return ch
}

// Close closes every observer channel.
func (machine *Machine) Close() {
	machine.mu.Lock()
	events := machine.events
	machine.events = nil
	machine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Config returns the current configuration.
func (machine *Machine) Config() model.WorkoutConfig {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.config
}

// Snapshot returns a copy of the runtime state.
func (machine *Machine) Snapshot() Snapshot {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.snapshotLocked()
}

// SetConfig merges patch into the current configuration and reinitialises the
// countdown. Any in-flight countdown is discarded.
func (machine *Machine) SetConfig(patch model.ConfigPatch) Snapshot {
	machine.mu.Lock()
	machine.config = patch.Apply(machine.config)
	machine.resetLocked()
	snapshot := machine.snapshotLocked()
	machine.emitLocked(EventStateChange, snapshot)
	machine.mu.Unlock()
	return snapshot
}

// Start moves idle or paused to running. It does nothing once completed.
func (machine *Machine) Start() {
	machine.mu.Lock()
	if machine.status != model.StatusIdle && machine.status != model.StatusPaused {
		machine.mu.Unlock()
		return
	}
	machine.status = model.StatusRunning
	snapshot := machine.snapshotLocked()
	machine.emitLocked(EventStateChange, snapshot)
	listeners := machine.cueLocked(cuePhaseStart, snapshot)
	machine.mu.Unlock()

	notify(listeners, cuePhaseStart, snapshot)
}

// Pause freezes a running workout.
func (machine *Machine) Pause() {
	machine.mu.Lock()
	if machine.status != model.StatusRunning {
		machine.mu.Unlock()
		return
	}
	machine.status = model.StatusPaused
	machine.emitLocked(EventStateChange, machine.snapshotLocked())
	machine.mu.Unlock()
}

// Reset returns to idle with the countdown, phase and round reinitialised.
func (machine *Machine) Reset() {
	machine.mu.Lock()
	machine.resetLocked()
	machine.emitLocked(EventStateChange, machine.snapshotLocked())
	machine.mu.Unlock()
}

// Complete finishes the workout. Completed is terminal until Reset.
func (machine *Machine) Complete() {
	machine.mu.Lock()
	if !machine.completeLocked() {
		machine.mu.Unlock()
		return
	}
	snapshot := machine.snapshotLocked()
	machine.emitLocked(EventStateChange, snapshot)
	listeners := machine.cueLocked(cueWorkoutComplete, snapshot)
	machine.mu.Unlock()

	notify(listeners, cueWorkoutComplete, snapshot)
}

// AdvancePhase moves to the next phase or round. It does nothing for a
// zero-length cycle or a completed workout.
func (machine *Machine) AdvancePhase() {
	machine.mu.Lock()
	if !machine.advanceLocked() {
		machine.mu.Unlock()
		return
	}
	snapshot := machine.snapshotLocked()
	machine.emitLocked(EventStateChange, snapshot)
	listeners := machine.cueLocked(cuePhaseTransition, snapshot)
	machine.mu.Unlock()

	notify(listeners, cuePhaseTransition, snapshot)
}

// Tick writes the countdown values for a running workout. It is ignored unless
// the machine is running. Negative values are clamped to zero. Reaching zero total time completes the workout, which takes
// precedence over a phase boundary on the same tick.
func (machine *Machine) Tick(currentTime, totalTimeRemaining int) Snapshot {
	machine.mu.Lock()
	if machine.status != model.StatusRunning {
		snapshot := machine.snapshotLocked()
		machine.mu.Unlock()
		return snapshot
	}

	machine.currentTime = clampSeconds(currentTime)
	machine.totalTimeRemaining = clampSeconds(totalTimeRemaining)

	kind := cueNone
	switch {
	case machine.totalTimeRemaining == 0:
		if machine.completeLocked() {
			kind = cueWorkoutComplete
		}
	case machine.currentTime == 0:
		if machine.advanceLocked() {
			kind = cuePhaseTransition
		}
	}

	snapshot := machine.snapshotLocked()
	machine.emitLocked(EventProgress, snapshot)
	if kind != cueNone {
		machine.emitLocked(EventStateChange, snapshot)
	}
	listeners := machine.cueLocked(kind, snapshot)
	machine.mu.Unlock()

	notify(listeners, kind, snapshot)
	return snapshot
}

func (machine *Machine) resetLocked() {
	machine.status = model.StatusIdle
	machine.phase = machine.config.InitialPhase()
	machine.currentTime = clampSeconds(machine.config.PhaseDuration(machine.phase))
	machine.totalTimeRemaining = clampSeconds(machine.config.TotalTime)
	machine.currentRound = 1
	machine.totalRounds = CalculateRounds(machine.config)
}

func (machine *Machine) completeLocked() bool {
	if machine.status == model.StatusCompleted {
		return false
	}
	machine.status = model.StatusCompleted
	return true
}

func (machine *Machine) advanceLocked() bool {
	if machine.status == model.StatusCompleted || machine.config.CycleLength() <= 0 {
		return false
	}

	config := machine.config
	if config.Mode == model.ModeEMOM {
		machine.currentRound++
		machine.currentTime = config.IntervalTime
		return true
	}

	switch {
	case machine.phase == model.PhaseWork && config.RestTime > 0:
		machine.phase = model.PhaseRest
		machine.currentTime = config.RestTime
	case machine.phase == model.PhaseWork:
		// No rest phase: straight into the next round of work.
		machine.currentRound++
		machine.currentTime = config.WorkTime
	case config.WorkTime > 0:
		machine.phase = model.PhaseWork
		machine.currentRound++
		machine.currentTime = config.WorkTime
	default:
		machine.phase = model.PhaseRest
		machine.currentRound++
		machine.currentTime = config.RestTime
	}
	return true
}

func (machine *Machine) snapshotLocked() Snapshot {
	phaseDuration := machine.config.PhaseDuration(machine.phase)
	return Snapshot{
		Config:             machine.config,
		Status:             machine.status,
		Phase:              machine.phase,
		CurrentTime:        machine.currentTime,
		TotalTimeRemaining: machine.totalTimeRemaining,
		CurrentRound:       machine.currentRound,
		TotalRounds:        machine.totalRounds,
		PhaseProgress:      percent(phaseDuration-machine.currentTime, phaseDuration),
		TotalProgress:      percent(machine.config.TotalTime-machine.totalTimeRemaining, machine.config.TotalTime),
	}
}

// cueLocked emits the cue as an event and returns the listeners to notify once
// the lock is released.
func (machine *Machine) cueLocked(kind cueKind, snapshot Snapshot) []CueListener {
	switch kind {
	case cuePhaseStart:
		machine.emitLocked(EventPhaseStart, snapshot)
	case cuePhaseTransition:
		machine.emitLocked(EventPhaseTransition, snapshot)
	case cueWorkoutComplete:
		machine.emitLocked(EventWorkoutComplete, snapshot)
	default:
		return nil
	}
	return append([]CueListener(nil), machine.listeners...)
}

func (machine *Machine) emitLocked(eventType EventType, snapshot Snapshot) {
	event := Event{Type: eventType, Snapshot: snapshot, At: time.Now()}
	for _, ch := range machine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func notify(listeners []CueListener, kind cueKind, snapshot Snapshot) {
	for _, listener := range listeners {
		switch kind {
		case cuePhaseStart:
			listener.OnPhaseStart(snapshot)
		case cuePhaseTransition:
			listener.OnPhaseTransition(snapshot)
		case cueWorkoutComplete:
			listener.OnWorkoutComplete(snapshot)
		}
	}
}

func clampSeconds(value int) int {
	if value < 0 {
		return 0
	}
	return value
}

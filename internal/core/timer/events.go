package timer

import (
	"fmt"
	"time"

	"intervaltimer/internal/core/model"
)

// EventType defines the type of timer event.
type EventType string

const (
	EventStateChange     EventType = "state_change"
	EventProgress        EventType = "progress"
	EventPhaseStart      EventType = "phase_start"
	EventPhaseTransition EventType = "phase_transition"
	EventWorkoutComplete EventType = "workout_complete"
)

// Event represents a timer update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	At       time.Time
}

// CueListener receives the audible/haptic cue signals. Calls happen synchronously
// on the goroutine that caused the transition, after the machine lock is released.
type CueListener interface {
	OnPhaseStart(Snapshot)
	OnPhaseTransition(Snapshot)
	OnWorkoutComplete(Snapshot)
}

// CueFuncs adapts plain functions to CueListener. Nil fields are ignored.
type CueFuncs struct {
	PhaseStart      func(Snapshot)
	PhaseTransition func(Snapshot)
	WorkoutComplete func(Snapshot)
}

func (funcs CueFuncs) OnPhaseStart(snapshot Snapshot) {
	if funcs.PhaseStart != nil {
		funcs.PhaseStart(snapshot)
	}
}

func (funcs CueFuncs) OnPhaseTransition(snapshot Snapshot) {
	if funcs.PhaseTransition != nil {
		funcs.PhaseTransition(snapshot)
	}
}

func (funcs CueFuncs) OnWorkoutComplete(snapshot Snapshot) {
	if funcs.WorkoutComplete != nil {
		funcs.WorkoutComplete(snapshot)
	}
}

// Snapshot is a read-only copy of the runtime state.
type Snapshot struct {
	Config             model.WorkoutConfig
	Status             model.Status
	Phase              model.Phase
	CurrentTime        int
	TotalTimeRemaining int
	CurrentRound       int
	TotalRounds        int

	// PhaseProgress and TotalProgress are percentages in [0,100].
	PhaseProgress float64
	TotalProgress float64
}

// Clock returns the countdown display text.
func (snapshot Snapshot) Clock() string {
	if snapshot.Status == model.StatusCompleted {
		return model.FormatClock(0)
	}
	return model.FormatClock(snapshot.CurrentTime)
}

// StatusMessage returns the one-line summary shown under the clock.
func (snapshot Snapshot) StatusMessage() string {
	switch snapshot.Status {
	case model.StatusCompleted:
		return "Workout Complete!"
	case model.StatusIdle:
		return "Ready to Start"
	case model.StatusPaused:
		return "Paused"
	}
	if snapshot.Config.Mode == model.ModeEMOM {
		return fmt.Sprintf("Round %d of %d", snapshot.CurrentRound, snapshot.TotalRounds)
	}
	return fmt.Sprintf("%s - Round %d of %d", model.PhaseLabel(snapshot.Phase), snapshot.CurrentRound, snapshot.TotalRounds)
}

func percent(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	value := float64(done) / float64(total) * 100
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

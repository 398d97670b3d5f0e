package model

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how a workout is split into phases.
type Mode string

const (
	ModeIntervals Mode = "intervals"
	ModeEMOM      Mode = "emom"
)

// ErrUnknownMode is returned by ParseMode for anything but intervals or emom.
var ErrUnknownMode = errors.New("unknown workout mode")

// ParseMode converts user input into a Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeIntervals:
		return ModeIntervals, nil
	case ModeEMOM:
		return ModeEMOM, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, value)
	}
}

// Phase is the current segment of a round.
type Phase string

const (
	PhaseWork Phase = "work"
	PhaseRest Phase = "rest"
	PhaseEMOM Phase = "emom"
)

// Status is the lifecycle state of a running workout.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// WorkoutConfig describes a workout. All times are in seconds.
// IntervalTime is only used in EMOM mode.
type WorkoutConfig struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Mode         Mode   `yaml:"mode" json:"mode"`
	WorkTime     int    `yaml:"workTime" json:"workTime"`
	RestTime     int    `yaml:"restTime" json:"restTime"`
	TotalTime    int    `yaml:"totalTime" json:"totalTime"`
	IntervalTime int    `yaml:"intervalTime" json:"intervalTime"`
}

// DefaultWorkoutConfig returns the configuration a fresh timer starts with.
func DefaultWorkoutConfig() WorkoutConfig {
	return WorkoutConfig{
		Mode:         ModeIntervals,
		WorkTime:     30,
		RestTime:     10,
		TotalTime:    300,
		IntervalTime: 60,
	}
}

// CycleLength returns the length of one round in seconds.
func (config WorkoutConfig) CycleLength() int {
	if config.Mode == ModeEMOM {
		return config.IntervalTime
	}
	return config.WorkTime + config.RestTime
}

// InitialPhase returns the phase a workout starts in.
func (config WorkoutConfig) InitialPhase() Phase {
	if config.Mode == ModeEMOM {
		return PhaseEMOM
	}
	return PhaseWork
}

// PhaseDuration returns the countdown seed for the given phase.
func (config WorkoutConfig) PhaseDuration(phase Phase) int {
	switch phase {
	case PhaseWork:
		return config.WorkTime
	case PhaseRest:
		return config.RestTime
	case PhaseEMOM:
		return config.IntervalTime
	default:
		return 0
	}
}

// ConfigPatch is a partial WorkoutConfig update. Nil fields keep their current value.
type ConfigPatch struct {
	ID           *string
	Name         *string
	Mode         *Mode
	WorkTime     *int
	RestTime     *int
	TotalTime    *int
	IntervalTime *int
}

// Apply merges the patch into config and returns the result.
func (patch ConfigPatch) Apply(config WorkoutConfig) WorkoutConfig {
	if patch.ID != nil {
		config.ID = *patch.ID
	}
	if patch.Name != nil {
		config.Name = *patch.Name
	}
	if patch.Mode != nil {
		config.Mode = *patch.Mode
	}
	if patch.WorkTime != nil {
		config.WorkTime = *patch.WorkTime
	}
	if patch.RestTime != nil {
		config.RestTime = *patch.RestTime
	}
	if patch.TotalTime != nil {
		config.TotalTime = *patch.TotalTime
	}
	if patch.IntervalTime != nil {
		config.IntervalTime = *patch.IntervalTime
	}
	return config
}

// PatchFrom builds a patch that replaces every field of config.
func PatchFrom(config WorkoutConfig) ConfigPatch {
	return ConfigPatch{
		ID:           &config.ID,
		Name:         &config.Name,
		Mode:         &config.Mode,
		WorkTime:     &config.WorkTime,
		RestTime:     &config.RestTime,
		TotalTime:    &config.TotalTime,
		IntervalTime: &config.IntervalTime,
	}
}

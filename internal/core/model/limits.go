package model

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an edited value falls outside its Limit.
var ErrOutOfRange = errors.New("value out of range")

// Limit bounds an editable duration in seconds.
type Limit struct {
	Min  int
	Max  int
	Step int
}

// Editor limits for each duration field.
var (
	WorkLimit     = Limit{Min: 5, Max: 600, Step: 5}
	RestLimit     = Limit{Min: 5, Max: 300, Step: 5}
	IntervalLimit = Limit{Min: 30, Max: 300, Step: 15}
	TotalLimit    = Limit{Min: 60, Max: 120 * 60, Step: 60}
)

// Clamp snaps value to the nearest step inside the limit.
func (limit Limit) Clamp(value int) int {
	if value <= limit.Min {
		return limit.Min
	}
	if value >= limit.Max {
		return limit.Max
	}
	if limit.Step > 1 {
		offset := value - limit.Min
		value = limit.Min + (offset+limit.Step/2)/limit.Step*limit.Step
		if value > limit.Max {
			value = limit.Max
		}
	}
	return value
}

// Contains reports whether value lies inside the limit.
func (limit Limit) Contains(value int) bool {
	return value >= limit.Min && value <= limit.Max
}

// Validate checks the fields the mode uses against the editor limits.
func Validate(config WorkoutConfig) error {
	check := func(field string, value int, limit Limit) error {
		if !limit.Contains(value) {
			return fmt.Errorf("%w: %s %ds not in %d..%d", ErrOutOfRange, field, value, limit.Min, limit.Max)
		}
		return nil
	}

	switch config.Mode {
	case ModeIntervals:
		if err := check("work", config.WorkTime, WorkLimit); err != nil {
			return err
		}
		if err := check("rest", config.RestTime, RestLimit); err != nil {
			return err
		}
	case ModeEMOM:
		if err := check("interval", config.IntervalTime, IntervalLimit); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, config.Mode)
	}
	return check("total", config.TotalTime, TotalLimit)
}

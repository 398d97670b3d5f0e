package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimit_Clamp(t *testing.T) {
	tests := []struct {
		name  string
		limit Limit
		value int
		want  int
	}{
		{"below min", WorkLimit, 0, 5},
		{"above max", WorkLimit, 1000, 600},
		{"on step", WorkLimit, 30, 30},
		{"rounds down", WorkLimit, 32, 30},
		{"rounds up", WorkLimit, 33, 35},
		{"interval step", IntervalLimit, 50, 45},
		{"total minutes", TotalLimit, 330, 360},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.limit.Clamp(tt.value))
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(DefaultWorkoutConfig()))

	emom := WorkoutConfig{Mode: ModeEMOM, IntervalTime: 60, TotalTime: 600}
	assert.NoError(t, Validate(emom), "work and rest are ignored for EMOM")

	tests := []struct {
		name   string
		config WorkoutConfig
	}{
		{"short work", WorkoutConfig{Mode: ModeIntervals, WorkTime: 1, RestTime: 10, TotalTime: 300}},
		{"long rest", WorkoutConfig{Mode: ModeIntervals, WorkTime: 30, RestTime: 301, TotalTime: 300}},
		{"short interval", WorkoutConfig{Mode: ModeEMOM, IntervalTime: 10, TotalTime: 300}},
		{"long total", WorkoutConfig{Mode: ModeEMOM, IntervalTime: 60, TotalTime: 7201}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Validate(tt.config), ErrOutOfRange)
		})
	}

	assert.ErrorIs(t, Validate(WorkoutConfig{Mode: "tabata"}), ErrUnknownMode)
}

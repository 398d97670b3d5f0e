package cue

import "time"

// Tone is a single sine beep followed by an optional silence.
type Tone struct {
	Frequency float64
	Duration  time.Duration
	Gap       time.Duration
}

// Cue is what a host plays for a timer signal.
type Cue struct {
	Name  string
	Tones []Tone
	// Vibration alternates on/off durations, starting with on.
	Vibration []time.Duration
}

var (
	// StartCue plays when a workout starts or resumes.
	StartCue = Cue{
		Name:      "start",
		Tones:     []Tone{{Frequency: 600, Duration: 300 * time.Millisecond}},
		Vibration: []time.Duration{100 * time.Millisecond},
	}

	// TransitionCue plays on every phase or round boundary.
	TransitionCue = Cue{
		Name:      "transition",
		Tones:     []Tone{{Frequency: 800, Duration: 200 * time.Millisecond}},
		Vibration: []time.Duration{50 * time.Millisecond},
	}

	// CompletionCue plays once when the workout ends.
	CompletionCue = Cue{
		Name: "completion",
		Tones: []Tone{
			{Frequency: 400, Duration: 200 * time.Millisecond, Gap: 100 * time.Millisecond},
			{Frequency: 400, Duration: 200 * time.Millisecond, Gap: 100 * time.Millisecond},
			{Frequency: 400, Duration: 400 * time.Millisecond},
		},
		Vibration: []time.Duration{100 * time.Millisecond, 50 * time.Millisecond, 100 * time.Millisecond},
	}
)

// Length returns how long the tone sequence lasts.
func (cue Cue) Length() time.Duration {
	var total time.Duration
	for _, tone := range cue.Tones {
		total += tone.Duration + tone.Gap
	}
	return total
}

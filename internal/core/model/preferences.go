package model

// Preferences are the user settings persisted between runs.
type Preferences struct {
	SoundEnabled         bool
	NotificationsEnabled bool
	KeepAwake            bool

	// Workout is the configuration last applied in the editor.
	Workout WorkoutConfig
}

// DefaultPreferences returns default preferences.
func DefaultPreferences() Preferences {
	return Preferences{
		SoundEnabled:         true,
		NotificationsEnabled: true,
		KeepAwake:            true,
		Workout:              DefaultWorkoutConfig(),
	}
}

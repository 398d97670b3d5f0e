package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"intervaltimer/internal/core/model"
)

// SettingsFileName is the preferences file inside the data directory.
const SettingsFileName = "settings.yaml"

type yamlSettings struct {
	SoundEnabled         *bool        `yaml:"sound_enabled"`
	NotificationsEnabled *bool        `yaml:"notifications_enabled"`
	KeepAwake            *bool        `yaml:"keep_awake"`
	Workout              *yamlWorkout `yaml:"workout"`
}

type yamlWorkout struct {
	Mode            string `yaml:"mode"`
	WorkSeconds     int    `yaml:"work_seconds"`
	RestSeconds     int    `yaml:"rest_seconds"`
	IntervalSeconds int    `yaml:"interval_seconds"`
	TotalSeconds    int    `yaml:"total_seconds"`
}

// LoadSettings reads user preferences from YAML.
// If the file does not exist, default preferences are returned.
func LoadSettings(fs afero.Fs, dir string) (model.Preferences, error) {
	settings := model.DefaultPreferences()

	rawData, err := afero.ReadFile(fs, filepath.Join(dir, SettingsFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(fs afero.Fs, dir string, settings model.Preferences) error {
	workout := settings.Workout
	fileData := yamlSettings{
		SoundEnabled:         &settings.SoundEnabled,
		NotificationsEnabled: &settings.NotificationsEnabled,
		KeepAwake:            &settings.KeepAwake,
		Workout: &yamlWorkout{
			Mode:            string(workout.Mode),
			WorkSeconds:     workout.WorkTime,
			RestSeconds:     workout.RestTime,
			IntervalSeconds: workout.IntervalTime,
			TotalSeconds:    workout.TotalTime,
		},
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := writeFileAtomic(fs, filepath.Join(dir, SettingsFileName), serialized); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func applyYamlSettings(settings *model.Preferences, fileData yamlSettings) {
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	if fileData.KeepAwake != nil {
		settings.KeepAwake = *fileData.KeepAwake
	}

	if fileData.Workout == nil {
		return
	}
	workout := fileData.Workout
	if mode, err := model.ParseMode(workout.Mode); err == nil {
		settings.Workout.Mode = mode
	}
	if workout.WorkSeconds > 0 {
		settings.Workout.WorkTime = workout.WorkSeconds
	}
	if workout.RestSeconds > 0 {
		settings.Workout.RestTime = workout.RestSeconds
	}
	if workout.IntervalSeconds > 0 {
		settings.Workout.IntervalTime = workout.IntervalSeconds
	}
	if workout.TotalSeconds > 0 {
		settings.Workout.TotalTime = workout.TotalSeconds
	}
}

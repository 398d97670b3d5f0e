package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"intervaltimer/internal/logging"
	"intervaltimer/internal/platform"
)

// AppName names the data directory and the single-instance lock.
const AppName = "IntervalTimer"

// Config holds runtime configuration resolved from the environment.
type Config struct {
	// DataDir holds settings.yaml and workouts.yaml.
	DataDir      string
	TickInterval time.Duration
	LogLevel     logging.Level
}

// Overrides optionally overrides values from environment variables.
//
// A nil pointer means "use the environment/default value".
type Overrides struct {
	DataDir      *string
	TickInterval *time.Duration
	Debug        *bool
}

// Load resolves configuration from INTERVALTIMER_* environment variables and
// applies any explicit overrides.
func Load(overrides Overrides) (*Config, error) {
	dataDir := os.Getenv("INTERVALTIMER_HOME")
	if overrides.DataDir != nil {
		dataDir = *overrides.DataDir
	}
	if dataDir == "" {
		configDir, err := platform.ConfigDir()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Join(configDir, AppName)
	}

	tickInterval, err := parseInterval(os.Getenv("INTERVALTIMER_TICK"), time.Second)
	if err != nil {
		return nil, err
	}
	if overrides.TickInterval != nil {
		tickInterval = *overrides.TickInterval
	}
	if tickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive, got %s", tickInterval)
	}

	logLevel := logging.LevelInfo
	if debugStr := os.Getenv("INTERVALTIMER_DEBUG"); debugStr == "true" || debugStr == "1" {
		logLevel = logging.LevelDebug
	}
	if overrides.Debug != nil && *overrides.Debug {
		logLevel = logging.LevelDebug
	}

	return &Config{
		DataDir:      dataDir,
		TickInterval: tickInterval,
		LogLevel:     logLevel,
	}, nil
}

// parseInterval accepts a Go duration ("500ms") or a whole number of seconds.
func parseInterval(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration, nil
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return 0, fmt.Errorf("parse INTERVALTIMER_TICK %q: not a duration", value)
}

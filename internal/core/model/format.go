package model

import "fmt"

// FormatClock renders seconds as mm:ss. Negative values render as 00:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatDuration renders seconds as a compact human duration, e.g. "1h 2m 3s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	remaining := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, remaining)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, remaining)
	default:
		return fmt.Sprintf("%ds", remaining)
	}
}

// PhaseLabel returns the banner text for a phase.
func PhaseLabel(phase Phase) string {
	switch phase {
	case PhaseWork:
		return "WORK"
	case PhaseRest:
		return "REST"
	case PhaseEMOM:
		return "EMOM"
	default:
		return "TIMER"
	}
}

// Describe summarises the phase layout of a workout, e.g. "00:30 work / 00:10 rest".
func Describe(config WorkoutConfig) string {
	if config.Mode == ModeEMOM {
		return fmt.Sprintf("every %s", FormatClock(config.IntervalTime))
	}
	return fmt.Sprintf("%s work / %s rest", FormatClock(config.WorkTime), FormatClock(config.RestTime))
}

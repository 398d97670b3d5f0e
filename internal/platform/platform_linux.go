//go:build linux

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func inhibitorCommand(reason string) (*exec.Cmd, error) {
	path, err := exec.LookPath("systemd-inhibit")
	if err != nil {
		return nil, fmt.Errorf("%w: systemd-inhibit not found", ErrWakeLockUnsupported)
	}
	return exec.Command(path,
		"--what=idle:sleep",
		"--who=IntervalTimer",
		"--why="+reason,
		"--mode=block",
		"sleep", "infinity",
	), nil
}

func audioPlayer() (func(ctx context.Context, path string) *exec.Cmd, error) {
	if path, err := exec.LookPath("paplay"); err == nil {
		return func(ctx context.Context, file string) *exec.Cmd {
			return exec.CommandContext(ctx, path, file)
		}, nil
	}
	if path, err := exec.LookPath("aplay"); err == nil {
		return func(ctx context.Context, file string) *exec.Cmd {
			return exec.CommandContext(ctx, path, "-q", file)
		}, nil
	}
	return nil, fmt.Errorf("neither paplay nor aplay found")
}

//go:build darwin

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func inhibitorCommand(string) (*exec.Cmd, error) {
	path, err := exec.LookPath("caffeinate")
	if err != nil {
		return nil, fmt.Errorf("%w: caffeinate not found", ErrWakeLockUnsupported)
	}
	return exec.Command(path, "-d", "-i"), nil
}

func audioPlayer() (func(ctx context.Context, path string) *exec.Cmd, error) {
	path, err := exec.LookPath("afplay")
	if err != nil {
		return nil, fmt.Errorf("afplay not found: %w", err)
	}
	return func(ctx context.Context, file string) *exec.Cmd {
		return exec.CommandContext(ctx, path, file)
	}, nil
}

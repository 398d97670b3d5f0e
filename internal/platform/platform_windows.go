//go:build windows

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func inhibitorCommand(string) (*exec.Cmd, error) {
	return nil, fmt.Errorf("%w on windows", ErrWakeLockUnsupported)
}

func audioPlayer() (func(ctx context.Context, path string) *exec.Cmd, error) {
	path, err := exec.LookPath("powershell")
	if err != nil {
		return nil, fmt.Errorf("powershell not found: %w", err)
	}
	return func(ctx context.Context, file string) *exec.Cmd {
		quoted := strings.ReplaceAll(file, "'", "''")
		return exec.CommandContext(ctx, path, "-NoProfile", "-Command",
			fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", quoted))
	}, nil
}

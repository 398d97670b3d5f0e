package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"
)

// ErrWakeLockUnsupported indicates no inhibitor tool is available.
var ErrWakeLockUnsupported = errors.New("wake lock unsupported")

// WakeLock keeps the display awake by holding an inhibitor process for as long
// as the lock is held. The process is killed on Release.
type WakeLock struct {
	mu      sync.Mutex
	command func() (*exec.Cmd, error)
	process *exec.Cmd
	exited  chan struct{}
}

// NewWakeLock returns a wake lock using the platform's inhibitor tool.
func NewWakeLock(reason string) *WakeLock {
	return &WakeLock{command: func() (*exec.Cmd, error) {
		return inhibitorCommand(reason)
	}}
}

// Acquire starts the inhibitor. Acquiring a held lock is a no-op.
func (lock *WakeLock) Acquire() error {
	lock.mu.Lock()
	defer lock.mu.Unlock()

	if lock.process != nil {
		return nil
	}
	command, err := lock.command()
	if err != nil {
		return err
	}
	if err := command.Start(); err != nil {
		return fmt.Errorf("start inhibitor %s: %w", command.Path, err)
	}

	exited := make(chan struct{})
	go func() {
		_ = command.Wait()
		close(exited)
	}()
	lock.process = command
	lock.exited = exited
	return nil
}

// Release stops the inhibitor. Releasing a free lock is a no-op.
func (lock *WakeLock) Release() error {
	lock.mu.Lock()
	process, exited := lock.process, lock.exited
	lock.process = nil
	lock.exited = nil
	lock.mu.Unlock()

	if process == nil {
		return nil
	}

	select {
	case <-exited:
		return nil
	default:
	}
	if err := process.Process.Kill(); err != nil {
		return fmt.Errorf("stop inhibitor: %w", err)
	}
	<-exited
	return nil
}

// Held reports whether the inhibitor process is running.
func (lock *WakeLock) Held() bool {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	if lock.process == nil {
		return false
	}
	select {
	case <-lock.exited:
		return false
	default:
		return true
	}
}

package animation

import (
	"context"
	"sync"
	"time"
)

// Pulse plays on/off patterns, such as a haptic pattern rendered as flashes.
// Starting a new pattern cancels the one in progress.
type Pulse struct {
	mu     sync.Mutex
	set    func(on bool)
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Pulse that reports state changes through set. set is called
// from the pulse goroutine.
func New(set func(on bool)) *Pulse {
	return &Pulse{set: set}
}

// Play runs pattern, which alternates on and off durations starting with on.
// The pulse always ends in the off state.
func (pulse *Pulse) Play(pattern []time.Duration) {
	if len(pattern) == 0 {
		return
	}
	pattern = append([]time.Duration(nil), pattern...)
	pulse.start(func(ctx context.Context) {
		defer pulse.set(false)
		for index, duration := range pattern {
			pulse.set(index%2 == 0)
			if !sleepWithContext(ctx, duration) {
				return
			}
		}
	})
}

// Stop cancels the active pattern and waits for it to finish.
func (pulse *Pulse) Stop() {
	pulse.mu.Lock()
	cancel, done := pulse.cancel, pulse.done
	pulse.cancel = nil
	pulse.done = nil
	pulse.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (pulse *Pulse) start(run func(context.Context)) {
	pulse.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	pulse.mu.Lock()
	pulse.cancel = cancel
	pulse.done = done
	pulse.mu.Unlock()

	go func() {
		defer close(done)
		run(ctx)
	}()
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

package timer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"intervaltimer/internal/core/model"
	"intervaltimer/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeWakeLock struct {
	mu         sync.Mutex
	held       bool
	acquired   int
	released   int
	acquireErr error
}

func (lock *fakeWakeLock) Acquire() error {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	if lock.acquireErr != nil {
		return lock.acquireErr
	}
	lock.held = true
	lock.acquired++
	return nil
}

func (lock *fakeWakeLock) Release() error {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	lock.held = false
	lock.released++
	return nil
}

func (lock *fakeWakeLock) isHeld() bool {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	return lock.held
}

func TestDriver_StepFullIntervalsWorkout(t *testing.T) {
	config := model.WorkoutConfig{Mode: model.ModeIntervals, WorkTime: 3, RestTime: 2, TotalTime: 12}
	machine := New(config)
	listener := &recordingListener{}
	machine.AddCueListener(listener)
	driver := NewDriver(machine, DriverConfig{}, nil, logging.Nop())

	machine.Start()

	type beat struct {
		phase   model.Phase
		current int
		total   int
		round   int
	}
	want := []beat{
		{model.PhaseWork, 2, 11, 1},
		{model.PhaseWork, 1, 10, 1},
		{model.PhaseRest, 2, 9, 1},
		{model.PhaseRest, 1, 8, 1},
		{model.PhaseWork, 3, 7, 2},
		{model.PhaseWork, 2, 6, 2},
		{model.PhaseWork, 1, 5, 2},
		{model.PhaseRest, 2, 4, 2},
		{model.PhaseRest, 1, 3, 2},
		{model.PhaseWork, 3, 2, 3},
		{model.PhaseWork, 2, 1, 3},
	}
	for i, expected := range want {
		require.True(t, driver.Step(), "beat %d", i)
		snapshot := machine.Snapshot()
		assert.Equal(t, expected.phase, snapshot.Phase, "beat %d", i)
		assert.Equal(t, expected.current, snapshot.CurrentTime, "beat %d", i)
		assert.Equal(t, expected.total, snapshot.TotalTimeRemaining, "beat %d", i)
		assert.Equal(t, expected.round, snapshot.CurrentRound, "beat %d", i)
	}

	assert.False(t, driver.Step())
	snapshot := machine.Snapshot()
	assert.Equal(t, model.StatusCompleted, snapshot.Status)
	assert.Equal(t, 0, snapshot.TotalTimeRemaining)
	assert.Equal(t, 1, snapshot.CurrentTime, "completion does not wait for the phase to end")
	assert.Equal(t, 100.0, snapshot.TotalProgress)

	assert.False(t, driver.Step(), "completed workouts do not tick")
	assert.Equal(t, []string{"start", "transition", "transition", "transition", "transition", "complete"}, listener.calls)
}

func TestDriver_StepEMOM(t *testing.T) {
	machine := New(model.WorkoutConfig{Mode: model.ModeEMOM, IntervalTime: 2, TotalTime: 4})
	driver := NewDriver(machine, DriverConfig{}, nil, nil)
	machine.Start()

	require.True(t, driver.Step())
	require.True(t, driver.Step())
	snapshot := machine.Snapshot()
	assert.Equal(t, 2, snapshot.CurrentRound)
	assert.Equal(t, 2, snapshot.CurrentTime)

	require.True(t, driver.Step())
	assert.False(t, driver.Step())
	assert.Equal(t, model.StatusCompleted, machine.Snapshot().Status)
}

func TestDriver_StepIgnoredWhenNotRunning(t *testing.T) {
	machine := New(model.DefaultWorkoutConfig())
	driver := NewDriver(machine, DriverConfig{}, nil, nil)

	assert.False(t, driver.Step())
	assert.Equal(t, 30, machine.Snapshot().CurrentTime)
}

func TestDriver_RunsToCompletion(t *testing.T) {
	lock := &fakeWakeLock{}
	machine := New(model.WorkoutConfig{Mode: model.ModeIntervals, WorkTime: 1, RestTime: 1, TotalTime: 4})
	events := machine.Subscribe(64)
	driver := NewDriver(machine, DriverConfig{TickInterval: 2 * time.Millisecond}, lock, logging.Nop())

	driver.Start()
	assert.True(t, lock.isHeld())

	waitForEvent(t, events, EventWorkoutComplete)

	assert.Eventually(t, func() bool { return !driver.Running() }, time.Second, time.Millisecond)
	assert.False(t, lock.isHeld(), "wake lock released on completion")
	assert.Equal(t, model.StatusCompleted, machine.Snapshot().Status)

	driver.Stop()
	machine.Close()
}

func TestDriver_PauseKeepsStateAndWakeLock(t *testing.T) {
	lock := &fakeWakeLock{}
	machine := New(model.DefaultWorkoutConfig())
	driver := NewDriver(machine, DriverConfig{TickInterval: time.Hour}, lock, nil)

	driver.Start()
	require.True(t, driver.Running())
	driver.Step()

	driver.Pause()
	assert.False(t, driver.Running())
	snapshot := machine.Snapshot()
	assert.Equal(t, model.StatusPaused, snapshot.Status)
	assert.Equal(t, 29, snapshot.CurrentTime)
	assert.True(t, lock.isHeld())

	driver.Start()
	assert.True(t, driver.Running())
	assert.Equal(t, 1, lock.acquired, "resume reuses the held wake lock")

	driver.Reset()
	assert.False(t, driver.Running())
	assert.False(t, lock.isHeld())
	assert.Equal(t, New(model.DefaultWorkoutConfig()).Snapshot(), machine.Snapshot())
}

func TestDriver_StartIgnoredWhenCompleted(t *testing.T) {
	machine := New(model.DefaultWorkoutConfig())
	driver := NewDriver(machine, DriverConfig{TickInterval: time.Hour}, nil, nil)

	machine.Complete()
	driver.Start()

	assert.False(t, driver.Running())
}

func TestDriver_WakeLockFailureIsNotFatal(t *testing.T) {
	lock := &fakeWakeLock{acquireErr: errors.New("no inhibitor")}
	machine := New(model.DefaultWorkoutConfig())
	driver := NewDriver(machine, DriverConfig{TickInterval: time.Hour}, lock, nil)

	driver.Start()
	assert.True(t, driver.Running())
	assert.Equal(t, model.StatusRunning, machine.Snapshot().Status)

	driver.Stop()
	assert.Equal(t, 0, lock.released)
}

func TestDriver_LoopEndingOutsideDriverReleasesWakeLock(t *testing.T) {
	lock := &fakeWakeLock{}
	machine := New(model.DefaultWorkoutConfig())
	driver := NewDriver(machine, DriverConfig{TickInterval: time.Millisecond}, lock, nil)

	driver.Start()
	require.True(t, lock.isHeld())

	machine.Reset()

	assert.Eventually(t, func() bool { return !driver.Running() }, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return !lock.isHeld() }, time.Second, time.Millisecond)
	assert.Equal(t, 1, lock.released)
}

func TestDriver_DisabledWakeLockIsRetried(t *testing.T) {
	lock := &fakeWakeLock{acquireErr: ErrWakeLockDisabled}
	machine := New(model.DefaultWorkoutConfig())
	driver := NewDriver(machine, DriverConfig{TickInterval: time.Hour}, lock, nil)

	driver.Start()
	driver.Pause()
	assert.False(t, lock.isHeld())

	lock.mu.Lock()
	lock.acquireErr = nil
	lock.mu.Unlock()

	driver.Start()
	assert.True(t, lock.isHeld(), "a skipped acquire is not remembered as held")

	driver.ReleaseWakeLock()
	assert.False(t, lock.isHeld())
	assert.True(t, driver.Running(), "releasing the lock leaves the workout running")

	driver.HoldWakeLock()
	assert.True(t, lock.isHeld())
	assert.Equal(t, 2, lock.acquired)

	driver.Reset()
	driver.HoldWakeLock()
	assert.False(t, lock.isHeld(), "idle workouts do not take the wake lock")
}

func waitForEvent(t *testing.T, events <-chan Event, eventType EventType) Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event := <-events:
			if event.Type == eventType {
				return event
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", eventType)
			return Event{}
		}
	}
}

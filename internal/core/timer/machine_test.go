package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intervaltimer/internal/core/model"
)

type recordingListener struct {
	calls []string
	last  Snapshot
}

func (listener *recordingListener) OnPhaseStart(snapshot Snapshot) {
	listener.calls = append(listener.calls, "start")
	listener.last = snapshot
}

func (listener *recordingListener) OnPhaseTransition(snapshot Snapshot) {
	listener.calls = append(listener.calls, "transition")
	listener.last = snapshot
}

func (listener *recordingListener) OnWorkoutComplete(snapshot Snapshot) {
	listener.calls = append(listener.calls, "complete")
	listener.last = snapshot
}

func intervalsConfig() model.WorkoutConfig {
	return model.WorkoutConfig{
		Mode:         model.ModeIntervals,
		WorkTime:     30,
		RestTime:     10,
		TotalTime:    300,
		IntervalTime: 60,
	}
}

func emomConfig() model.WorkoutConfig {
	return model.WorkoutConfig{
		Mode:         model.ModeEMOM,
		WorkTime:     30,
		RestTime:     10,
		TotalTime:    600,
		IntervalTime: 60,
	}
}

func TestCalculateRounds(t *testing.T) {
	tests := []struct {
		name   string
		config model.WorkoutConfig
		want   int
	}{
		{name: "intervals 30/10 over 300", config: intervalsConfig(), want: 7},
		{name: "emom 60 over 600", config: emomConfig(), want: 10},
		{
			name:   "emom uneven",
			config: model.WorkoutConfig{Mode: model.ModeEMOM, TotalTime: 250, IntervalTime: 60},
			want:   4,
		},
		{
			name:   "intervals zero cycle",
			config: model.WorkoutConfig{Mode: model.ModeIntervals, TotalTime: 300},
			want:   0,
		},
		{
			name:   "emom zero interval",
			config: model.WorkoutConfig{Mode: model.ModeEMOM, TotalTime: 300, WorkTime: 30, RestTime: 10},
			want:   0,
		},
		{
			name:   "cycle longer than total",
			config: model.WorkoutConfig{Mode: model.ModeIntervals, WorkTime: 200, RestTime: 200, TotalTime: 300},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateRounds(tt.config))
		})
	}
}

func TestCalculateRounds_MatchesFloorOfCycle(t *testing.T) {
	for work := 5; work <= 60; work += 5 {
		for rest := 5; rest <= 30; rest += 5 {
			for total := 60; total <= 1200; total += 60 {
				config := model.WorkoutConfig{Mode: model.ModeIntervals, WorkTime: work, RestTime: rest, TotalTime: total}
				require.Equal(t, total/(work+rest), CalculateRounds(config))
			}
		}
	}
	for interval := 30; interval <= 300; interval += 15 {
		config := model.WorkoutConfig{Mode: model.ModeEMOM, IntervalTime: interval, TotalTime: 3600}
		require.Equal(t, 3600/interval, CalculateRounds(config))
	}
}

func TestNew_InitialState(t *testing.T) {
	snapshot := New(intervalsConfig()).Snapshot()

	assert.Equal(t, model.StatusIdle, snapshot.Status)
	assert.Equal(t, model.PhaseWork, snapshot.Phase)
	assert.Equal(t, 30, snapshot.CurrentTime)
	assert.Equal(t, 300, snapshot.TotalTimeRemaining)
	assert.Equal(t, 1, snapshot.CurrentRound)
	assert.Equal(t, 7, snapshot.TotalRounds)
	assert.Zero(t, snapshot.PhaseProgress)
	assert.Zero(t, snapshot.TotalProgress)
}

func TestMachine_SetConfig(t *testing.T) {
	machine := New(intervalsConfig())
	machine.Start()
	machine.Tick(12, 200)

	mode := model.ModeEMOM
	interval := 45
	snapshot := machine.SetConfig(model.ConfigPatch{Mode: &mode, IntervalTime: &interval})

	assert.Equal(t, model.StatusIdle, snapshot.Status)
	assert.Equal(t, model.PhaseEMOM, snapshot.Phase)
	assert.Equal(t, 45, snapshot.CurrentTime)
	assert.Equal(t, 300, snapshot.TotalTimeRemaining)
	assert.Equal(t, 1, snapshot.CurrentRound)
	assert.Equal(t, 6, snapshot.TotalRounds)
	assert.Equal(t, 30, snapshot.Config.WorkTime, "unpatched fields are kept")
	assert.Equal(t, snapshot, machine.Snapshot())
}

func TestMachine_StatusTransitions(t *testing.T) {
	machine := New(intervalsConfig())

	machine.Pause()
	assert.Equal(t, model.StatusIdle, machine.Snapshot().Status, "pause from idle is ignored")

	machine.Start()
	assert.Equal(t, model.StatusRunning, machine.Snapshot().Status)

	machine.Pause()
	assert.Equal(t, model.StatusPaused, machine.Snapshot().Status)

	machine.Start()
	assert.Equal(t, model.StatusRunning, machine.Snapshot().Status)

	machine.Complete()
	assert.Equal(t, model.StatusCompleted, machine.Snapshot().Status)

	machine.Start()
	assert.Equal(t, model.StatusCompleted, machine.Snapshot().Status, "start from completed is ignored")
	machine.Pause()
	assert.Equal(t, model.StatusCompleted, machine.Snapshot().Status)

	machine.Reset()
	assert.Equal(t, model.StatusIdle, machine.Snapshot().Status)
}

func TestMachine_ResetIsIdempotent(t *testing.T) {
	machine := New(intervalsConfig())
	machine.Start()
	machine.Tick(0, 270)
	machine.Tick(3, 263)

	machine.Reset()
	first := machine.Snapshot()
	machine.Reset()
	second := machine.Snapshot()

	assert.Equal(t, first, second)
	assert.Equal(t, New(intervalsConfig()).Snapshot(), first)
}

func TestMachine_TickAdvancesPhaseAtZero(t *testing.T) {
	listener := &recordingListener{}
	machine := New(intervalsConfig())
	machine.AddCueListener(listener)
	machine.Start()

	snapshot := machine.Tick(0, 150)

	assert.Equal(t, model.StatusRunning, snapshot.Status)
	assert.Equal(t, model.PhaseRest, snapshot.Phase)
	assert.Equal(t, 10, snapshot.CurrentTime)
	assert.Equal(t, 150, snapshot.TotalTimeRemaining)
	assert.Equal(t, 1, snapshot.CurrentRound)
	assert.Equal(t, []string{"start", "transition"}, listener.calls)
	assert.Equal(t, snapshot, listener.last)
}

func TestMachine_TickCompletesRegardlessOfPhase(t *testing.T) {
	listener := &recordingListener{}
	machine := New(intervalsConfig())
	machine.AddCueListener(listener)
	machine.Start()

	snapshot := machine.Tick(17, 0)
	assert.Equal(t, model.StatusCompleted, snapshot.Status)
	assert.Equal(t, 17, snapshot.CurrentTime)
	assert.Equal(t, "00:00", snapshot.Clock())

	after := machine.Tick(5, 0)
	assert.Equal(t, snapshot, after, "ticks after completion are no-ops")
	assert.Equal(t, []string{"start", "complete"}, listener.calls)
}

func TestMachine_CompletionBeatsPhaseAdvance(t *testing.T) {
	listener := &recordingListener{}
	machine := New(intervalsConfig())
	machine.AddCueListener(listener)
	machine.Start()

	snapshot := machine.Tick(0, 0)

	assert.Equal(t, model.StatusCompleted, snapshot.Status)
	assert.Equal(t, model.PhaseWork, snapshot.Phase)
	assert.Equal(t, 1, snapshot.CurrentRound)
	assert.Equal(t, []string{"start", "complete"}, listener.calls)
}

func TestMachine_TickClampsNegatives(t *testing.T) {
	machine := New(intervalsConfig())
	machine.Start()

	snapshot := machine.Tick(-4, -1)

	assert.Equal(t, 0, snapshot.TotalTimeRemaining)
	assert.GreaterOrEqual(t, snapshot.CurrentTime, 0)
	assert.Equal(t, model.StatusCompleted, snapshot.Status)
}

func TestMachine_TickIgnoredUnlessRunning(t *testing.T) {
	machine := New(intervalsConfig())

	idle := machine.Tick(3, 100)
	assert.Equal(t, 30, idle.CurrentTime)
	assert.Equal(t, 300, idle.TotalTimeRemaining)

	machine.Start()
	machine.Pause()
	paused := machine.Tick(3, 100)
	assert.Equal(t, 30, paused.CurrentTime)
}

func TestMachine_AdvancePhaseIntervals(t *testing.T) {
	machine := New(intervalsConfig())

	machine.AdvancePhase()
	snapshot := machine.Snapshot()
	assert.Equal(t, model.PhaseRest, snapshot.Phase)
	assert.Equal(t, 10, snapshot.CurrentTime)
	assert.Equal(t, 1, snapshot.CurrentRound)

	machine.AdvancePhase()
	snapshot = machine.Snapshot()
	assert.Equal(t, model.PhaseWork, snapshot.Phase)
	assert.Equal(t, 30, snapshot.CurrentTime)
	assert.Equal(t, 2, snapshot.CurrentRound)
}

func TestMachine_AdvancePhaseEMOM(t *testing.T) {
	machine := New(emomConfig())
	machine.Start()
	machine.Tick(0, 540)

	snapshot := machine.Snapshot()
	assert.Equal(t, model.PhaseEMOM, snapshot.Phase)
	assert.Equal(t, 60, snapshot.CurrentTime)
	assert.Equal(t, 2, snapshot.CurrentRound)
	assert.Equal(t, "Round 2 of 10", snapshot.StatusMessage())
}

func TestMachine_AdvancePhaseSkipsEmptyRest(t *testing.T) {
	config := intervalsConfig()
	config.RestTime = 0
	machine := New(config)

	machine.AdvancePhase()
	snapshot := machine.Snapshot()

	assert.Equal(t, model.PhaseWork, snapshot.Phase)
	assert.Equal(t, 30, snapshot.CurrentTime)
	assert.Equal(t, 2, snapshot.CurrentRound)
}

func TestMachine_DegenerateConfigNeverAdvances(t *testing.T) {
	listener := &recordingListener{}
	machine := New(model.WorkoutConfig{Mode: model.ModeIntervals, TotalTime: 60})
	machine.AddCueListener(listener)
	machine.Start()

	snapshot := machine.Tick(0, 59)

	assert.Equal(t, 0, snapshot.TotalRounds)
	assert.Equal(t, 1, snapshot.CurrentRound)
	assert.Equal(t, model.StatusRunning, snapshot.Status)
	assert.Equal(t, []string{"start"}, listener.calls)
}

func TestMachine_Progress(t *testing.T) {
	machine := New(intervalsConfig())
	machine.Start()

	snapshot := machine.Tick(15, 285)
	assert.InDelta(t, 50.0, snapshot.PhaseProgress, 0.001)
	assert.InDelta(t, 5.0, snapshot.TotalProgress, 0.001)

	degenerate := New(model.WorkoutConfig{Mode: model.ModeEMOM}).Snapshot()
	assert.Zero(t, degenerate.PhaseProgress)
	assert.Zero(t, degenerate.TotalProgress)
}

func TestMachine_StatusMessage(t *testing.T) {
	machine := New(intervalsConfig())
	assert.Equal(t, "Ready to Start", machine.Snapshot().StatusMessage())

	machine.Start()
	assert.Equal(t, "WORK - Round 1 of 7", machine.Snapshot().StatusMessage())

	machine.Pause()
	assert.Equal(t, "Paused", machine.Snapshot().StatusMessage())

	machine.Complete()
	assert.Equal(t, "Workout Complete!", machine.Snapshot().StatusMessage())
}

func TestMachine_CompleteFiresOnce(t *testing.T) {
	listener := &recordingListener{}
	machine := New(intervalsConfig())
	machine.AddCueListener(listener)

	machine.Complete()
	machine.Complete()

	assert.Equal(t, []string{"complete"}, listener.calls)
}

func TestMachine_Subscribe(t *testing.T) {
	machine := New(intervalsConfig())
	events := machine.Subscribe(8)

	machine.Start()
	machine.Tick(0, 290)

	var types []EventType
	for i := 0; i < 5; i++ {
		event := <-events
		types = append(types, event.Type)
	}
	assert.Equal(t, []EventType{
		EventStateChange,
		EventPhaseStart,
		EventProgress,
		EventStateChange,
		EventPhaseTransition,
	}, types)

	machine.Close()
	_, open := <-events
	assert.False(t, open)

	assert.NotPanics(t, func() { machine.Reset() }, "emitting after Close is safe")
}

func TestMachine_SubscribeDropsWhenFull(t *testing.T) {
	machine := New(intervalsConfig())
	events := machine.Subscribe(1)

	machine.Start()
	machine.Pause()
	machine.Start()

	assert.Len(t, events, 1)
}

func TestCueFuncs_IgnoresNil(t *testing.T) {
	var started int
	machine := New(intervalsConfig())
	machine.AddCueListener(CueFuncs{PhaseStart: func(Snapshot) { started++ }})

	machine.Start()
	machine.AdvancePhase()
	machine.Complete()

	assert.Equal(t, 1, started)
}

package saved

import (
	"errors"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intervaltimer/internal/core/model"
)

func TestDetails(t *testing.T) {
	assert.Equal(t, "Intervals • 00:30 work / 00:10 rest • 7 rounds • 5m 0s", Details(model.DefaultWorkoutConfig()))

	emom := model.WorkoutConfig{Mode: model.ModeEMOM, IntervalTime: 60, TotalTime: 600}
	assert.Equal(t, "EMOM • every 01:00 • 10 rounds • 10m 0s", Details(emom))
}

func rowButtons(t *testing.T, view *Window, index int) (*widget.Button, *widget.Button) {
	t.Helper()
	row := view.createRow()
	view.updateRow(index, row)
	buttons := row.(*fyne.Container).Objects[1].(*fyne.Container)
	return buttons.Objects[0].(*widget.Button), buttons.Objects[1].(*widget.Button)
}

func TestWindow_ListAndLoad(t *testing.T) {
	app := test.NewTempApp(t)
	var loaded []string
	view := New(app, Callbacks{
		OnLoad: func(id string) error {
			loaded = append(loaded, id)
			return nil
		},
	})

	view.SetWorkouts(nil)
	assert.True(t, view.empty.Visible())

	workouts := []model.WorkoutConfig{
		{ID: "a", Name: "First", Mode: model.ModeIntervals, WorkTime: 30, RestTime: 10, TotalTime: 300},
		{ID: "b", Name: "Second", Mode: model.ModeEMOM, IntervalTime: 60, TotalTime: 600},
	}
	view.SetWorkouts(workouts)
	assert.False(t, view.empty.Visible())
	assert.Equal(t, 2, view.list.Length())

	load, _ := rowButtons(t, view, 1)
	test.Tap(load)
	assert.Equal(t, []string{"b"}, loaded)
}

func TestWindow_DeleteAndErrors(t *testing.T) {
	app := test.NewTempApp(t)
	var deleted []string
	view := New(app, Callbacks{
		OnLoad: func(string) error { return errors.New("gone") },
		OnDelete: func(id string) error {
			deleted = append(deleted, id)
			return nil
		},
	})
	view.SetWorkouts([]model.WorkoutConfig{{ID: "a", Name: "Only"}})

	view.delete("a")
	require.Equal(t, []string{"a"}, deleted)

	assert.NotPanics(t, func() { view.load("a") })
}

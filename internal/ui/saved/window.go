package saved

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"intervaltimer/internal/core/model"
	"intervaltimer/internal/core/timer"
)

// Callbacks defines saved list action handlers.
type Callbacks struct {
	OnLoad   func(id string) error
	OnDelete func(id string) error
}

// Window lists saved workouts.
type Window struct {
	window    fyne.Window
	callbacks Callbacks
	workouts  []model.WorkoutConfig
	list      *widget.List
	empty     *widget.Label
}

// New creates the saved workouts window.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("Saved Workouts")
	view := &Window{window: window, callbacks: callbacks}

	view.empty = widget.NewLabel("No saved workouts yet. Save one from the setup window.")
	view.empty.Alignment = fyne.TextAlignCenter
	view.empty.Wrapping = fyne.TextWrapWord

	view.list = widget.NewList(
		func() int { return len(view.workouts) },
		view.createRow,
		view.updateRow,
	)

	window.SetContent(container.NewStack(view.list, container.NewCenter(view.empty)))
	window.Resize(fyne.NewSize(460, 420))
	window.SetCloseIntercept(window.Hide)
	return view
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Hide hides the window.
func (view *Window) Hide() {
	view.window.Hide()
}

// SetWorkouts replaces the listed workouts.
func (view *Window) SetWorkouts(workouts []model.WorkoutConfig) {
	view.workouts = append([]model.WorkoutConfig(nil), workouts...)
	if len(view.workouts) == 0 {
		view.empty.Show()
	} else {
		view.empty.Hide()
	}
	view.list.Refresh()
}

func (view *Window) createRow() fyne.CanvasObject {
	title := widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	details := widget.NewLabel("")
	load := widget.NewButtonWithIcon("Load", theme.MediaPlayIcon(), nil)
	load.Importance = widget.HighImportance
	remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
	return container.NewBorder(nil, nil, nil,
		container.NewHBox(load, remove),
		container.NewVBox(title, details),
	)
}

func (view *Window) updateRow(id widget.ListItemID, object fyne.CanvasObject) {
	if id < 0 || id >= len(view.workouts) {
		return
	}
	workout := view.workouts[id]

	row := object.(*fyne.Container)
	text := row.Objects[0].(*fyne.Container)
	buttons := row.Objects[1].(*fyne.Container)

	text.Objects[0].(*widget.Label).SetText(workout.Name)
	text.Objects[1].(*widget.Label).SetText(Details(workout))

	buttons.Objects[0].(*widget.Button).OnTapped = func() {
		view.load(workout.ID)
	}
	buttons.Objects[1].(*widget.Button).OnTapped = func() {
		view.confirmDelete(workout)
	}
}

func (view *Window) load(id string) {
	if view.callbacks.OnLoad == nil {
		return
	}
	if err := view.callbacks.OnLoad(id); err != nil {
		dialog.ShowError(err, view.window)
		return
	}
	view.window.Hide()
}

func (view *Window) confirmDelete(workout model.WorkoutConfig) {
	message := fmt.Sprintf("Delete %q? This cannot be undone.", workout.Name)
	dialog.ShowConfirm("Delete workout", message, func(confirmed bool) {
		if confirmed {
			view.delete(workout.ID)
		}
	}, view.window)
}

func (view *Window) delete(id string) {
	if view.callbacks.OnDelete == nil {
		return
	}
	if err := view.callbacks.OnDelete(id); err != nil {
		dialog.ShowError(err, view.window)
	}
}

// Details describes a saved workout on one line.
func Details(workout model.WorkoutConfig) string {
	rounds := timer.CalculateRounds(workout)
	mode := "Intervals"
	if workout.Mode == model.ModeEMOM {
		mode = "EMOM"
	}
	return fmt.Sprintf("%s • %s • %d rounds • %s",
		mode, model.Describe(workout), rounds, model.FormatDuration(workout.TotalTime))
}

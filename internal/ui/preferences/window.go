package preferences

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"intervaltimer/internal/core/model"
	"intervaltimer/internal/core/timer"
)

// Callbacks defines editor action handlers.
type Callbacks struct {
	// OnApply loads the edited config into the timer.
	OnApply func(model.WorkoutConfig)
	// OnSave stores the timer's current config under name.
	OnSave func(name string) error
	// OnPreferences reports changed toggles.
	OnPreferences func(model.Preferences)
}

var modeLabels = map[model.Mode]string{
	model.ModeIntervals: "Work / Rest",
	model.ModeEMOM:      "EMOM",
}

// Window is the workout editor.
type Window struct {
	window    fyne.Window
	callbacks Callbacks
	config    model.WorkoutConfig
	prefs     model.Preferences

	modeRadio   *widget.RadioGroup
	work        *stepper
	rest        *stepper
	interval    *stepper
	total       *stepper
	roundsLabel *widget.Label
	nameEntry   *widget.Entry
	saveButton  *widget.Button
	sound       *widget.Check
	notify      *widget.Check
	keepAwake   *widget.Check

	intervalsForm *fyne.Container
	emomForm      *fyne.Container
}

// New creates the editor window for prefs.
func New(app fyne.App, prefs model.Preferences, callbacks Callbacks) *Window {
	window := app.NewWindow("Workout Setup")

	editor := &Window{
		window:    window,
		callbacks: callbacks,
		config:    prefs.Workout,
		prefs:     prefs,
	}

	editor.modeRadio = widget.NewRadioGroup(
		[]string{modeLabels[model.ModeIntervals], modeLabels[model.ModeEMOM]},
		func(selected string) {
			for mode, label := range modeLabels {
				if label == selected {
					editor.config.Mode = mode
				}
			}
			editor.refresh()
		},
	)
	editor.modeRadio.Horizontal = true
	editor.modeRadio.Required = true

	editor.work = newStepper(model.WorkLimit, prefs.Workout.WorkTime, model.FormatClock)
	editor.rest = newStepper(model.RestLimit, prefs.Workout.RestTime, model.FormatClock)
	editor.interval = newStepper(model.IntervalLimit, prefs.Workout.IntervalTime, model.FormatClock)
	editor.total = newStepper(model.TotalLimit, prefs.Workout.TotalTime, formatMinutes)
	for _, item := range []*stepper{editor.work, editor.rest, editor.interval, editor.total} {
		item.onChange = func(int) { editor.refresh() }
	}

	editor.roundsLabel = widget.NewLabel("")
	editor.nameEntry = widget.NewEntry()
	editor.nameEntry.SetPlaceHolder("Workout name")
	editor.saveButton = widget.NewButton("Save workout", editor.handleSave)

	editor.sound = widget.NewCheck("Sound cues", nil)
	editor.notify = widget.NewCheck("Notify when complete", nil)
	editor.keepAwake = widget.NewCheck("Keep screen awake", nil)
	editor.sound.SetChecked(prefs.SoundEnabled)
	editor.notify.SetChecked(prefs.NotificationsEnabled)
	editor.keepAwake.SetChecked(prefs.KeepAwake)
	for _, check := range []*widget.Check{editor.sound, editor.notify, editor.keepAwake} {
		check.OnChanged = func(bool) { editor.handlePreferences() }
	}

	editor.intervalsForm = container.New(layout.NewFormLayout(),
		widget.NewLabel("Work"), editor.work.box,
		widget.NewLabel("Rest"), editor.rest.box,
	)
	editor.emomForm = container.New(layout.NewFormLayout(),
		widget.NewLabel("Interval"), editor.interval.box,
	)
	totalForm := container.New(layout.NewFormLayout(),
		widget.NewLabel("Total"), editor.total.box,
	)

	applyButton := widget.NewButton("Use this workout", editor.handleApply)
	applyButton.Importance = widget.HighImportance
	closeButton := widget.NewButton("Close", window.Hide)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Mode", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		editor.modeRadio,
		editor.intervalsForm,
		editor.emomForm,
		totalForm,
		editor.roundsLabel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Save", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, editor.saveButton, editor.nameEntry),
		widget.NewSeparator(),
		editor.sound,
		editor.notify,
		editor.keepAwake,
	)
	buttons := container.NewHBox(applyButton, layout.NewSpacer(), closeButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.Resize(fyne.NewSize(420, 560))
	window.SetCloseIntercept(window.Hide)

	editor.modeRadio.SetSelected(modeLabels[editor.config.Mode])
	editor.refresh()
	return editor
}

// Show displays the editor.
func (editor *Window) Show() {
	editor.window.Show()
	editor.window.RequestFocus()
}

// SetConfig replaces the edited values, for example after a saved workout loads.
func (editor *Window) SetConfig(config model.WorkoutConfig) {
	fyne.Do(func() {
		editor.config = config
		editor.work.setValue(config.WorkTime)
		editor.rest.setValue(config.RestTime)
		editor.interval.setValue(config.IntervalTime)
		editor.total.setValue(config.TotalTime)
		editor.modeRadio.SetSelected(modeLabels[config.Mode])
		editor.refresh()
	})
}

// Config returns the edited workout.
func (editor *Window) Config() model.WorkoutConfig {
	config := editor.config
	config.WorkTime = editor.work.Value()
	config.RestTime = editor.rest.Value()
	config.IntervalTime = editor.interval.Value()
	config.TotalTime = editor.total.Value()
	return config
}

func (editor *Window) refresh() {
	if editor.config.Mode == model.ModeEMOM {
		editor.intervalsForm.Hide()
		editor.emomForm.Show()
	} else {
		editor.emomForm.Hide()
		editor.intervalsForm.Show()
	}
	editor.roundsLabel.SetText(RoundsPreview(editor.Config()))
}

func (editor *Window) handleApply() {
	if editor.callbacks.OnApply != nil {
		editor.callbacks.OnApply(editor.Config())
	}
}

func (editor *Window) handleSave() {
	if editor.callbacks.OnSave == nil {
		return
	}
	editor.handleApply()
	if err := editor.callbacks.OnSave(editor.nameEntry.Text); err != nil {
		dialog.ShowError(err, editor.window)
		return
	}
	editor.nameEntry.SetText("")
}

func (editor *Window) handlePreferences() {
	editor.prefs.SoundEnabled = editor.sound.Checked
	editor.prefs.NotificationsEnabled = editor.notify.Checked
	editor.prefs.KeepAwake = editor.keepAwake.Checked
	if editor.callbacks.OnPreferences != nil {
		editor.callbacks.OnPreferences(editor.prefs)
	}
}

// RoundsPreview describes how many rounds config yields.
func RoundsPreview(config model.WorkoutConfig) string {
	rounds := timer.CalculateRounds(config)
	noun := "rounds"
	if rounds == 1 {
		noun = "round"
	}
	return fmt.Sprintf("%d %s in %s", rounds, noun, model.FormatDuration(config.TotalTime))
}

func formatMinutes(seconds int) string {
	return fmt.Sprintf("%d min", seconds/60)
}

package timerview

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"intervaltimer/internal/core/model"
	"intervaltimer/internal/core/timer"
	"intervaltimer/internal/ui/animation"
)

// Callbacks defines timer window action handlers.
type Callbacks struct {
	OnToggle      func()
	OnReset       func()
	OnSoundToggle func(enabled bool)
	OnEditor      func()
	OnSaved       func()
}

// Window shows the running workout.
type Window struct {
	window         fyne.Window
	callbacks      Callbacks
	background     *canvas.Rectangle
	phaseLabel     *canvas.Text
	clockLabel     *canvas.Text
	statusLabel    *canvas.Text
	remainingLabel *widget.Label
	summaryLabel   *widget.Label
	phaseBar       *widget.ProgressBar
	totalBar       *widget.ProgressBar
	toggleButton   *widget.Button
	resetButton    *widget.Button
	soundButton    *widget.Button
	pulse          *animation.Pulse
	soundEnabled   bool
}

var (
	backgroundColor = color.NRGBA{R: 17, G: 24, B: 39, A: 255}
	flashColor      = color.NRGBA{R: 75, G: 85, B: 99, A: 255}
	mutedTextColor  = color.NRGBA{R: 209, G: 213, B: 219, A: 255}
)

// PhaseColor returns the accent color for a phase.
func PhaseColor(phase model.Phase) color.NRGBA {
	switch phase {
	case model.PhaseWork:
		return color.NRGBA{R: 34, G: 197, B: 94, A: 255}
	case model.PhaseRest:
		return color.NRGBA{R: 249, G: 115, B: 22, A: 255}
	case model.PhaseEMOM:
		return color.NRGBA{R: 59, G: 130, B: 246, A: 255}
	default:
		return color.NRGBA{R: 107, G: 114, B: 128, A: 255}
	}
}

// New creates the timer window. It starts hidden.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("Interval Timer")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	background := canvas.NewRectangle(backgroundColor)

	phaseLabel := canvas.NewText("WORK", PhaseColor(model.PhaseWork))
	phaseLabel.Alignment = fyne.TextAlignCenter
	phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	phaseLabel.TextSize = 28

	clockLabel := canvas.NewText("00:00", color.White)
	clockLabel.Alignment = fyne.TextAlignCenter
	clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockLabel.TextSize = 96

	statusLabel := canvas.NewText("Ready to Start", mutedTextColor)
	statusLabel.Alignment = fyne.TextAlignCenter
	statusLabel.TextSize = 18

	remainingLabel := widget.NewLabel("")
	remainingLabel.Alignment = fyne.TextAlignCenter

	summaryLabel := widget.NewLabel("")
	summaryLabel.Alignment = fyne.TextAlignCenter
	summaryLabel.Wrapping = fyne.TextWrapWord

	phaseBar := widget.NewProgressBar()
	phaseBar.Max = 100
	phaseBar.TextFormatter = func() string { return "" }
	totalBar := widget.NewProgressBar()
	totalBar.Max = 100

	view := &Window{
		window:         window,
		callbacks:      callbacks,
		background:     background,
		phaseLabel:     phaseLabel,
		clockLabel:     clockLabel,
		statusLabel:    statusLabel,
		remainingLabel: remainingLabel,
		summaryLabel:   summaryLabel,
		phaseBar:       phaseBar,
		totalBar:       totalBar,
		soundEnabled:   true,
	}

	view.toggleButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() {
		if view.callbacks.OnToggle != nil {
			view.callbacks.OnToggle()
		}
	})
	view.toggleButton.Importance = widget.HighImportance
	view.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), func() {
		if view.callbacks.OnReset != nil {
			view.callbacks.OnReset()
		}
	})
	view.soundButton = widget.NewButtonWithIcon("", theme.VolumeUpIcon(), func() {
		view.setSoundEnabledUnsafe(!view.soundEnabled)
		if view.callbacks.OnSoundToggle != nil {
			view.callbacks.OnSoundToggle(view.soundEnabled)
		}
	})
	editorButton := widget.NewButtonWithIcon("Edit", theme.SettingsIcon(), func() {
		if view.callbacks.OnEditor != nil {
			view.callbacks.OnEditor()
		}
	})
	savedButton := widget.NewButtonWithIcon("Saved", theme.ListIcon(), func() {
		if view.callbacks.OnSaved != nil {
			view.callbacks.OnSaved()
		}
	})

	view.pulse = animation.New(func(on bool) {
		fyne.Do(func() {
			view.setFlashUnsafe(on)
		})
	})

	display := container.New(&clockLayout{}, phaseLabel, clockLabel, statusLabel)
	progress := container.NewVBox(phaseBar, totalBar, remainingLabel)
	controls := container.NewHBox(view.toggleButton, view.resetButton, view.soundButton)
	navigation := container.NewHBox(editorButton, savedButton)
	bottom := container.NewVBox(progress, container.NewCenter(controls), container.NewCenter(navigation), summaryLabel)

	content := container.NewBorder(nil, container.NewPadded(bottom), nil, nil, display)
	window.SetContent(container.NewStack(background, content))
	window.Resize(fyne.NewSize(480, 560))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return view
}

// SetOnClose replaces the default close behaviour, which hides the window.
func (view *Window) SetOnClose(handler func()) {
	view.window.SetCloseIntercept(handler)
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Hide hides the window and stops any flash in progress.
func (view *Window) Hide() {
	view.pulse.Stop()
	view.window.Hide()
}

// Render updates every widget from snapshot. Safe to call from any goroutine.
func (view *Window) Render(snapshot timer.Snapshot) {
	fyne.Do(func() {
		view.renderUnsafe(snapshot)
	})
}

// SetSoundEnabled updates the audio toggle button.
func (view *Window) SetSoundEnabled(enabled bool) {
	fyne.Do(func() {
		view.setSoundEnabledUnsafe(enabled)
	})
}

// Vibrate renders a haptic pattern as background flashes.
func (view *Window) Vibrate(pattern []time.Duration) {
	view.pulse.Play(pattern)
}

func (view *Window) renderUnsafe(snapshot timer.Snapshot) {
	accent := PhaseColor(snapshot.Phase)
	if snapshot.Status == model.StatusCompleted {
		accent = PhaseColor("")
	}

	view.phaseLabel.Text = model.PhaseLabel(snapshot.Phase)
	if snapshot.Status == model.StatusCompleted {
		view.phaseLabel.Text = "DONE"
	}
	view.phaseLabel.Color = accent
	view.phaseLabel.Refresh()

	view.clockLabel.Text = snapshot.Clock()
	view.clockLabel.Refresh()

	view.statusLabel.Text = snapshot.StatusMessage()
	view.statusLabel.Refresh()

	view.phaseBar.SetValue(snapshot.PhaseProgress)
	view.totalBar.SetValue(snapshot.TotalProgress)
	view.remainingLabel.SetText(RemainingText(snapshot))
	view.summaryLabel.SetText(SummaryText(snapshot.Config, snapshot.TotalRounds))

	switch snapshot.Status {
	case model.StatusRunning:
		view.toggleButton.SetText("Pause")
		view.toggleButton.SetIcon(theme.MediaPauseIcon())
		view.toggleButton.Enable()
	case model.StatusCompleted:
		view.toggleButton.SetText("Start")
		view.toggleButton.SetIcon(theme.MediaPlayIcon())
		view.toggleButton.Disable()
	default:
		view.toggleButton.SetText("Start")
		view.toggleButton.SetIcon(theme.MediaPlayIcon())
		view.toggleButton.Enable()
	}
}

func (view *Window) setSoundEnabledUnsafe(enabled bool) {
	view.soundEnabled = enabled
	if enabled {
		view.soundButton.SetIcon(theme.VolumeUpIcon())
		return
	}
	view.soundButton.SetIcon(theme.VolumeMuteIcon())
}

func (view *Window) setFlashUnsafe(on bool) {
	if on {
		view.background.FillColor = flashColor
	} else {
		view.background.FillColor = backgroundColor
	}
	canvas.Refresh(view.background)
}

// RemainingText renders the line under the progress bars.
func RemainingText(snapshot timer.Snapshot) string {
	return fmt.Sprintf("%s remaining • %.0f%% complete",
		model.FormatClock(snapshot.TotalTimeRemaining), snapshot.TotalProgress)
}

// SummaryText describes the loaded workout, e.g. "Work: 00:30 • Rest: 00:10 • 7 rounds".
func SummaryText(config model.WorkoutConfig, rounds int) string {
	var text string
	if config.Mode == model.ModeEMOM {
		text = fmt.Sprintf("EMOM: %s intervals • %d rounds", model.FormatClock(config.IntervalTime), rounds)
	} else {
		text = fmt.Sprintf("Work: %s • Rest: %s • %d rounds",
			model.FormatClock(config.WorkTime), model.FormatClock(config.RestTime), rounds)
	}
	if config.Name != "" {
		text = config.Name + ": " + text
	}
	return text
}

// clockLayout stacks the phase banner, clock and status vertically and scales
// the clock text with the available width.
type clockLayout struct{}

func (layout *clockLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 3 {
		return
	}
	phase := objects[0]
	clock := objects[1]
	status := objects[2]

	if text, ok := clock.(*canvas.Text); ok {
		textSize := size.Width / 4
		if textSize > 160 {
			textSize = 160
		}
		if textSize < 32 {
			textSize = 32
		}
		if text.TextSize != textSize {
			text.TextSize = textSize
			text.Refresh()
		}
	}

	phaseSize := phase.MinSize()
	clockSize := clock.MinSize()
	statusSize := status.MinSize()
	gap := float32(12)

	blockHeight := phaseSize.Height + clockSize.Height + statusSize.Height + gap*2
	y := (size.Height - blockHeight) / 2
	if y < 0 {
		y = 0
	}

	phase.Move(fyne.NewPos(0, y))
	phase.Resize(fyne.NewSize(size.Width, phaseSize.Height))
	y += phaseSize.Height + gap

	clock.Move(fyne.NewPos(0, y))
	clock.Resize(fyne.NewSize(size.Width, clockSize.Height))
	y += clockSize.Height + gap

	status.Move(fyne.NewPos(0, y))
	status.Resize(fyne.NewSize(size.Width, statusSize.Height))
}

func (layout *clockLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 3 {
		return fyne.NewSize(0, 0)
	}
	width := float32(0)
	height := float32(24)
	for _, object := range objects[:3] {
		size := object.MinSize()
		if text, ok := object.(*canvas.Text); ok && text == objects[1] {
			size = fyne.MeasureText(text.Text, 32, text.TextStyle)
		}
		if size.Width > width {
			width = size.Width
		}
		height += size.Height
	}
	return fyne.NewSize(width, height)
}

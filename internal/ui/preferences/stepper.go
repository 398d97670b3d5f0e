package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"intervaltimer/internal/core/model"
)

// stepper edits a bounded number of seconds with minus and plus buttons.
type stepper struct {
	limit    model.Limit
	value    int
	format   func(int) string
	onChange func(int)

	label *widget.Label
	minus *widget.Button
	plus  *widget.Button
	box   *fyne.Container
}

func newStepper(limit model.Limit, value int, format func(int) string) *stepper {
	item := &stepper{limit: limit, format: format}
	item.label = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true, Monospace: true})
	item.minus = widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() {
		item.SetValue(item.value - item.limit.Step)
	})
	item.plus = widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
		item.SetValue(item.value + item.limit.Step)
	})
	item.box = container.NewBorder(nil, nil, item.minus, item.plus, item.label)
	item.setValue(value)
	return item
}

// SetValue clamps value into the limit and notifies onChange when it changed.
func (item *stepper) SetValue(value int) {
	previous := item.value
	item.setValue(value)
	if item.value != previous && item.onChange != nil {
		item.onChange(item.value)
	}
}

func (item *stepper) Value() int {
	return item.value
}

func (item *stepper) setValue(value int) {
	item.value = item.limit.Clamp(value)
	item.label.SetText(item.format(item.value))
	if item.value <= item.limit.Min {
		item.minus.Disable()
	} else {
		item.minus.Enable()
	}
	if item.value >= item.limit.Max {
		item.plus.Disable()
	} else {
		item.plus.Enable()
	}
}

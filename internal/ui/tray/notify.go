package tray

import "fyne.io/fyne/v2"

// Notifier raises desktop notifications through the fyne app.
type Notifier struct {
	App fyne.App
}

func (notifier Notifier) Notify(title, body string) {
	fyne.Do(func() {
		notifier.App.SendNotification(fyne.NewNotification(title, body))
	})
}

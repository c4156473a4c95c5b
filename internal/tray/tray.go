package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

// Callbacks for tray menu actions
type Callbacks struct {
	OnShow    func()
	OnStopAll func()
	OnQuit    func()
}

// Setup installs the tray menu when running as a desktop app. It reports
// whether a tray is available.
func Setup(app fyne.App, callbacks Callbacks) bool {
	desk, ok := app.(desktop.App)
	if !ok {
		return false
	}
	desk.SetSystemTrayMenu(Menu(callbacks))
	desk.SetSystemTrayIcon(theme.MediaPlayIcon())
	return true
}

// Menu builds the tray menu. Fyne adds its own Quit item, so quitting here
// goes through OnQuit instead to let the board shut down cleanly.
func Menu(callbacks Callbacks) *fyne.Menu {
	showItem := fyne.NewMenuItem("Show Pad", callbacks.OnShow)
	stopItem := fyne.NewMenuItem("Stop All Sounds", callbacks.OnStopAll)
	quitItem := fyne.NewMenuItem("Quit Soundpad", callbacks.OnQuit)
	quitItem.IsQuit = true

	return fyne.NewMenu("Soundpad",
		showItem,
		fyne.NewMenuItemSeparator(),
		stopItem,
		fyne.NewMenuItemSeparator(),
		quitItem,
	)
}

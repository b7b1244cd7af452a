package main

import (
	_ "embed"

	"github.com/getlantern/systray"
)

//go:embed assets/icon-template.png
var iconBytes []byte

// StartSystray launches the system-tray icon in a background goroutine.
// Menu clicks go through TriggerByID, the same dispatch path as keyboard
// triggers, so handlers behave identically regardless of source.
func StartSystray(app *App) {
	go systray.Run(
		func() { onSystrayReady(app) },
		func() { /* onExit: nothing to clean up */ },
	)
}

func onSystrayReady(app *App) {
	systray.SetTemplateIcon(iconBytes, iconBytes)
	systray.SetTooltip("push-to-talk")

	mListen := systray.AddMenuItemCheckbox("Keyboard Shortcuts Active", "Toggle the global shortcut listener", app.Manager().ListenerRunning())
	mCopy := systray.AddMenuItem("Copy Last Transcript", "Copy the most recent transcript")
	mShortcuts := systray.AddMenuItem("Show Shortcuts", "Open the shortcut editor")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit push-to-talk", "Exit the application")

	go func() {
		for {
			select {
			case <-mListen.ClickedCh:
				if app.Manager().ListenerRunning() {
					app.Manager().StopKeyboardListener()
					mListen.Uncheck()
				} else if err := app.Manager().StartKeyboardListener(); err == nil {
					mListen.Check()
				}
			case <-mCopy.ClickedCh:
				app.Manager().TriggerByID("copy_last")
			case <-mShortcuts.ClickedCh:
				app.Manager().TriggerByID("show_shortcuts")
			case <-mQuit.ClickedCh:
				systray.Quit()
				app.Manager().TriggerByID("exit_app")
				return
			}
		}
	}()
}

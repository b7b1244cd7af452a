package main

import (
	"log"
	"sync"
	"time"
)

// App is the composition root: it owns the settings, the shortcut registry
// and the manager, and drives the listener lifecycle. main.go injects the
// real OS backends; tests inject mocks.
type App struct {
	config    *ConfigService
	settings  Settings
	shortcuts *ShortcutService
	manager   *ShortcutManager
	actions   *ActionSet

	quitOnce sync.Once
	quitCh   chan struct{}
}

// NewApp assembles the application around the given backends. recorder may
// be nil (a logging stub is used); transcript supplies the text behind the
// copy_last shortcut.
func NewApp(config *ConfigService, source keyEventSource, recorder Recorder, transcript func() string) *App {
	a := &App{
		config: config,
		quitCh: make(chan struct{}),
	}
	a.settings = config.Load()
	a.shortcuts = NewShortcutService(a.settings.ShortcutsPath)
	a.manager = NewShortcutManager(a.shortcuts, source, time.Duration(a.settings.DebounceMS)*time.Millisecond)
	a.actions = NewActionSet(recorder, transcript, a.Quit)
	return a
}

// Startup loads the shortcut set, registers the default action handlers and
// starts the keyboard listener unless settings disable it.
func (a *App) Startup() error {
	a.shortcuts.Load()
	a.actions.RegisterDefaults(a.manager)

	if conflicts := a.shortcuts.DetectAllConflicts(); len(conflicts) > 0 {
		for hotkey, ids := range conflicts {
			log.Printf("app: shortcut conflict on %q: %v", hotkey, ids)
		}
	}

	if a.settings.StartListener() {
		if err := a.manager.StartKeyboardListener(); err != nil {
			log.Printf("app: keyboard listener failed to start: %v", err)
			return err
		}
	}
	return nil
}

// Shutdown stops the listener and persists the shortcut set.
func (a *App) Shutdown() {
	a.manager.StopKeyboardListener()
	if err := a.shortcuts.Save(); err != nil {
		log.Printf("app: shortcut save failed on shutdown: %v", err)
	}
}

// Quit requests application exit. Safe to call more than once and from any
// goroutine; exit_app handlers, menu clicks and signals all land here.
func (a *App) Quit() {
	a.quitOnce.Do(func() { close(a.quitCh) })
}

// Done is closed once Quit has been requested.
func (a *App) Done() <-chan struct{} {
	return a.quitCh
}

// Manager exposes the shortcut manager facade.
func (a *App) Manager() *ShortcutManager {
	return a.manager
}

package main

import (
	"time"
)

// ShortcutManager is the composition point between the shortcut registry,
// the dispatch table and the keyboard listener. It is constructed
// explicitly and passed around; there is no package-level instance. UI
// code and business logic register handlers here, keyed by shortcut id, and
// never talk to the listener directly.
type ShortcutManager struct {
	shortcuts *ShortcutService
	dispatch  *DispatchService
	keyboard  *KeyboardService
}

// NewShortcutManager wires a manager over the given registry and OS event
// source. debounce <= 0 selects the default window.
func NewShortcutManager(shortcuts *ShortcutService, source keyEventSource, debounce time.Duration) *ShortcutManager {
	m := &ShortcutManager{
		shortcuts: shortcuts,
		dispatch:  NewDispatchService(),
	}
	m.keyboard = NewKeyboardService(source, shortcuts.EnabledBindings, m.dispatch.Trigger, debounce)
	return m
}

// Shortcuts exposes the underlying registry for configuration UIs.
func (m *ShortcutManager) Shortcuts() *ShortcutService {
	return m.shortcuts
}

// RegisterActionHandler attaches a handler to a shortcut id. Registrations
// survive registry reloads because they are keyed by id, not hotkey text.
func (m *ShortcutManager) RegisterActionHandler(id string, handler func()) {
	m.dispatch.RegisterActionHandler(id, handler)
}

// Trigger fires all handlers for id on the calling goroutine.
func (m *ShortcutManager) Trigger(id string) {
	m.dispatch.Trigger(id)
}

// TriggerByID fires id from a non-keyboard source (menu click, test) and
// reports whether any handler was registered.
func (m *ShortcutManager) TriggerByID(id string) bool {
	return m.dispatch.TriggerByID(id)
}

// ReloadShortcuts re-reads the registry from disk. The listener picks up
// the fresh hotkey index on the next keystroke; handler registrations are
// untouched.
func (m *ShortcutManager) ReloadShortcuts() {
	m.shortcuts.Load()
}

// StartKeyboardListener starts consuming OS key events. Idempotent.
func (m *ShortcutManager) StartKeyboardListener() error {
	return m.keyboard.Start()
}

// StopKeyboardListener stops the listener and waits for the in-flight
// event to finish dispatching. Idempotent, safe from any thread.
func (m *ShortcutManager) StopKeyboardListener() {
	m.keyboard.Stop()
}

// ListenerRunning reports whether the keyboard listener is active.
func (m *ShortcutManager) ListenerRunning() bool {
	return m.keyboard.IsRunning()
}

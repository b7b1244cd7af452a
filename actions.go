package main

import (
	"log"

	"github.com/atotto/clipboard"
)

// Recorder is the boundary to the dictation pipeline (audio capture + ASR).
// The real implementation lives outside this subsystem; a logging stub
// ships so the default shortcuts are wired end to end.
type Recorder interface {
	Toggle()
}

type loggingRecorder struct{}

func (loggingRecorder) Toggle() {
	log.Printf("recorder: toggle requested (no recorder attached)")
}

// clipboardWriter abstracts the system clipboard so tests can capture
// writes without touching the real one.
type clipboardWriter interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// ActionSet binds the default shortcut ids to behavior. Construction wires
// real backends; tests swap them via newActionSetWithBackends.
type ActionSet struct {
	recorder   Recorder
	clipboard  clipboardWriter
	transcript func() string // latest transcript, "" when none
	quit       func()
}

// NewActionSet returns a production ActionSet. transcript and quit are
// supplied by the composition root.
func NewActionSet(recorder Recorder, transcript func() string, quit func()) *ActionSet {
	if recorder == nil {
		recorder = loggingRecorder{}
	}
	return &ActionSet{
		recorder:   recorder,
		clipboard:  systemClipboard{},
		transcript: transcript,
		quit:       quit,
	}
}

// newActionSetWithBackends wires custom backends (tests only).
func newActionSetWithBackends(recorder Recorder, cb clipboardWriter, transcript func() string, quit func()) *ActionSet {
	return &ActionSet{recorder: recorder, clipboard: cb, transcript: transcript, quit: quit}
}

// RegisterDefaults attaches a handler for every bootstrap shortcut id, so a
// fresh install has working behavior behind each default hotkey. Window-
// opening ids get placeholder handlers until a UI attaches its own.
func (a *ActionSet) RegisterDefaults(m *ShortcutManager) {
	m.RegisterActionHandler("record_toggle", a.recorder.Toggle)
	m.RegisterActionHandler("copy_last", a.copyLastTranscript)
	m.RegisterActionHandler("exit_app", a.exitApp)
	for _, id := range []string{"show_history", "show_settings", "show_shortcuts", "show_dictionary", "show_snippets"} {
		id := id
		m.RegisterActionHandler(id, func() {
			log.Printf("actions: %s requested (no window attached)", id)
		})
	}
}

// copyLastTranscript puts the most recent transcript on the clipboard.
func (a *ActionSet) copyLastTranscript() {
	text := ""
	if a.transcript != nil {
		text = a.transcript()
	}
	if text == "" {
		log.Printf("actions: copy_last — no transcript yet")
		return
	}
	if err := a.clipboard.WriteAll(text); err != nil {
		log.Printf("actions: clipboard write failed: %v", err)
		return
	}
	log.Printf("actions: copied %d chars to clipboard", len(text))
}

func (a *ActionSet) exitApp() {
	if a.quit != nil {
		a.quit()
	}
}

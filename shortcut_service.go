package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Shortcut is one configurable keyboard shortcut. ID is stable across
// sessions and is the handle everything else (handlers, debounce, UI) keys
// on. Group is derived from the enclosing JSON map key and not serialized
// on the object itself.
type Shortcut struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Hotkey      string `json:"hotkey"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	Group       string `json:"-"`

	spec HotkeySpec // cached parse of Hotkey
}

// KeyBinding is the listener-facing view of an enabled shortcut.
type KeyBinding struct {
	ID   string
	Spec HotkeySpec
}

// ConflictError reports that a hotkey is already claimed by another enabled
// shortcut. It is returned as a value, never panicked, so the caller can
// offer one-click resolution (override, disable the other, abort).
type ConflictError struct {
	Hotkey          string
	ConflictingID   string
	ConflictingName string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("hotkey %q is already used by %q (%s)", e.Hotkey, e.ConflictingName, e.ConflictingID)
}

// exportEnvelope wraps the shortcut map for export/import files.
type exportEnvelope struct {
	Version    int                    `json:"version"`
	ExportedAt string                 `json:"exported_at"`
	Shortcuts  map[string][]*Shortcut `json:"shortcuts"`
}

const exportVersion = 1

// ShortcutService owns the shortcut records and their persistence. All
// public methods take the service mutex for their full critical section;
// the service is shared between the UI thread and the keyboard listener.
//
// The hotkey→id index covers enabled shortcuts with a non-empty hotkey and
// is the single source of truth for conflict checks and event matching. A
// hand-edited config file can contain duplicate hotkeys; Load tolerates
// that (first claim wins in the index) and DetectAllConflicts surfaces it.
type ShortcutService struct {
	mu    sync.Mutex
	path  string
	order []string             // ids in insertion order
	byID  map[string]*Shortcut //
	index map[string]string    // normalized hotkey → id
}

// NewShortcutService creates a ShortcutService persisting to path.
func NewShortcutService(path string) *ShortcutService {
	return &ShortcutService{
		path:  path,
		byID:  make(map[string]*Shortcut),
		index: make(map[string]string),
	}
}

// defaultShortcuts returns the built-in bootstrap set. The ids and hotkey
// strings are load-bearing: existing user configs reference them.
func defaultShortcuts() map[string][]*Shortcut {
	return map[string][]*Shortcut{
		"recording": {
			{ID: "record_toggle", Name: "Toggle Recording", Hotkey: "pause", Description: "Start or stop dictation", Enabled: true},
		},
		"history": {
			{ID: "copy_last", Name: "Copy Last Transcript", Hotkey: "ctrl+shift+c", Description: "Copy the most recent transcript to the clipboard", Enabled: true},
			{ID: "show_history", Name: "Show History", Hotkey: "ctrl+h", Description: "Open the transcript history", Enabled: true},
		},
		"application": {
			{ID: "show_settings", Name: "Show Settings", Hotkey: "ctrl+,", Description: "Open the settings window", Enabled: true},
			{ID: "show_shortcuts", Name: "Show Shortcuts", Hotkey: "ctrl+k", Description: "Open the shortcut editor", Enabled: true},
			{ID: "exit_app", Name: "Exit", Hotkey: "ctrl+q", Description: "Quit the application", Enabled: true},
		},
		"text_processing": {
			{ID: "show_dictionary", Name: "Show Dictionary", Hotkey: "ctrl+d", Description: "Open the personal dictionary", Enabled: true},
			{ID: "show_snippets", Name: "Show Snippets", Hotkey: "ctrl+shift+s", Description: "Open the snippet editor", Enabled: true},
		},
	}
}

// Load reads the persisted shortcut groups. A missing or corrupt file falls
// back to the built-in defaults; Load never fails the caller.
func (s *ShortcutService) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := defaultShortcuts()
	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		// first run, use defaults
	case err != nil:
		log.Printf("shortcuts: read error: %v — using defaults", err)
	default:
		var loaded map[string][]*Shortcut
		if jsonErr := json.Unmarshal(data, &loaded); jsonErr != nil {
			log.Printf("shortcuts: parse error: %v — using defaults", jsonErr)
		} else {
			groups = loaded
		}
	}
	s.install(groups)
}

// install replaces the in-memory state with groups. Caller holds s.mu.
// Group names are iterated in sorted order so the registry's insertion
// order (and therefore trigger order, §ordering) is deterministic.
func (s *ShortcutService) install(groups map[string][]*Shortcut) {
	s.order = s.order[:0]
	s.byID = make(map[string]*Shortcut)
	s.index = make(map[string]string)

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, group := range names {
		for _, sc := range groups[group] {
			if sc.ID == "" {
				log.Printf("shortcuts: dropping entry with empty id in group %q", group)
				continue
			}
			if _, dup := s.byID[sc.ID]; dup {
				log.Printf("shortcuts: dropping duplicate id %q in group %q", sc.ID, group)
				continue
			}
			sc.Group = group
			s.reparse(sc)
			s.byID[sc.ID] = sc
			s.order = append(s.order, sc.ID)
			s.claimIndex(sc)
		}
	}
}

// reparse refreshes the cached spec and normalizes the stored hotkey text.
// Parse warnings are logged; a malformed hotkey degrades rather than fails.
func (s *ShortcutService) reparse(sc *Shortcut) {
	spec, warnings := ParseHotkey(sc.Hotkey)
	for _, w := range warnings {
		log.Printf("shortcuts: %s: %s", sc.ID, w)
	}
	sc.spec = spec
	sc.Hotkey = spec.String()
}

// claimIndex adds sc to the hotkey index if eligible. First claim wins so
// latent duplicates from hand-edited files stay visible to the audit.
// Caller holds s.mu.
func (s *ShortcutService) claimIndex(sc *Shortcut) {
	if !sc.Enabled || sc.Hotkey == "" {
		return
	}
	if owner, taken := s.index[sc.Hotkey]; taken {
		log.Printf("shortcuts: latent conflict on %q between %q and %q", sc.Hotkey, owner, sc.ID)
		return
	}
	s.index[sc.Hotkey] = sc.ID
}

// releaseIndex drops sc's index entry if it owns one. Caller holds s.mu.
func (s *ShortcutService) releaseIndex(sc *Shortcut) {
	if sc.Hotkey != "" && s.index[sc.Hotkey] == sc.ID {
		delete(s.index, sc.Hotkey)
	}
}

// Save serializes the current state atomically. Errors are logged and
// returned; the in-memory state stays authoritative either way.
func (s *ShortcutService) Save() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.groupedLocked(), "", "  ")
	path := s.path
	s.mu.Unlock()
	if err != nil {
		log.Printf("shortcuts: marshal error: %v", err)
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		log.Printf("shortcuts: save error: %v", err)
		return err
	}
	return nil
}

// groupedLocked rebuilds the persisted group→shortcuts mapping. Caller
// holds s.mu.
func (s *ShortcutService) groupedLocked() map[string][]*Shortcut {
	groups := make(map[string][]*Shortcut)
	for _, id := range s.order {
		sc := s.byID[id]
		groups[sc.Group] = append(groups[sc.Group], sc)
	}
	return groups
}

// writeFileAtomic writes data to path via a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Get returns a copy of the shortcut with the given id, or nil.
func (s *ShortcutService) Get(id string) *Shortcut {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.byID[id]
	if !ok {
		return nil
	}
	out := *sc
	return &out
}

// GetByHotkey returns the enabled shortcut owning the given hotkey text
// (normalized before lookup), or nil.
func (s *ShortcutService) GetByHotkey(hotkeyText string) *Shortcut {
	norm := NormalizeHotkey(hotkeyText)
	if norm == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.index[norm]
	if !ok {
		return nil
	}
	out := *s.byID[id]
	return &out
}

// GetAll returns copies of all shortcuts in insertion order.
func (s *ShortcutService) GetAll() []*Shortcut {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Shortcut, 0, len(s.order))
	for _, id := range s.order {
		sc := *s.byID[id]
		out = append(out, &sc)
	}
	return out
}

// GetGroup returns copies of the shortcuts in the named group, in insertion
// order.
func (s *ShortcutService) GetGroup(name string) []*Shortcut {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Shortcut
	for _, id := range s.order {
		if sc := s.byID[id]; sc.Group == name {
			cp := *sc
			out = append(out, &cp)
		}
	}
	return out
}

// Groups returns the group names present, sorted.
func (s *ShortcutService) Groups() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var names []string
	for _, id := range s.order {
		g := s.byID[id].Group
		if !seen[g] {
			seen[g] = true
			names = append(names, g)
		}
	}
	sort.Strings(names)
	return names
}

// EnabledBindings returns the (id, parsed spec) pairs of all enabled
// shortcuts with a non-empty hotkey, in insertion order. The keyboard
// listener calls this on every candidate key-down.
func (s *ShortcutService) EnabledBindings() []KeyBinding {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]KeyBinding, 0, len(s.order))
	for _, id := range s.order {
		sc := s.byID[id]
		if sc.Enabled && sc.spec.Key != "" {
			out = append(out, KeyBinding{ID: sc.ID, Spec: sc.spec})
		}
	}
	return out
}

// SetHotkey assigns a new hotkey to the shortcut with the given id. The
// text is normalized first. If another enabled shortcut already claims the
// normalized hotkey a *ConflictError naming it is returned and nothing
// changes; the caller decides whether to override, disable the other
// shortcut, or abort. An empty hotkey unassigns.
func (s *ShortcutService) SetHotkey(id, hotkeyText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("shortcuts: unknown id %q", id)
	}
	spec, warnings := ParseHotkey(hotkeyText)
	for _, w := range warnings {
		log.Printf("shortcuts: %s: %s", id, w)
	}
	norm := spec.String()

	if norm != "" {
		if otherID, taken := s.index[norm]; taken && otherID != id {
			other := s.byID[otherID]
			return &ConflictError{Hotkey: norm, ConflictingID: other.ID, ConflictingName: other.Name}
		}
	}

	// Drop the old mapping first so the shortcut can't conflict with itself.
	s.releaseIndex(sc)
	sc.Hotkey = norm
	sc.spec = spec
	s.claimIndex(sc)
	return nil
}

// SetEnabled toggles a shortcut without touching its hotkey text. The index
// entry follows the enabled state.
func (s *ShortcutService) SetEnabled(id string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.byID[id]
	if !ok || sc.Enabled == enabled {
		return
	}
	if enabled {
		sc.Enabled = true
		s.claimIndex(sc)
	} else {
		s.releaseIndex(sc)
		sc.Enabled = false
	}
}

// AddShortcut registers a new shortcut under the given group. It fails if
// the id already exists or if the (enabled) shortcut's hotkey conflicts
// with another enabled shortcut.
func (s *ShortcutService) AddShortcut(group string, sc Shortcut) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sc.ID == "" {
		return fmt.Errorf("shortcuts: empty id")
	}
	if _, dup := s.byID[sc.ID]; dup {
		return fmt.Errorf("shortcuts: id %q already exists", sc.ID)
	}
	sc.Group = group
	s.reparse(&sc)
	if sc.Enabled && sc.Hotkey != "" {
		if otherID, taken := s.index[sc.Hotkey]; taken {
			other := s.byID[otherID]
			return &ConflictError{Hotkey: sc.Hotkey, ConflictingID: other.ID, ConflictingName: other.Name}
		}
	}
	stored := sc
	s.byID[stored.ID] = &stored
	s.order = append(s.order, stored.ID)
	s.claimIndex(&stored)
	return nil
}

// RemoveShortcut deletes the shortcut with the given id. It reports whether
// anything was removed.
func (s *ShortcutService) RemoveShortcut(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.byID[id]
	if !ok {
		return false
	}
	s.releaseIndex(sc)
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// DetectAllConflicts scans every enabled shortcut with a non-empty hotkey
// and groups them by normalized hotkey. Any hotkey claimed by two or more
// shortcuts is returned. This is the O(n) audit for state that bypassed
// SetHotkey (hand-edited files, merged imports).
func (s *ShortcutService) DetectAllConflicts() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	claims := make(map[string][]string)
	for _, id := range s.order {
		sc := s.byID[id]
		if sc.Enabled && sc.Hotkey != "" {
			claims[sc.Hotkey] = append(claims[sc.Hotkey], sc.ID)
		}
	}
	conflicts := make(map[string][]string)
	for hotkey, ids := range claims {
		if len(ids) >= 2 {
			conflicts[hotkey] = ids
		}
	}
	return conflicts
}

// ExportConfig writes the current shortcut set to path wrapped in a
// versioned envelope.
func (s *ShortcutService) ExportConfig(path string) error {
	s.mu.Lock()
	env := exportEnvelope{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Shortcuts:  s.groupedLocked(),
	}
	data, err := json.MarshalIndent(env, "", "  ")
	s.mu.Unlock()
	if err != nil {
		log.Printf("shortcuts: export marshal error: %v", err)
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		log.Printf("shortcuts: export error: %v", err)
		return err
	}
	return nil
}

// ImportConfig reads a previously exported file. In replace mode the
// current state is discarded first. In merge mode incoming shortcuts are
// unioned with the existing set by id with first-write-wins: an incoming
// shortcut whose id already exists is skipped and its id is returned in the
// collision list so the caller can surface it. Hotkey duplicates introduced
// by a merge are allowed here and left to DetectAllConflicts.
func (s *ShortcutService) ImportConfig(path string, merge bool) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("shortcuts: import read error: %v", err)
		return nil, err
	}
	var env exportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("shortcuts: import parse error: %v", err)
		return nil, err
	}
	if env.Shortcuts == nil {
		return nil, fmt.Errorf("shortcuts: import file has no shortcuts section")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !merge {
		s.install(env.Shortcuts)
		return nil, nil
	}

	var collisions []string
	names := make([]string, 0, len(env.Shortcuts))
	for name := range env.Shortcuts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, group := range names {
		for _, sc := range env.Shortcuts[group] {
			if sc.ID == "" {
				continue
			}
			if _, exists := s.byID[sc.ID]; exists {
				collisions = append(collisions, sc.ID)
				continue
			}
			sc.Group = group
			s.reparse(sc)
			s.byID[sc.ID] = sc
			s.order = append(s.order, sc.ID)
			s.claimIndex(sc)
		}
	}
	return collisions, nil
}

package main

import (
	"fmt"
	"strings"
	"unicode"
)

// Modifier is a bitmask of logical modifier keys. Left/right variants of a
// physical modifier collapse to one logical value.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModMeta
)

// canonicalMods fixes the serialization order: ctrl, alt, shift, meta.
var canonicalMods = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "ctrl"},
	{ModAlt, "alt"},
	{ModShift, "shift"},
	{ModMeta, "meta"},
}

// modifierNames maps every accepted spelling to its logical modifier.
var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"win":     ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"super":   ModMeta,
}

// namedKeys is the set of accepted non-printable key tokens. Aliases map to
// the canonical token used for serialization and event matching.
var namedKeys = map[string]string{
	"f1": "f1", "f2": "f2", "f3": "f3", "f4": "f4",
	"f5": "f5", "f6": "f6", "f7": "f7", "f8": "f8",
	"f9": "f9", "f10": "f10", "f11": "f11", "f12": "f12",
	"pause":     "pause",
	"insert":    "insert",
	"home":      "home",
	"end":       "end",
	"pageup":    "pageup",
	"pagedown":  "pagedown",
	"space":     "space",
	"enter":     "enter",
	"return":    "enter",
	"tab":       "tab",
	"backspace": "backspace",
	"delete":    "delete",
	"del":       "delete",
	"esc":       "esc",
	"escape":    "esc",
	"up":        "up",
	"down":      "down",
	"left":      "left",
	"right":     "right",
}

// HotkeySpec is the normalized structured form of a key combination.
// The zero value means "unassigned" and never matches any event.
type HotkeySpec struct {
	Mods Modifier
	Key  string
}

// IsZero reports whether the spec is unassigned.
func (s HotkeySpec) IsZero() bool {
	return s.Mods == 0 && s.Key == ""
}

// String renders the canonical textual form: modifiers in ctrl, alt, shift,
// meta order, then the main key, lowercase, '+'-joined.
func (s HotkeySpec) String() string {
	var parts []string
	for _, m := range canonicalMods {
		if s.Mods&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	if s.Key != "" {
		parts = append(parts, s.Key)
	}
	return strings.Join(parts, "+")
}

// MatchesEvent reports whether a key-down of key with the given held
// modifiers should fire this spec. A spec without modifiers matches under
// any modifier state. A spec with modifiers matches when at least one of
// them is held: an intersection test, kept for compatibility with existing
// user configs (ctrl+shift+x fires on ctrl+x).
func (s HotkeySpec) MatchesEvent(key string, active Modifier) bool {
	if s.Key == "" || key != s.Key {
		return false
	}
	if s.Mods == 0 {
		return true
	}
	return s.Mods&active != 0
}

// ParseHotkey converts a textual hotkey such as "ctrl+shift+f1" into a
// HotkeySpec. Input is case-insensitive; tokens are '+'-joined. Unknown
// tokens are dropped and reported in the returned warning list rather than
// failing the parse, so a malformed hotkey degrades to a partial spec
// instead of breaking configuration load. Empty input yields the zero spec.
func ParseHotkey(text string) (HotkeySpec, []string) {
	var spec HotkeySpec
	var warnings []string

	text = strings.TrimSpace(text)
	if text == "" {
		return spec, nil
	}

	for _, raw := range strings.Split(text, "+") {
		tok := strings.ToLower(strings.TrimSpace(raw))
		if tok == "" {
			continue
		}
		if mod, ok := modifierNames[tok]; ok {
			spec.Mods |= mod
			continue
		}
		key, ok := namedKeys[tok]
		if !ok {
			r := []rune(tok)
			if len(r) == 1 && unicode.IsPrint(r[0]) && !unicode.IsSpace(r[0]) {
				key = tok
				ok = true
			}
		}
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key token %q in %q", tok, text))
			continue
		}
		if spec.Key != "" {
			warnings = append(warnings, fmt.Sprintf("extra main key %q in %q (keeping %q)", key, text, spec.Key))
			continue
		}
		spec.Key = key
	}
	return spec, warnings
}

// NormalizeHotkey reduces a textual hotkey to its canonical form. Parse
// warnings are discarded here; callers that care use ParseHotkey directly.
func NormalizeHotkey(text string) string {
	spec, _ := ParseHotkey(text)
	return spec.String()
}

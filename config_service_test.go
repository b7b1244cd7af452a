package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigServiceDefaults(t *testing.T) {
	dir := t.TempDir()
	svc := newConfigServiceAt(filepath.Join(dir, "config.json"))

	s := svc.Load()
	if s.DebounceMS != 200 {
		t.Errorf("default debounce = %d, want 200", s.DebounceMS)
	}
	if s.ShortcutsPath == "" {
		t.Error("default shortcuts path is empty")
	}
	if !s.StartListener() {
		t.Error("listener should auto-start by default")
	}
}

func TestConfigServiceSaveLoad(t *testing.T) {
	dir := t.TempDir()
	svc := newConfigServiceAt(filepath.Join(dir, "config.json"))

	off := false
	want := Settings{
		DebounceMS:        350,
		ShortcutsPath:     filepath.Join(dir, "keys.json"),
		AutoStartListener: &off,
	}
	if err := svc.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := svc.Load()
	if got.DebounceMS != want.DebounceMS {
		t.Errorf("debounce = %d, want %d", got.DebounceMS, want.DebounceMS)
	}
	if got.ShortcutsPath != want.ShortcutsPath {
		t.Errorf("shortcuts path = %q, want %q", got.ShortcutsPath, want.ShortcutsPath)
	}
	if got.StartListener() {
		t.Error("auto-start should round-trip as false")
	}
}

func TestConfigServiceCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("{bad json"), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := newConfigServiceAt(path)
	s := svc.Load()

	// Defaults, and the corrupt file was replaced.
	if s.DebounceMS != 200 {
		t.Errorf("debounce after corrupt load = %d, want 200", s.DebounceMS)
	}
	again := svc.Load()
	if again.DebounceMS != 200 {
		t.Errorf("rewritten config did not load cleanly")
	}
}

func TestConfigServiceBackfillsZeroFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"debounce_ms": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newConfigServiceAt(path).Load()
	if s.DebounceMS != 200 {
		t.Errorf("zero debounce not backfilled: %d", s.DebounceMS)
	}
	if s.ShortcutsPath == "" {
		t.Error("missing shortcuts path not backfilled")
	}
}

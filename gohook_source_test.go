package main

import (
	"testing"

	hook "github.com/robotn/gohook"
)

func TestTranslateHookEventModifiers(t *testing.T) {
	cases := []struct {
		rawcode uint16
		want    Modifier
	}{
		{16, ModShift}, {160, ModShift}, {161, ModShift},
		{17, ModCtrl}, {162, ModCtrl}, {163, ModCtrl},
		{18, ModAlt}, {164, ModAlt}, {165, ModAlt},
		{91, ModMeta}, {92, ModMeta},
	}
	for _, c := range cases {
		ke, ok := translateHookEvent(hook.Event{Kind: hook.KeyDown, Rawcode: c.rawcode})
		if !ok || ke.Mod != c.want || !ke.Down {
			t.Errorf("rawcode %d: got (%+v, %v), want down modifier %b", c.rawcode, ke, ok, c.want)
		}
		ke, ok = translateHookEvent(hook.Event{Kind: hook.KeyUp, Rawcode: c.rawcode})
		if !ok || ke.Mod != c.want || ke.Down {
			t.Errorf("rawcode %d key-up: got (%+v, %v)", c.rawcode, ke, ok)
		}
	}
}

func TestTranslateHookEventNamedKeys(t *testing.T) {
	cases := map[uint16]string{
		19: "pause", 32: "space", 112: "f1", 123: "f12",
		33: "pageup", 46: "delete", 13: "enter",
	}
	for rawcode, want := range cases {
		ke, ok := translateHookEvent(hook.Event{Kind: hook.KeyDown, Rawcode: rawcode})
		if !ok || ke.Key != want {
			t.Errorf("rawcode %d: got (%+v, %v), want key %q", rawcode, ke, ok, want)
		}
	}
}

func TestTranslateHookEventPrintable(t *testing.T) {
	// Letter rawcodes lowercase regardless of the reported character.
	ke, ok := translateHookEvent(hook.Event{Kind: hook.KeyDown, Rawcode: 'Q', Keychar: 'Q'})
	if !ok || ke.Key != "q" {
		t.Errorf("rawcode 'Q': got (%+v, %v), want key %q", ke, ok, "q")
	}
	// Unknown rawcode falls back to the character.
	ke, ok = translateHookEvent(hook.Event{Kind: hook.KeyDown, Rawcode: 188, Keychar: ','})
	if !ok || ke.Key != "," {
		t.Errorf("comma: got (%+v, %v)", ke, ok)
	}
}

func TestTranslateHookEventDiscardsNonKeys(t *testing.T) {
	if _, ok := translateHookEvent(hook.Event{Kind: hook.MouseMove}); ok {
		t.Error("mouse event should be discarded")
	}
	if _, ok := translateHookEvent(hook.Event{Kind: hook.KeyDown, Rawcode: 255, Keychar: 65535}); ok {
		t.Error("unrepresentable key should be discarded")
	}
}

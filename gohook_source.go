package main

import (
	"log"
	"strings"
	"sync"
	"time"
	"unicode"

	hook "github.com/robotn/gohook"
)

// gohookSource adapts the robotn/gohook global hook to the keyEventSource
// interface. Raw hook events are translated to normalized KeyEvents and
// relayed through a buffered channel; events are dropped rather than
// blocking the hook when the consumer falls behind.
type gohookSource struct {
	mu       sync.Mutex
	running  bool
	out      chan KeyEvent
	pumpDone chan struct{}
}

func newGohookSource() *gohookSource {
	return &gohookSource{}
}

func (g *gohookSource) Start() (<-chan KeyEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return g.out, nil
	}
	raw := hook.Start()
	g.out = make(chan KeyEvent, 16)
	g.pumpDone = make(chan struct{})
	g.running = true

	go func(raw chan hook.Event, out chan KeyEvent, pumpDone chan struct{}) {
		defer close(pumpDone)
		defer close(out)
		for ev := range raw {
			ke, ok := translateHookEvent(ev)
			if !ok {
				continue
			}
			select {
			case out <- ke:
			default: // consumer behind; drop rather than stall the hook
			}
		}
	}(raw, g.out, g.pumpDone)

	log.Printf("keyhook: global hook started")
	return g.out, nil
}

func (g *gohookSource) Stop() {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	g.running = false
	pumpDone := g.pumpDone
	g.mu.Unlock()

	hook.End()
	select {
	case <-pumpDone:
	case <-time.After(2 * time.Second):
		log.Printf("keyhook: timeout waiting for hook to drain")
	}
	log.Printf("keyhook: global hook stopped")
}

// rawcodeModifiers collapses left/right physical modifiers to one logical
// value. Codes follow the virtual-key numbering gohook reports.
var rawcodeModifiers = map[uint16]Modifier{
	16: ModShift, 160: ModShift, 161: ModShift,
	17: ModCtrl, 162: ModCtrl, 163: ModCtrl,
	18: ModAlt, 164: ModAlt, 165: ModAlt,
	91: ModMeta, 92: ModMeta,
}

// rawcodeNames maps special keys to the parser's token vocabulary.
var rawcodeNames = map[uint16]string{
	8: "backspace", 9: "tab", 13: "enter", 19: "pause", 27: "esc",
	32: "space", 33: "pageup", 34: "pagedown", 35: "end", 36: "home",
	37: "left", 38: "up", 39: "right", 40: "down",
	45: "insert", 46: "delete",
	112: "f1", 113: "f2", 114: "f3", 115: "f4", 116: "f5", 117: "f6",
	118: "f7", 119: "f8", 120: "f9", 121: "f10", 122: "f11", 123: "f12",
}

// translateHookEvent converts a raw hook event into a KeyEvent. Events that
// are neither key transitions nor representable keys are discarded.
func translateHookEvent(ev hook.Event) (KeyEvent, bool) {
	var down bool
	switch ev.Kind {
	case hook.KeyDown, hook.KeyHold:
		down = true
	case hook.KeyUp:
		down = false
	default:
		return KeyEvent{}, false
	}

	if mod, ok := rawcodeModifiers[ev.Rawcode]; ok {
		return KeyEvent{Down: down, Mod: mod}, true
	}
	if name, ok := rawcodeNames[ev.Rawcode]; ok {
		return KeyEvent{Down: down, Key: name}, true
	}
	if ev.Rawcode >= 'A' && ev.Rawcode <= 'Z' {
		return KeyEvent{Down: down, Key: string(rune('a' + ev.Rawcode - 'A'))}, true
	}
	if ev.Rawcode >= '0' && ev.Rawcode <= '9' {
		return KeyEvent{Down: down, Key: string(rune(ev.Rawcode))}, true
	}
	if ev.Keychar != 0 && ev.Keychar != 65535 && unicode.IsPrint(ev.Keychar) {
		return KeyEvent{Down: down, Key: strings.ToLower(string(ev.Keychar))}, true
	}
	return KeyEvent{}, false
}

package main

import (
	"log"
	"sync"
	"time"
)

// KeyEvent is one discrete key transition from the OS event source. For a
// modifier key Mod is non-zero and Key is empty; for any other key, Key
// carries the normalized token ("f1", "pause", "a", ...).
type KeyEvent struct {
	Down bool
	Key  string
	Mod  Modifier
}

// keyEventSource abstracts the OS key hook so tests can drive the listener
// with a plain channel instead of a real hook.
type keyEventSource interface {
	// Start begins delivery. The returned channel is closed by Stop.
	Start() (<-chan KeyEvent, error)
	// Stop terminates delivery and closes the event channel.
	Stop()
}

// defaultDebounce is the minimum interval between two accepted triggers of
// the same shortcut.
const defaultDebounce = 200 * time.Millisecond

// KeyboardService consumes the live key-event stream, tracks which
// modifiers are currently held, matches non-modifier key-downs against the
// enabled shortcuts and fires the trigger callback with per-shortcut
// debouncing.
//
// The modifier set and debounce ledger are exclusively owned here; the
// service never mutates the registry. Matching pulls a fresh binding
// snapshot per key-down, so registry edits take effect on the next
// keystroke without explicit rebinds.
type KeyboardService struct {
	mu       sync.Mutex
	source   keyEventSource
	bindings func() []KeyBinding
	trigger  func(id string)
	now      func() time.Time
	debounce time.Duration

	running    bool
	activeMods Modifier
	lastFire   map[string]time.Time
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// NewKeyboardService wires a listener to an event source, a binding
// provider and a trigger callback. A non-positive debounce falls back to
// the 200ms default.
func NewKeyboardService(source keyEventSource, bindings func() []KeyBinding, trigger func(id string), debounce time.Duration) *KeyboardService {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &KeyboardService{
		source:   source,
		bindings: bindings,
		trigger:  trigger,
		now:      time.Now,
		debounce: debounce,
		lastFire: make(map[string]time.Time),
	}
}

// Start begins consuming key events. Calling Start on a running listener is
// a no-op. The modifier set starts empty; the debounce ledger survives
// restarts so a stop/start cycle can't burst-fire.
func (s *KeyboardService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	events, err := s.source.Start()
	if err != nil {
		return err
	}
	s.activeMods = 0
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.running = true
	log.Printf("keyboard: listener started")

	go s.loop(events, s.stopCh, s.doneCh)
	return nil
}

// Stop terminates the event source and waits for the event goroutine to
// finish the in-flight event's handler chain. Safe to call from any
// thread; stopping a stopped listener is a no-op.
func (s *KeyboardService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	done := s.doneCh
	s.mu.Unlock()

	s.source.Stop()
	<-done

	s.mu.Lock()
	s.activeMods = 0
	s.mu.Unlock()
	log.Printf("keyboard: listener stopped")
}

// IsRunning reports whether the listener is consuming events.
func (s *KeyboardService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *KeyboardService) loop(events <-chan KeyEvent, stopCh <-chan struct{}, doneCh chan struct{}) {
	defer close(doneCh)
	for {
		select {
		case <-stopCh:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.handleEvent(ev)
		}
	}
}

// handleEvent runs on the listener goroutine for every key transition.
func (s *KeyboardService) handleEvent(ev KeyEvent) {
	if ev.Mod != 0 {
		s.mu.Lock()
		if ev.Down {
			s.activeMods |= ev.Mod
		} else {
			s.activeMods &^= ev.Mod
		}
		s.mu.Unlock()
		return
	}
	if !ev.Down || ev.Key == "" {
		return
	}

	s.mu.Lock()
	active := s.activeMods
	s.mu.Unlock()

	// Bindings come back in registry insertion order; matched shortcuts
	// fire in that order, not by hotkey specificity.
	for _, b := range s.bindings() {
		if !b.Spec.MatchesEvent(ev.Key, active) {
			continue
		}
		if !s.acceptTrigger(b.ID) {
			continue
		}
		s.trigger(b.ID)
	}
}

// acceptTrigger consults the debounce ledger for id and records the trigger
// time when accepted. Debounce is per shortcut id: only re-firing the same
// shortcut inside the window is suppressed.
func (s *KeyboardService) acceptTrigger(id string) bool {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, seen := s.lastFire[id]; seen && now.Sub(last) < s.debounce {
		return false
	}
	s.lastFire[id] = now
	return true
}

package main

import (
	"log"
	"sync"
)

// DispatchService maps shortcut ids to ordered handler lists. It is
// deliberately decoupled from the shortcut registry: handlers are keyed by
// stable id, so reloading or rebinding shortcuts never loses them.
type DispatchService struct {
	mu       sync.Mutex
	handlers map[string][]func()
}

// NewDispatchService creates an empty dispatch table.
func NewDispatchService() *DispatchService {
	return &DispatchService{handlers: make(map[string][]func())}
}

// RegisterActionHandler appends a handler to the id's callback list.
// Multiple handlers per id are permitted; all run on every trigger, in
// registration order.
func (d *DispatchService) RegisterActionHandler(id string, handler func()) {
	if handler == nil {
		return
	}
	d.mu.Lock()
	d.handlers[id] = append(d.handlers[id], handler)
	d.mu.Unlock()
}

// Trigger synchronously invokes every handler registered for id, on the
// caller's goroutine. For the keyboard listener that is the listener's
// event goroutine, so handlers must be fast or hand off internally. A
// panicking handler is logged and does not stop its siblings.
func (d *DispatchService) Trigger(id string) {
	d.TriggerByID(id)
}

// TriggerByID is Trigger for non-keyboard sources (menu clicks, tests). It
// reports whether any handler was registered for id.
func (d *DispatchService) TriggerByID(id string) bool {
	d.mu.Lock()
	chain := make([]func(), len(d.handlers[id]))
	copy(chain, d.handlers[id])
	d.mu.Unlock()

	for _, handler := range chain {
		invoke(id, handler)
	}
	return len(chain) > 0
}

// invoke runs one handler with panic containment at the dispatch boundary.
func invoke(id string, handler func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("dispatch: handler for %q panicked: %v", id, r)
		}
	}()
	handler()
}

// HandlerCount returns the number of handlers registered for id.
func (d *DispatchService) HandlerCount(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers[id])
}

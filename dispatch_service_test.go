package main

import (
	"testing"
)

func TestDispatchHandlersRunInRegistrationOrder(t *testing.T) {
	d := NewDispatchService()
	var order []string
	d.RegisterActionHandler("x", func() { order = append(order, "first") })
	d.RegisterActionHandler("x", func() { order = append(order, "second") })
	d.RegisterActionHandler("x", func() { order = append(order, "third") })

	d.Trigger("x")

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("ran %d handlers, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("handler %d = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestDispatchPanicDoesNotAbortSiblings(t *testing.T) {
	d := NewDispatchService()
	ran := false
	d.RegisterActionHandler("x", func() { panic("boom") })
	d.RegisterActionHandler("x", func() { ran = true })

	d.Trigger("x") // must not propagate the panic

	if !ran {
		t.Error("sibling handler did not run after a panicking handler")
	}
}

func TestTriggerByIDReportsRegistration(t *testing.T) {
	d := NewDispatchService()
	if d.TriggerByID("nobody") {
		t.Error("TriggerByID on unregistered id = true, want false")
	}
	d.RegisterActionHandler("someone", func() {})
	if !d.TriggerByID("someone") {
		t.Error("TriggerByID on registered id = false, want true")
	}
}

func TestDispatchNilHandlerIgnored(t *testing.T) {
	d := NewDispatchService()
	d.RegisterActionHandler("x", nil)
	if d.HandlerCount("x") != 0 {
		t.Error("nil handler should not be stored")
	}
}

func TestDispatchHandlerMayRegisterMore(t *testing.T) {
	d := NewDispatchService()
	d.RegisterActionHandler("x", func() {
		// Registering from inside a handler must not deadlock.
		d.RegisterActionHandler("y", func() {})
	})
	d.Trigger("x")
	if d.HandlerCount("y") != 1 {
		t.Error("handler registered from within a trigger was lost")
	}
}

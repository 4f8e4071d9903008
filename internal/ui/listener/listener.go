// Package listener routes field input events to their handlers.
package listener

import (
	"sync"

	"tailorshop/internal/ui/forms"
)

// Field ids with input handlers.
const (
	ManageTotal   = "manage_total"
	ManageAdvance = "manage_advance"
	PayAdvance    = "pay_advance"
)

// Handler reacts to a new value typed into a field.
type Handler func(value string)

// Dispatcher maps field ids to handlers. Handlers are registered once and
// looked up on every event.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// New returns an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

// Handle registers h for fieldID, replacing any earlier handler.
func (d *Dispatcher) Handle(fieldID string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[fieldID] = h
}

// Dispatch runs the handler for fieldID and reports whether one existed.
func (d *Dispatcher) Dispatch(fieldID, value string) bool {
	d.mu.RLock()
	h, ok := d.handlers[fieldID]
	d.mu.RUnlock()
	if !ok {
		return false
	}
	h(value)
	return true
}

// Wire registers the order and payment form handlers. The getters are called
// per event, so forms may be replaced without re-wiring; a nil form makes
// the event a no-op.
func Wire(d *Dispatcher, orderForm func() *forms.OrderEditForm, paymentForm func() *forms.PaymentEditForm) {
	d.Handle(ManageTotal, func(v string) {
		if f := orderForm(); f != nil {
			f.Total = v
			f.Recalculate()
		}
	})
	d.Handle(ManageAdvance, func(v string) {
		if f := orderForm(); f != nil {
			f.Advance = v
			f.Recalculate()
		}
	})
	d.Handle(PayAdvance, func(v string) {
		if f := paymentForm(); f != nil {
			f.Advance = v
			f.AutoStatus()
		}
	})
}

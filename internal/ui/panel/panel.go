// Package panel opens and closes modals and sidebars by id.
//
// A sliding panel is shown before it is marked active and is unmarked before
// it is hidden, so the host can animate between the two steps. Each panel is
// a small state machine; every transition cancels the pending timer, and a
// timer only applies if its panel is still in the state and generation that
// scheduled it.
package panel

import (
	"sync"
	"time"
)

// Delays between the two steps of a sliding transition.
const (
	OpenDelay  = 10 * time.Millisecond
	CloseDelay = 300 * time.Millisecond
)

// Panel ids used by the shop screens.
const (
	ManageModal    = "manageModal"
	PaymentModal   = "paymentModal"
	ProfileSidebar = "profileSidebar"
)

// Variant selects how a panel transitions.
type Variant int

const (
	// Plain flips the active flag immediately.
	Plain Variant = iota
	// Sliding shows, then activates; deactivates, then hides.
	Sliding
)

// State is a panel's position in its open/close cycle.
type State int

const (
	Closed State = iota
	Opening
	Open
	Closing
)

func (s State) String() string {
	switch s {
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "closed"
	}
}

// Element is the host's view of a panel.
// Calls are made with the panel's lock held; an Element must not call back
// into the Registry.
type Element interface {
	SetDisplay(visible bool)
	SetActive(active bool)
}

// Timer is a pending delayed call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the wall clock.
type RealScheduler struct{}

// AfterFunc wraps time.AfterFunc.
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type panel struct {
	mu      sync.Mutex
	variant Variant
	el      Element
	state   State
	gen     uint64
	timer   Timer
}

// Registry holds the panels known to a screen.
type Registry struct {
	mu     sync.RWMutex
	panels map[string]*panel
	sched  Scheduler
}

// NewRegistry creates an empty registry. A nil scheduler uses RealScheduler.
func NewRegistry(s Scheduler) *Registry {
	if s == nil {
		s = RealScheduler{}
	}
	return &Registry{panels: make(map[string]*panel), sched: s}
}

// Register adds or replaces the panel under id. The panel starts Closed and
// the element is not touched.
func (r *Registry) Register(id string, v Variant, el Element) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.panels[id]; ok {
		old.mu.Lock()
		old.cancel()
		old.mu.Unlock()
	}
	r.panels[id] = &panel{variant: v, el: el}
}

func (r *Registry) lookup(id string) *panel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.panels[id]
}

// Toggle opens a Closed or Closing panel and closes an Opening or Open one.
// An unknown id is ignored.
func (r *Registry) Toggle(id string) {
	p := r.lookup(id)
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Closed || p.state == Closing {
		p.open(r.sched)
	} else {
		p.close(r.sched)
	}
}

// Open opens the panel unless it is already Opening or Open.
func (r *Registry) Open(id string) {
	p := r.lookup(id)
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Closed || p.state == Closing {
		p.open(r.sched)
	}
}

// Close closes the panel unless it is already Closing or Closed.
func (r *Registry) Close(id string) {
	p := r.lookup(id)
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Opening || p.state == Open {
		p.close(r.sched)
	}
}

// State reports the panel's state and whether id is registered.
func (r *Registry) State(id string) (State, bool) {
	p := r.lookup(id)
	if p == nil {
		return Closed, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, true
}

// IsOpen reports whether the panel is Opening or Open.
func (r *Registry) IsOpen(id string) bool {
	s, _ := r.State(id)
	return s == Opening || s == Open
}

// cancel stops the pending timer and invalidates any callback already queued.
// PRE: p.mu held
func (p *panel) cancel() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
}

// PRE: p.mu held; state is Closed or Closing
func (p *panel) open(s Scheduler) {
	p.cancel()
	if p.variant == Plain {
		p.el.SetActive(true)
		p.state = Open
		return
	}
	p.el.SetDisplay(true)
	p.state = Opening
	p.after(s, OpenDelay, Opening, func() {
		p.el.SetActive(true)
		p.state = Open
	})
}

// PRE: p.mu held; state is Opening or Open
func (p *panel) close(s Scheduler) {
	p.cancel()
	p.el.SetActive(false)
	if p.variant == Plain {
		p.state = Closed
		return
	}
	p.state = Closing
	p.after(s, CloseDelay, Closing, func() {
		p.el.SetDisplay(false)
		p.state = Closed
	})
}

// after schedules apply to run if the panel is still in want at the current
// generation when the timer fires.
// PRE: p.mu held
func (p *panel) after(s Scheduler, d time.Duration, want State, apply func()) {
	gen := p.gen
	p.timer = s.AfterFunc(d, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.gen != gen || p.state != want {
			return
		}
		p.timer = nil
		apply()
	})
}

package main

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tailorshop/internal/ui/panel"
)

// panelStepMsg carries a delayed panel transition back onto the update loop.
type panelStepMsg struct {
	apply func()
}

// loopScheduler delivers panel timers as messages, so the second step of a
// sliding transition runs inside Update like every other state change.
type loopScheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (s *loopScheduler) attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = p.Send
}

func (s *loopScheduler) AfterFunc(d time.Duration, f func()) panel.Timer {
	return time.AfterFunc(d, func() {
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()
		if send == nil {
			f()
			return
		}
		send(panelStepMsg{apply: f})
	})
}

// panelView is the terminal side of a panel. Profile refreshes run off the
// update loop, so the flags are atomic.
type panelView struct {
	display atomic.Bool
	active  atomic.Bool
}

func (v *panelView) SetDisplay(visible bool) { v.display.Store(visible) }
func (v *panelView) SetActive(active bool)   { v.active.Store(active) }

// Shown reports whether the panel should be drawn at all. A plain panel is
// never given a display step, so being active is enough.
func (v *panelView) Shown() bool {
	return v.display.Load() || v.active.Load()
}

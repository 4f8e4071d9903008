package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tailorshop/internal/ui/measurement"
	"tailorshop/internal/ui/panel"
	"tailorshop/internal/ui/profile"
	"tailorshop/internal/ui/shopapi"
)

type customerFocus int

const (
	focusSearch customerFocus = iota
	focusResults
	focusProfile
)

type customersView struct {
	search  textinput.Model
	query   string
	results []shopapi.CustomerSummary
	cursor  int
	focus   customerFocus
	card    int
	confirm *pendingDelete
}

type pendingDelete struct {
	measurementID string
	customerID    string
	category      string
}

type searchMsg struct {
	query   string
	results []shopapi.CustomerSummary
	err     error
}

type profileMsg struct {
	customerID string
	profile    shopapi.CustomerProfile
	err        error
}

type deleteDoneMsg struct {
	outcome measurement.Outcome
	alert   string
}

func newCustomersView() customersView {
	return customersView{search: newInput("search by name or mobile")}
}

func (v *customersView) focusOn(f customerFocus) tea.Cmd {
	v.focus = f
	if f == focusSearch {
		return v.search.Focus()
	}
	v.search.Blur()
	return nil
}

func (v *customersView) clampCard(n int) {
	if v.card >= n {
		v.card = n - 1
	}
	if v.card < 0 {
		v.card = 0
	}
}

func (m *model) searchCmd(q string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		res, err := client.SearchCustomers(ctx, q)
		return searchMsg{query: q, results: res, err: err}
	}
}

// searchDone keeps only the answer to the latest query.
func (m *model) searchDone(msg searchMsg) {
	v := &m.customers
	if msg.query != v.query {
		return
	}
	if msg.err != nil {
		slog.Error("customer_event", "event", "search_failed", "query", msg.query, "error", msg.err)
		m.err = genericError
		return
	}
	v.results = msg.results
	if v.cursor >= len(v.results) {
		v.cursor = 0
	}
}

// openProfile shows the sidebar in its loading state and fetches the profile
// off the update loop.
func (m *model) openProfile(customerID string) tea.Cmd {
	m.loader.Begin(customerID)
	m.customers.card = 0
	loader := m.loader
	return func() tea.Msg {
		ctx := context.Background()
		p, err := loader.Fetch(ctx, customerID)
		return profileMsg{customerID: customerID, profile: p, err: err}
	}
}

// answer is the operator's reply to the delete prompt.
type answer bool

func (a answer) Confirm(string) bool { return bool(a) }

// alertBuffer keeps the last alert raised during a delete.
type alertBuffer struct {
	last string
}

func (a *alertBuffer) Alert(msg string) { a.last = msg }

// deleteCmd runs the deleter with the operator's answer. The cached token is
// tried first, then a fresh one from the server.
func (m *model) deleteCmd(p pendingDelete, confirmed bool) tea.Cmd {
	client := m.client
	loader := m.loader
	return func() tea.Msg {
		ctx := context.Background()
		alerts := &alertBuffer{}
		d := &measurement.Deleter{
			Client:  client,
			Confirm: answer(confirmed),
			Alert:   alerts,
			Profile: loader,
			Tokens: []measurement.TokenSource{
				measurement.TokenFunc(client.Token),
				measurement.TokenFunc(func() string {
					t, err := client.FetchToken(ctx)
					if err != nil {
						slog.Warn("measurement_event", "event", "token_fetch_failed", "error", err)
						return ""
					}
					return t
				}),
			},
		}
		out := d.Delete(ctx, p.measurementID, p.customerID)
		return deleteDoneMsg{outcome: out, alert: alerts.last}
	}
}

func (m *model) deleteDone(msg deleteDoneMsg) {
	switch msg.outcome {
	case measurement.Deleted:
		m.err = ""
		m.status = "Measurement deleted."
	case measurement.Declined:
		m.status = "Delete cancelled."
	default:
		m.status = ""
		m.err = msg.alert
	}
	m.customers.clampCard(len(m.loader.View().Cards))
}

func (m *model) updateCustomers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := &m.customers
	if v.confirm != nil {
		p := *v.confirm
		switch {
		case key.Matches(msg, m.keys.Confirm):
			v.confirm = nil
			return m, m.deleteCmd(p, true)
		case key.Matches(msg, m.keys.Cancel):
			v.confirm = nil
			return m, m.deleteCmd(p, false)
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Next) {
		next := (v.focus + 1) % 3
		if next == focusProfile && !m.panels.IsOpen(panel.ProfileSidebar) {
			next = focusSearch
		}
		return m, v.focusOn(next)
	}

	switch v.focus {
	case focusSearch:
		if key.Matches(msg, m.keys.Down) || key.Matches(msg, m.keys.Select) {
			if len(v.results) > 0 {
				return m, v.focusOn(focusResults)
			}
			return m, nil
		}
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		if q := strings.TrimSpace(v.search.Value()); q != v.query {
			v.query = q
			return m, tea.Batch(cmd, m.searchCmd(q))
		}
		return m, cmd

	case focusResults:
		switch {
		case key.Matches(msg, m.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			} else {
				return m, v.focusOn(focusSearch)
			}
		case key.Matches(msg, m.keys.Down):
			if v.cursor < len(v.results)-1 {
				v.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			if len(v.results) > 0 {
				v.focusOn(focusProfile)
				return m, m.openProfile(v.results[v.cursor].ID)
			}
		case key.Matches(msg, m.keys.Back):
			return m, v.focusOn(focusSearch)
		}

	case focusProfile:
		cards := m.loader.View().Cards
		switch {
		case key.Matches(msg, m.keys.Up):
			if v.card > 0 {
				v.card--
			}
		case key.Matches(msg, m.keys.Down):
			if v.card < len(cards)-1 {
				v.card++
			}
		case key.Matches(msg, m.keys.Delete):
			if v.card < len(cards) {
				c := cards[v.card]
				v.confirm = &pendingDelete{measurementID: c.MeasurementID, customerID: c.CustomerID, category: c.Category}
			}
		case key.Matches(msg, m.keys.Back):
			m.panels.Close(panel.ProfileSidebar)
			return m, v.focusOn(focusResults)
		}
	}
	return m, nil
}

func (m *model) viewCustomers() string {
	v := m.customers
	var left strings.Builder
	label := mutedStyle.Render("Search: ")
	if v.focus == focusSearch {
		label = selectedStyle.Render("Search: ")
	}
	left.WriteString(label + v.search.View() + "\n\n")
	if len(v.results) == 0 {
		left.WriteString(mutedStyle.Render("No customers found.") + "\n")
	}
	for i, c := range v.results {
		line := fmt.Sprintf("%-24s %-12s %s", c.Name, c.Mobile, c.Gender)
		if i == v.cursor && v.focus != focusSearch {
			left.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			left.WriteString("  " + line + "\n")
		}
	}

	sidebar := m.views[panel.ProfileSidebar]
	if !sidebar.Shown() {
		return left.String()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(48).Render(left.String()),
		framed(sidebarStyle, sidebar.active.Load(), m.viewProfile()),
	)
}

func (m *model) viewProfile() string {
	pv := m.loader.View()
	v := m.customers
	var b strings.Builder
	b.WriteString(titleStyle.Render(pv.Name) + "\n")
	if pv.MobileLine != "" {
		b.WriteString(mutedStyle.Render(pv.MobileLine) + "\n")
	}
	if pv.Pending != "" {
		b.WriteString(fmt.Sprintf("Pending: %s   Orders: %s\n", errorStyle.Render(pv.Pending), pv.OrdersCount))
	}
	b.WriteString("\n")

	switch {
	case pv.Loading():
		b.WriteString(mutedStyle.Render(profile.LoadingText) + "\n")
	case pv.Failed():
		b.WriteString(errorStyle.Render(profile.ErrorText) + "\n")
	case len(pv.Cards) == 0:
		b.WriteString(mutedStyle.Render(profile.EmptyText) + "\n")
	}
	for i, c := range pv.Cards {
		head := fmt.Sprintf("%s  %s", c.Category, c.Date)
		if i == v.card && v.focus == focusProfile {
			b.WriteString(selectedStyle.Render("> "+head) + "\n")
		} else {
			b.WriteString("  " + head + "\n")
		}
		if c.IsScalar {
			b.WriteString("    " + c.Scalar + "\n")
		}
		for _, cell := range c.Cells {
			b.WriteString(fmt.Sprintf("    %s: %s\n", cell.Key, cell.Value))
		}
		if c.Remarks != "" {
			b.WriteString(mutedStyle.Render("    "+c.Remarks) + "\n")
		}
	}

	if v.confirm != nil {
		b.WriteString("\n" + warningStyle.Render(measurement.ConfirmPrompt) + "\n")
		b.WriteString(mutedStyle.Render(v.confirm.category+" (y/n)") + "\n")
	}
	return b.String()
}

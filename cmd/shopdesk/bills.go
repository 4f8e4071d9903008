package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"tailorshop/internal/domain/billing"
	"tailorshop/internal/ui/billfilter"
	"tailorshop/internal/ui/shopapi"
)

// billFilters is the order the status filter cycles through.
var billFilters = append([]string{billfilter.ShowAll}, billing.PaymentStatuses...)

type billsView struct {
	page    shopapi.BillsPage
	month   int
	year    int
	filter  string
	visible []int
	cursor  int
	loading bool
}

type billsMsg struct {
	page shopapi.BillsPage
	err  error
}

// billsPerPage is the largest page the server serves.
const billsPerPage = 100

// billsCmd loads every bill of a month, page by page; the status filter is
// applied locally. A zero month asks the server for the current one.
func (m *model) billsCmd(month, year int) tea.Cmd {
	m.bills.loading = true
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		q := shopapi.BillsQuery{Month: month, Year: year, Page: 1, PerPage: billsPerPage}
		var rows []shopapi.BillRow
		for {
			page, err := client.Bills(ctx, q)
			if err != nil {
				return billsMsg{err: err}
			}
			rows = append(rows, page.Bills...)
			if len(page.Bills) == 0 || page.Page.Page >= page.Page.TotalPages {
				page.Bills = rows
				return billsMsg{page: page}
			}
			// later pages stay on the month the server resolved
			q.Month, q.Year = page.Month.Month, page.Month.Year
			q.Page = page.Page.Page + 1
		}
	}
}

func (m *model) billsDone(msg billsMsg) {
	v := &m.bills
	v.loading = false
	if msg.err != nil {
		slog.Error("bill_event", "event", "load_failed", "error", msg.err)
		m.err = genericError
		return
	}
	v.page = msg.page
	v.month, v.year = msg.page.Month.Month, msg.page.Month.Year
	v.refilter()
}

func (v *billsView) refilter() {
	statuses := make([]string, len(v.page.Bills))
	for i, b := range v.page.Bills {
		statuses[i] = b.Status
	}
	v.visible = billfilter.Visible(statuses, v.filter)
	if v.cursor >= len(v.visible) {
		v.cursor = 0
	}
}

// selected returns the bill under the cursor.
func (v *billsView) selected() (shopapi.BillRow, bool) {
	if v.cursor >= len(v.visible) {
		return shopapi.BillRow{}, false
	}
	return v.page.Bills[v.visible[v.cursor]], true
}

func (v *billsView) nextFilter() {
	for i, f := range billFilters {
		if f == v.filter {
			v.filter = billFilters[(i+1)%len(billFilters)]
			v.refilter()
			return
		}
	}
	v.filter = billfilter.ShowAll
	v.refilter()
}

func (m *model) updateBills(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := &m.bills
	if v.loading {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if v.cursor < len(v.visible)-1 {
			v.cursor++
		}
	case key.Matches(msg, m.keys.Filter):
		v.nextFilter()
	case key.Matches(msg, m.keys.PrevMonth):
		return m, m.billsCmd(v.page.Prev.Month, v.page.Prev.Year)
	case key.Matches(msg, m.keys.NextMonth):
		return m, m.billsCmd(v.page.Next.Month, v.page.Next.Year)
	case key.Matches(msg, m.keys.Edit):
		if b, ok := v.selected(); ok {
			return m, m.openOrderEditor(b)
		}
	case key.Matches(msg, m.keys.Pay):
		if b, ok := v.selected(); ok {
			return m, m.openPaymentEditor(b)
		}
	}
	return m, nil
}

func (m *model) viewBills() string {
	v := m.bills
	var b strings.Builder
	month := v.page.Month.Label
	if month == "" {
		month = "..."
	}
	b.WriteString(fmt.Sprintf("%s   %s\n\n", titleStyle.Render(month), mutedStyle.Render("showing: "+v.filter)))
	if v.loading {
		b.WriteString(mutedStyle.Render("Loading...") + "\n")
		return b.String()
	}
	if len(v.visible) == 0 {
		b.WriteString(mutedStyle.Render("No bills.") + "\n")
		return b.String()
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %-20s %-24s %10s %10s %10s  %s", "Customer", "Items", "Total", "Advance", "Balance", "Status")) + "\n")
	for i, idx := range v.visible {
		row := v.page.Bills[idx]
		items := truncate(row.Items, 24)
		line := fmt.Sprintf("%-20s %-24s %10s %10s %10s  ",
			row.CustomerName, items,
			billing.FormatAmount(row.Total),
			billing.FormatAmount(row.Advance),
			billing.FormatAmount(row.Balance),
		)
		if i == v.cursor {
			b.WriteString(selectedStyle.Render("> "+line) + paymentBadge(row.Status) + "\n")
		} else {
			b.WriteString("  " + line + paymentBadge(row.Status) + "\n")
		}
	}
	return b.String()
}

// truncate shortens s to width cells, ending in an ellipsis.
func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "...")
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tailorshop/internal/domain/billing"
	"tailorshop/internal/ui/forms"
	"tailorshop/internal/ui/listener"
	"tailorshop/internal/ui/panel"
	"tailorshop/internal/ui/shopapi"
)

// Field ids without an input listener.
const (
	fieldWorkStatus     = "manage_status"
	fieldManageMode     = "manage_mode"
	fieldManageDelivery = "manage_delivery"
	fieldPayMode        = "pay_mode"
	fieldPayDelivery    = "pay_delivery"
)

type formField struct {
	id    string
	label string
	input textinput.Model
}

// editor holds the inputs of the open order or payment modal.
type editor struct {
	panelID string
	fields  []formField
	focus   int
	busy    bool
}

type orderSavedMsg struct {
	panelID string
	result  shopapi.OrderResult
	err     error
}

func newField(id, label, value string) formField {
	in := newInput(label)
	in.SetValue(value)
	return formField{id: id, label: label, input: in}
}

func (m *model) openOrderEditor(b shopapi.BillRow) tea.Cmd {
	m.populate.PopulateOrder(m.order, forms.OrderArgsFromBill(b))
	f := m.order
	m.editor = &editor{
		panelID: panel.ManageModal,
		fields: []formField{
			newField(listener.ManageTotal, "Total", f.Total),
			newField(listener.ManageAdvance, "Advance", f.Advance),
			newField(fieldWorkStatus, "Work status", f.WorkStatus),
			newField(fieldManageMode, "Payment mode", f.PaymentMode),
			newField(fieldManageDelivery, "Delivery date", f.DeliveryDate),
		},
	}
	return m.editor.fields[0].input.Focus()
}

func (m *model) openPaymentEditor(b shopapi.BillRow) tea.Cmd {
	m.populate.PopulatePayment(m.payment, forms.PaymentArgsFromBill(b))
	f := m.payment
	m.editor = &editor{
		panelID: panel.PaymentModal,
		fields: []formField{
			newField(listener.PayAdvance, "Amount paid", f.Advance),
			newField(fieldPayMode, "Payment mode", f.PaymentMode),
			newField(fieldPayDelivery, "Delivery date", f.DeliveryDate),
		},
	}
	return m.editor.fields[0].input.Focus()
}

// applyField copies an edited value into its form. Amount fields go through
// the listener so the balance and status follow each keystroke.
func (m *model) applyField(id, value string) {
	if m.dispatch.Dispatch(id, value) {
		return
	}
	switch id {
	case fieldWorkStatus:
		m.order.WorkStatus = value
	case fieldManageMode:
		m.order.PaymentMode = value
	case fieldManageDelivery:
		m.order.DeliveryDate = value
	case fieldPayMode:
		m.payment.PaymentMode = value
	case fieldPayDelivery:
		m.payment.DeliveryDate = value
	}
}

func (m *model) closeEditor() {
	if m.editor == nil {
		return
	}
	m.panels.Close(m.editor.panelID)
	m.editor = nil
}

func (m *model) moveFocus(delta int) tea.Cmd {
	ed := m.editor
	ed.fields[ed.focus].input.Blur()
	ed.focus = (ed.focus + delta + len(ed.fields)) % len(ed.fields)
	return ed.fields[ed.focus].input.Focus()
}

func (m *model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.editor
	if ed.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeEditor()
		return m, nil
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Down):
		return m, m.moveFocus(1)
	case key.Matches(msg, m.keys.Up):
		return m, m.moveFocus(-1)
	case key.Matches(msg, m.keys.FillFull) && ed.panelID == panel.ManageModal:
		m.order.FillFullPayment()
		ed.fields[1].input.SetValue(m.order.Advance)
		return m, nil
	case key.Matches(msg, m.keys.Select):
		ed.busy = true
		m.err = ""
		if ed.panelID == panel.ManageModal {
			return m, m.saveCmd(ed.panelID, m.order.Update())
		}
		return m, m.saveCmd(ed.panelID, m.payment.Update())
	}

	field := &ed.fields[ed.focus]
	before := field.input.Value()
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	if v := field.input.Value(); v != before {
		m.applyField(field.id, v)
	}
	return m, cmd
}

func (m *model) saveCmd(panelID string, u shopapi.OrderUpdate) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		token := client.Token()
		if token == "" {
			t, err := client.FetchToken(ctx)
			if err != nil {
				return orderSavedMsg{panelID: panelID, err: err}
			}
			token = t
		}
		var (
			res shopapi.OrderResult
			err error
		)
		if panelID == panel.ManageModal {
			res, err = client.UpdateOrderDetails(ctx, u, token)
		} else {
			res, err = client.RecordPayment(ctx, u, token)
		}
		return orderSavedMsg{panelID: panelID, result: res, err: err}
	}
}

func (m *model) orderSaved(msg orderSavedMsg) (tea.Model, tea.Cmd) {
	if m.editor != nil {
		m.editor.busy = false
	}
	switch {
	case msg.err != nil:
		slog.Error("order_event", "event", "save_failed", "panel", msg.panelID, "error", msg.err)
		m.err = genericError
		return m, nil
	case !msg.result.Success:
		m.err = "Error: " + msg.result.Message
		return m, nil
	}

	m.closeEditor()
	m.err = ""
	if o := msg.result.Order; o != nil {
		m.status = fmt.Sprintf("Order saved: %s, balance %s%s", o.PaymentStatus, m.currency, billing.FormatAmount(o.Balance))
	} else {
		m.status = "Order saved."
	}
	return m, m.billsCmd(m.bills.month, m.bills.year)
}

func (m *model) viewEditor() string {
	ed := m.editor
	view := m.views[ed.panelID]
	if !view.Shown() {
		return ""
	}
	var b strings.Builder
	if ed.panelID == panel.ManageModal {
		f := m.order
		b.WriteString(titleStyle.Render("Manage order") + "\n")
		b.WriteString(fmt.Sprintf("%s\n%s\n", f.CustomerName, mutedStyle.Render(f.Items)))
		b.WriteString(mutedStyle.Render("Started "+f.StartDate+", deliver on or after "+f.DeliveryMin) + "\n\n")
	} else {
		f := m.payment
		b.WriteString(titleStyle.Render("Record payment") + "\n")
		b.WriteString(fmt.Sprintf("Total: %s%s   Status: %s\n", m.currency, f.Total, paymentBadge(f.PaymentStatus)))
		b.WriteString(mutedStyle.Render("Created by "+f.CreatedBy) + "\n\n")
	}
	for i, fld := range ed.fields {
		label := mutedStyle.Render(fmt.Sprintf("%-14s", fld.label))
		if i == ed.focus {
			label = selectedStyle.Render(fmt.Sprintf("%-14s", fld.label))
		}
		b.WriteString(label + " " + fld.input.View() + "\n")
	}
	if ed.panelID == panel.ManageModal {
		b.WriteString("\nBalance: " + balanceLine(m.order.Balance) + "\n")
	}
	if ed.busy {
		b.WriteString(mutedStyle.Render("Saving...") + "\n")
	}
	return framed(modalStyle, view.active.Load(), b.String())
}

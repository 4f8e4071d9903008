package main

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tailorshop/internal/domain/billing"
	"tailorshop/internal/ui/billfilter"
	"tailorshop/internal/ui/forms"
	"tailorshop/internal/ui/listener"
	"tailorshop/internal/ui/panel"
	"tailorshop/internal/ui/profile"
	"tailorshop/internal/ui/shopapi"
)

const genericError = "An error occurred."

// shopClient is the part of shopapi.Client the desk uses.
type shopClient interface {
	Login(ctx context.Context, username, password string) error
	Token() string
	FetchToken(ctx context.Context) (string, error)
	SearchCustomers(ctx context.Context, q string) ([]shopapi.CustomerSummary, error)
	CustomerProfile(ctx context.Context, customerID string) (shopapi.CustomerProfile, error)
	DeleteMeasurement(ctx context.Context, measurementID, token string) (shopapi.Result, error)
	Bills(ctx context.Context, query shopapi.BillsQuery) (shopapi.BillsPage, error)
	UpdateOrderDetails(ctx context.Context, u shopapi.OrderUpdate, token string) (shopapi.OrderResult, error)
	RecordPayment(ctx context.Context, u shopapi.OrderUpdate, token string) (shopapi.OrderResult, error)
}

type screen int

const (
	screenLogin screen = iota
	screenCustomers
	screenBills
)

type model struct {
	client   shopClient
	shopName string
	currency string
	keys     keyMap
	help     help.Model

	screen screen
	width  int
	height int
	status string
	err    string

	login     loginForm
	customers customersView
	bills     billsView

	panels   *panel.Registry
	views    map[string]*panelView
	loader   *profile.Loader
	populate forms.Populator
	dispatch *listener.Dispatcher
	order    *forms.OrderEditForm
	payment  *forms.PaymentEditForm
	editor   *editor
}

func newModel(client shopClient, shopName, currency string, sched panel.Scheduler, now func() time.Time) *model {
	if currency == "" {
		currency = billing.DefaultCurrency
	}
	m := &model{
		client:   client,
		shopName: shopName,
		currency: currency,
		keys:     defaultKeys,
		help:     help.New(),
		panels:   panel.NewRegistry(sched),
		views:    make(map[string]*panelView),
		dispatch: listener.New(),
		order:    forms.NewOrderEditForm(currency),
		payment:  &forms.PaymentEditForm{},
	}
	variants := map[string]panel.Variant{
		panel.ProfileSidebar: panel.Sliding,
		panel.ManageModal:    panel.Plain,
		panel.PaymentModal:   panel.Plain,
	}
	for id, v := range variants {
		pv := &panelView{}
		m.views[id] = pv
		m.panels.Register(id, v, pv)
	}
	m.loader = profile.NewLoader(client, m.panels, currency)
	m.populate = forms.Populator{Panels: m.panels, Now: now}
	listener.Wire(m.dispatch,
		func() *forms.OrderEditForm { return m.order },
		func() *forms.PaymentEditForm { return m.payment },
	)
	m.login = newLoginForm()
	m.customers = newCustomersView()
	m.bills = billsView{filter: billfilter.ShowAll}
	return m
}

// newInput returns a text input with a steady cursor.
func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 120
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func (m *model) Init() tea.Cmd {
	return m.login.inputs[0].Focus()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case panelStepMsg:
		msg.apply()
		return m, nil

	case loginMsg:
		return m.loginDone(msg)

	case searchMsg:
		m.searchDone(msg)
		return m, nil

	case profileMsg:
		m.loader.Apply(msg.customerID, msg.profile, msg.err)
		m.customers.clampCard(len(m.loader.View().Cards))
		return m, nil

	case deleteDoneMsg:
		m.deleteDone(msg)
		return m, nil

	case billsMsg:
		m.billsDone(msg)
		return m, nil

	case orderSavedMsg:
		return m.orderSaved(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.screen == screenLogin {
			return m.updateLogin(msg)
		}
		if m.editor != nil {
			return m.updateEditor(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Customers):
			return m, m.showCustomers()
		case key.Matches(msg, m.keys.Bills):
			return m, m.showBills()
		}
		switch m.screen {
		case screenCustomers:
			return m.updateCustomers(msg)
		case screenBills:
			return m.updateBills(msg)
		}
	}
	return m, nil
}

func (m *model) showCustomers() tea.Cmd {
	m.screen = screenCustomers
	m.err = ""
	return m.customers.focusOn(focusSearch)
}

func (m *model) showBills() tea.Cmd {
	m.screen = screenBills
	m.err = ""
	m.customers.search.Blur()
	return m.billsCmd(m.bills.month, m.bills.year)
}

func (m *model) View() string {
	var b strings.Builder
	title := m.shopName
	if title == "" {
		title = "Tailor Shop"
	}
	b.WriteString(titleStyle.Render(title))
	if m.screen != screenLogin {
		b.WriteString("  " + m.tabs())
	}
	b.WriteString("\n\n")

	switch m.screen {
	case screenLogin:
		b.WriteString(m.viewLogin())
	case screenCustomers:
		b.WriteString(m.viewCustomers())
	case screenBills:
		b.WriteString(m.viewBills())
	}

	if m.editor != nil {
		b.WriteString("\n" + m.viewEditor())
	}

	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err) + "\n")
	} else if m.status != "" {
		b.WriteString(successStyle.Render(m.status) + "\n")
	}
	b.WriteString(m.help.View(m.helpKeys()))
	return b.String()
}

func (m *model) tabs() string {
	customers, bills := tabStyle, tabStyle
	if m.screen == screenCustomers {
		customers = activeTab
	} else {
		bills = activeTab
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		customers.Render("Customers"),
		bills.Render("Bills"),
	)
}

func (m *model) helpKeys() bindings {
	k := m.keys
	switch {
	case m.screen == screenLogin:
		return bindings{k.Next, k.Select, k.Quit}
	case m.editor != nil:
		hb := bindings{k.Next, k.Select, k.Back}
		if m.editor.panelID == panel.ManageModal {
			hb = append(hb, k.FillFull)
		}
		return hb
	case m.customers.confirm != nil:
		return bindings{k.Confirm, k.Cancel}
	case m.screen == screenCustomers:
		hb := bindings{k.Next, k.Up, k.Down, k.Select}
		if m.customers.focus == focusProfile {
			hb = append(hb, k.Delete, k.Back)
		}
		return append(hb, k.Bills, k.Quit)
	default:
		return bindings{k.Up, k.Down, k.Filter, k.PrevMonth, k.NextMonth, k.Edit, k.Pay, k.Customers, k.Quit}
	}
}

// Package profile loads a customer's profile into the sidebar view and
// renders its measurement cards.
package profile

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"sync"

	"tailorshop/internal/domain/billing"
	"tailorshop/internal/ui/panel"
	"tailorshop/internal/ui/shopapi"
)

// Placeholder and status texts.
const (
	LoadingText = "Loading..."
	EmptyText   = "No measurements saved yet."
	ErrorText   = "Error loading profile."
)

// ListState is what the measurement list currently shows.
type ListState int

const (
	ListLoading ListState = iota
	ListReady
	ListError
)

// Cell is one key/value entry of a measurement grid.
type Cell struct {
	Key   string
	Value string
}

// Card is one rendered measurement.
type Card struct {
	MeasurementID string
	CustomerID    string
	Category      string
	Date          string
	Cells         []Cell
	Scalar        string
	IsScalar      bool
	Remarks       string
	ReuseURL      string
	DeleteURL     string
}

// View is the profile sidebar's content.
type View struct {
	CustomerID        string
	Name              string
	MobileLine        string
	Pending           string
	OrdersCount       string
	NewMeasurementURL string
	List              ListState
	Cards             []Card
	// FormToken is the CSRF token a server host embeds in each card's
	// delete form.
	FormToken string
}

// Loading reports whether the list shows the loading placeholder.
func (v View) Loading() bool {
	return v.List == ListLoading
}

// Failed reports whether the list shows the load error.
func (v View) Failed() bool {
	return v.List == ListError
}

// Fetcher reads a customer profile.
type Fetcher interface {
	CustomerProfile(ctx context.Context, customerID string) (shopapi.CustomerProfile, error)
}

// Opener opens a panel by id.
type Opener interface {
	Open(id string)
}

// Loader fills a View from the shop server.
type Loader struct {
	Client   Fetcher
	Panels   Opener
	Currency string

	mu   sync.Mutex
	view View
}

// NewLoader creates a Loader. An empty currency uses billing.DefaultCurrency.
func NewLoader(client Fetcher, panels Opener, currency string) *Loader {
	if currency == "" {
		currency = billing.DefaultCurrency
	}
	return &Loader{Client: client, Panels: panels, Currency: currency}
}

// View returns a copy of the current view.
func (l *Loader) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()
	v := l.view
	v.Cards = append([]Card(nil), l.view.Cards...)
	return v
}

// Load opens the sidebar, fetches the profile and applies the result.
// POST: the view shows the profile, or ErrorText in the list on failure
func (l *Loader) Load(ctx context.Context, customerID string) error {
	l.Begin(customerID)
	p, err := l.Fetch(ctx, customerID)
	l.Apply(customerID, p, err)
	return err
}

// Begin opens the sidebar and shows the loading placeholders. Profile
// fields other than the name keep their previous text until Apply.
func (l *Loader) Begin(customerID string) {
	if l.Panels != nil {
		l.Panels.Open(panel.ProfileSidebar)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view.CustomerID = customerID
	l.view.Name = LoadingText
	l.view.List = ListLoading
	l.view.Cards = nil
}

// Fetch performs the network read. It is safe to call off the UI loop.
func (l *Loader) Fetch(ctx context.Context, customerID string) (shopapi.CustomerProfile, error) {
	return l.Client.CustomerProfile(ctx, customerID)
}

// Apply writes a fetch result into the view. A result for a customer other
// than the one last passed to Begin is dropped.
func (l *Loader) Apply(customerID string, p shopapi.CustomerProfile, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.view.CustomerID != customerID {
		slog.Debug("profile_event", "event", "stale_result_dropped", "customer_id", customerID)
		return
	}
	if err != nil {
		slog.Error("profile_event", "event", "load_failed", "customer_id", customerID, "error", err)
		l.view.List = ListError
		l.view.Cards = nil
		return
	}

	l.view.Name = p.Name
	l.view.MobileLine = p.Mobile + " (" + p.Gender + ")"
	l.view.Pending = l.Currency + billing.FormatAmount(p.TotalPending)
	l.view.OrdersCount = strconv.Itoa(p.OrdersCount)
	l.view.NewMeasurementURL = MeasurementURL(p.ID)
	l.view.Cards = Cards(p)
	l.view.List = ListReady
}

// MeasurementURL is the new-measurement page for a customer.
func MeasurementURL(customerID string) string {
	return "/customer/" + url.PathEscape(customerID) + "/measurement"
}

// ReuseURL is the new-measurement page prefilled from an earlier one.
func ReuseURL(customerID, measurementID string) string {
	return MeasurementURL(customerID) + "?reuse_id=" + url.QueryEscape(measurementID)
}

// DeleteURL is the endpoint that removes a measurement.
func DeleteURL(measurementID string) string {
	return "/delete/measurement/" + url.PathEscape(measurementID)
}

// Cards builds one card per measurement, keeping the server's order.
func Cards(p shopapi.CustomerProfile) []Card {
	cards := make([]Card, 0, len(p.Measurements))
	for _, m := range p.Measurements {
		c := Card{
			MeasurementID: m.ID,
			CustomerID:    p.ID,
			Category:      m.Category,
			Date:          m.Date,
			Remarks:       m.Remarks,
			ReuseURL:      ReuseURL(p.ID, m.ID),
			DeleteURL:     DeleteURL(m.ID),
		}
		if m.Data.IsObject() {
			for _, f := range m.Data.Fields() {
				c.Cells = append(c.Cells, Cell{Key: f.Name, Value: f.Text()})
			}
		} else {
			c.IsScalar = true
			c.Scalar = m.Data.ScalarText()
		}
		cards = append(cards, c)
	}
	return cards
}

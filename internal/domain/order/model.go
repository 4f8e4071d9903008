package order

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"tailorshop/internal/domain/billing"
)

// DateLayout is the wire and storage layout for order dates.
const DateLayout = "2006-01-02"

// Work status constants
const (
	WorkWorking   = "Working"
	WorkReady     = "Ready"
	WorkDelivered = "Delivered"
)

// WorkStatuses lists valid work statuses in pipeline order.
var WorkStatuses = []string{WorkWorking, WorkReady, WorkDelivered}

// Payment mode constants
const (
	ModeCash = "Cash"
	ModeUPI  = "UPI"
	ModeCard = "Card"
)

// Domain errors
var (
	ErrEmptyCustomerID   = errors.New("order needs a customer")
	ErrNoItems           = errors.New("order needs at least one item")
	ErrInvalidWorkStatus = errors.New("work status must be Working, Ready or Delivered")
	ErrNegativeAmount    = errors.New("amounts cannot be negative")
	ErrDeliveryBefore    = errors.New("delivery date cannot be before start date")
	ErrInvalidDate       = errors.New("invalid date format (use YYYY-MM-DD)")
)

// Item is one garment on an order.
type Item struct {
	Name string  `json:"name"`
	Qty  int     `json:"qty"`
	Cost float64 `json:"cost"`
}

// Order is a stitching job and its running bill.
// INVARIANT: Balance = Round2(Total - Advance) after Recalculate
type Order struct {
	ID            string
	CustomerID    string
	Items         []Item
	StartDate     string // YYYY-MM-DD, may be empty
	DeliveryDate  string // YYYY-MM-DD, may be empty
	WorkStatus    string
	PaymentStatus string
	Total         float64
	Advance       float64
	Balance       float64
	PaymentMode   string
	CreatedBy     string
	Notes         string
	CreatedAt     time.Time
}

// Validate checks if the Order has valid data.
// PRE: Order struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (o *Order) Validate() error {
	if o.CustomerID == "" {
		return ErrEmptyCustomerID
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	if !IsValidWorkStatus(o.WorkStatus) {
		return ErrInvalidWorkStatus
	}
	if o.Total < 0 || o.Advance < 0 {
		return ErrNegativeAmount
	}
	if o.StartDate != "" && o.DeliveryDate != "" && o.DeliveryDate < o.StartDate {
		return ErrDeliveryBefore
	}
	return nil
}

// ApplyPayment sets total and advance and recalculates the bill.
// PRE: total and advance are non-negative
// POST: Balance and PaymentStatus reflect the new amounts
func (o *Order) ApplyPayment(total, advance float64) {
	o.Total = billing.Round2(total)
	o.Advance = billing.Round2(advance)
	o.Recalculate()
}

// Recalculate derives Balance and PaymentStatus from Total and Advance.
// POST: PaymentStatus is Paid when a positive total is covered, Half-Payment
// when something was paid against a positive total, Pending otherwise
func (o *Order) Recalculate() {
	o.Balance = billing.Round2(o.Total - o.Advance)
	switch {
	case o.Total > 0 && o.Balance <= 0:
		o.PaymentStatus = billing.StatusPaid
	case o.Total > 0 && o.Advance > 0:
		o.PaymentStatus = billing.StatusHalfPayment
	default:
		o.PaymentStatus = billing.StatusPending
	}
}

// IsPaid reports whether the bill is settled.
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == billing.StatusPaid
}

// ItemsText summarises items for display, e.g. "2x Shirt, 1x Pant".
func (o *Order) ItemsText() string {
	parts := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		qty := it.Qty
		if qty <= 0 {
			qty = 1
		}
		parts = append(parts, strconv.Itoa(qty)+"x "+it.Name)
	}
	return strings.Join(parts, ", ")
}

// IsValidWorkStatus reports whether s is a known work status.
func IsValidWorkStatus(s string) bool {
	for _, v := range WorkStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ParseDate validates a YYYY-MM-DD date; empty input is allowed.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", ErrInvalidDate
	}
	return s, nil
}

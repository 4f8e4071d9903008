package order

import (
	"context"
	"time"

	domain "tailorshop/internal/domain/order"
)

// Store persists orders and answers bill queries.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Order, error)
	Save(ctx context.Context, value domain.Order) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	// Summary returns the summed balance and order count for a customer.
	Summary(ctx context.Context, customerID string) (Summary, error)
	ListBills(ctx context.Context, filter BillFilter) ([]Bill, error)
}

// Summary aggregates a customer's orders.
type Summary struct {
	TotalPending float64
	OrdersCount  int
}

// BillFilter selects bills created within [From, To).
type BillFilter struct {
	From   time.Time
	To     time.Time
	Status string // payment status; empty means any
	Query  string // matches customer name or mobile
	Limit  int
}

// Bill is an order joined with the customer it belongs to.
type Bill struct {
	Order          domain.Order
	CustomerName   string
	CustomerMobile string
}

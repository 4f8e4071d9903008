package projections

import (
	"context"

	"tailorshop/internal/adapters/storage/audit"
	"tailorshop/internal/adapters/storage/order"
	domainAudit "tailorshop/internal/domain/audit"
	domainCategory "tailorshop/internal/domain/category"
	domainCustomer "tailorshop/internal/domain/customer"
	domainMeasurement "tailorshop/internal/domain/measurement"
)

// CustomerStore interface for customer queries.
type CustomerStore interface {
	GetByID(ctx context.Context, id string) (domainCustomer.Customer, error)
	Search(ctx context.Context, query string, limit int) ([]domainCustomer.Customer, error)
}

// MeasurementStore interface for measurement queries.
type MeasurementStore interface {
	GetByID(ctx context.Context, id string) (domainMeasurement.Measurement, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domainMeasurement.Measurement, error)
}

// CategoryStore interface for category queries.
type CategoryStore interface {
	List(ctx context.Context, gender string) ([]domainCategory.Category, error)
}

// OrderStore interface for order and bill queries.
type OrderStore interface {
	Summary(ctx context.Context, customerID string) (order.Summary, error)
	ListBills(ctx context.Context, filter order.BillFilter) ([]order.Bill, error)
}

// AuditStore interface for history queries.
type AuditStore interface {
	List(ctx context.Context, filter audit.Filter, limit int) ([]domainAudit.Event, error)
}

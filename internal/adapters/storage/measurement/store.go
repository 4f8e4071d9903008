package measurement

import (
	"context"

	domain "tailorshop/internal/domain/measurement"
)

// Store persists customer measurements.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Measurement, error)
	Save(ctx context.Context, value domain.Measurement) error
	// Delete removes one measurement. A missing id is reported as a wrapped
	// sql.ErrNoRows.
	Delete(ctx context.Context, id string) error
	// ListByCustomer returns a customer's measurements, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Measurement, error)
}

package customer

import (
	"context"

	domain "tailorshop/internal/domain/customer"
)

// Store persists Customer state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Customer, error)
	GetByMobile(ctx context.Context, mobile string) (domain.Customer, error)
	Save(ctx context.Context, value domain.Customer) error
	Search(ctx context.Context, query string, limit int) ([]domain.Customer, error)
}

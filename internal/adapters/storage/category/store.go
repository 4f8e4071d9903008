package category

import (
	"context"

	domain "tailorshop/internal/domain/category"
)

// Store persists garment categories.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Category, error)
	Save(ctx context.Context, value domain.Category) error
	// List returns categories for gender, or all when gender is empty.
	List(ctx context.Context, gender string) ([]domain.Category, error)
	Count(ctx context.Context) (int, error)
}

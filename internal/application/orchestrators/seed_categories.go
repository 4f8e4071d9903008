package orchestrators

import (
	"context"
	"log/slog"

	"tailorshop/internal/domain/category"
)

// CategoryStoreForSeed defines the store interface needed by SeedCategories.
type CategoryStoreForSeed interface {
	Save(ctx context.Context, c category.Category) error
	Count(ctx context.Context) (int, error)
}

// SeedCategoriesDeps holds dependencies for SeedCategories.
type SeedCategoriesDeps struct {
	CategoryStore CategoryStoreForSeed
	GenerateID    func() string
}

// ExecuteSeedCategories installs the default garment categories into an
// empty shop.
// POST: Returns the number of categories created; zero when any already exist
func ExecuteSeedCategories(ctx context.Context, deps SeedCategoriesDeps) (int, error) {
	n, err := deps.CategoryStore.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	created := 0
	for _, c := range category.Defaults() {
		c.ID = deps.GenerateID()
		if err := c.Validate(); err != nil {
			return created, err
		}
		if err := deps.CategoryStore.Save(ctx, c); err != nil {
			return created, err
		}
		created++
	}

	slog.Info("category_event", "event", "categories_seeded", "count", created)
	return created, nil
}

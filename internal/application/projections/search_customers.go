package projections

import (
	"context"

	domainCategory "tailorshop/internal/domain/category"
	domainCustomer "tailorshop/internal/domain/customer"
)

// SearchCustomersQuery carries query parameters.
type SearchCustomersQuery struct {
	Search string
	Limit  int
}

// SearchCustomersDeps holds dependencies for SearchCustomers.
type SearchCustomersDeps struct {
	CustomerStore CustomerStore
}

// QuerySearchCustomers finds customers by name or mobile.
// POST: At most Limit results (20 when unset); never nil
func QuerySearchCustomers(ctx context.Context, query SearchCustomersQuery, deps SearchCustomersDeps) ([]domainCustomer.Customer, error) {
	limit := query.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}
	customers, err := deps.CustomerStore.Search(ctx, query.Search, limit)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []domainCustomer.Customer{}
	}
	return customers, nil
}

// ListCategoriesDeps holds dependencies for ListCategories.
type ListCategoriesDeps struct {
	CategoryStore CategoryStore
}

// QueryListCategories returns categories for a gender, or all of them.
func QueryListCategories(ctx context.Context, gender string, deps ListCategoriesDeps) ([]domainCategory.Category, error) {
	cats, err := deps.CategoryStore.List(ctx, gender)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []domainCategory.Category{}
	}
	return cats, nil
}

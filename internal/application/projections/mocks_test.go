package projections

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tailorshop/internal/adapters/storage/audit"
	"tailorshop/internal/adapters/storage/order"
	domainAudit "tailorshop/internal/domain/audit"
	domainCategory "tailorshop/internal/domain/category"
	domainCustomer "tailorshop/internal/domain/customer"
	domainMeasurement "tailorshop/internal/domain/measurement"
)

type mockCustomerStore struct {
	customers map[string]domainCustomer.Customer
}

// GetByID returns the seeded customer or a wrapped sql.ErrNoRows.
func (m *mockCustomerStore) GetByID(_ context.Context, id string) (domainCustomer.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return domainCustomer.Customer{}, fmt.Errorf("customer not found: %w", sql.ErrNoRows)
	}
	return c, nil
}

// Search matches on a name or mobile substring.
func (m *mockCustomerStore) Search(_ context.Context, query string, limit int) ([]domainCustomer.Customer, error) {
	var out []domainCustomer.Customer
	for _, c := range m.customers {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) || strings.Contains(c.Mobile, query) {
			out = append(out, c)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type mockMeasurementStore struct {
	byID       map[string]domainMeasurement.Measurement
	byCustomer map[string][]domainMeasurement.Measurement
}

// GetByID returns the seeded measurement or a wrapped sql.ErrNoRows.
func (m *mockMeasurementStore) GetByID(_ context.Context, id string) (domainMeasurement.Measurement, error) {
	v, ok := m.byID[id]
	if !ok {
		return domainMeasurement.Measurement{}, fmt.Errorf("measurement not found: %w", sql.ErrNoRows)
	}
	return v, nil
}

// ListByCustomer returns seeded measurements in seeded order.
func (m *mockMeasurementStore) ListByCustomer(_ context.Context, customerID string) ([]domainMeasurement.Measurement, error) {
	return m.byCustomer[customerID], nil
}

type mockCategoryStore struct {
	categories []domainCategory.Category
	err        error
}

// List filters the seeded categories by gender.
func (m *mockCategoryStore) List(_ context.Context, gender string) ([]domainCategory.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domainCategory.Category
	for _, c := range m.categories {
		if gender == "" || c.Gender == gender {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockOrderStore struct {
	summary    order.Summary
	bills      []order.Bill
	lastFilter order.BillFilter
	calls      int
}

// Summary returns the seeded summary.
func (m *mockOrderStore) Summary(_ context.Context, _ string) (order.Summary, error) {
	return m.summary, nil
}

// ListBills records the filter and returns seeded bills with a matching status.
func (m *mockOrderStore) ListBills(_ context.Context, filter order.BillFilter) ([]order.Bill, error) {
	m.calls++
	m.lastFilter = filter
	var out []order.Bill
	for _, b := range m.bills {
		if filter.Status == "" || b.Order.PaymentStatus == filter.Status {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockAuditStore struct {
	events    []domainAudit.Event
	lastLimit int
}

// List returns up to limit seeded events.
func (m *mockAuditStore) List(_ context.Context, _ audit.Filter, limit int) ([]domainAudit.Event, error) {
	m.lastLimit = limit
	if len(m.events) > limit {
		return m.events[:limit], nil
	}
	return m.events, nil
}

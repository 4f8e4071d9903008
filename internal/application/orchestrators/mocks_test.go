package orchestrators

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"tailorshop/internal/adapters/email"
	"tailorshop/internal/domain/account"
	"tailorshop/internal/domain/audit"
	"tailorshop/internal/domain/category"
	"tailorshop/internal/domain/customer"
	"tailorshop/internal/domain/measurement"
	"tailorshop/internal/domain/order"
)

var fixedNow = time.Date(2026, 3, 5, 11, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// --- accounts ---

type mockAccountStore struct {
	accounts map[string]account.Account
	saves    int
}

func newMockAccountStore(accts ...account.Account) *mockAccountStore {
	m := &mockAccountStore{accounts: map[string]account.Account{}}
	for _, a := range accts {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (account.Account, error) {
	for _, a := range m.accounts {
		if strings.EqualFold(a.Username, username) {
			return a, nil
		}
	}
	return account.Account{}, fmt.Errorf("account not found: %w", sql.ErrNoRows)
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.saves++
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

// --- audit ---

type mockAuditStore struct {
	events []audit.Event
}

func (m *mockAuditStore) Save(_ context.Context, e audit.Event) error {
	m.events = append(m.events, e)
	return nil
}

// --- customers ---

type mockCustomerStore struct {
	customers map[string]customer.Customer
}

func newMockCustomerStore(cs ...customer.Customer) *mockCustomerStore {
	m := &mockCustomerStore{customers: map[string]customer.Customer{}}
	for _, c := range cs {
		m.customers[c.ID] = c
	}
	return m
}

func (m *mockCustomerStore) GetByID(_ context.Context, id string) (customer.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return customer.Customer{}, fmt.Errorf("customer not found: %w", sql.ErrNoRows)
	}
	return c, nil
}

func (m *mockCustomerStore) GetByMobile(_ context.Context, mobile string) (customer.Customer, error) {
	for _, c := range m.customers {
		if c.Mobile == mobile {
			return c, nil
		}
	}
	return customer.Customer{}, fmt.Errorf("customer not found: %w", sql.ErrNoRows)
}

func (m *mockCustomerStore) Save(_ context.Context, c customer.Customer) error {
	m.customers[c.ID] = c
	return nil
}

// --- categories ---

type mockCategoryStore struct {
	categories map[string]category.Category
}

func newMockCategoryStore(cs ...category.Category) *mockCategoryStore {
	m := &mockCategoryStore{categories: map[string]category.Category{}}
	for _, c := range cs {
		m.categories[c.ID] = c
	}
	return m
}

func (m *mockCategoryStore) GetByID(_ context.Context, id string) (category.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return category.Category{}, fmt.Errorf("category not found: %w", sql.ErrNoRows)
	}
	return c, nil
}

func (m *mockCategoryStore) Save(_ context.Context, c category.Category) error {
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryStore) Count(_ context.Context) (int, error) {
	return len(m.categories), nil
}

// --- measurements ---

type mockMeasurementStore struct {
	measurements map[string]measurement.Measurement
	deleteErr    error
}

func newMockMeasurementStore(ms ...measurement.Measurement) *mockMeasurementStore {
	m := &mockMeasurementStore{measurements: map[string]measurement.Measurement{}}
	for _, x := range ms {
		m.measurements[x.ID] = x
	}
	return m
}

func (m *mockMeasurementStore) GetByID(_ context.Context, id string) (measurement.Measurement, error) {
	x, ok := m.measurements[id]
	if !ok {
		return measurement.Measurement{}, fmt.Errorf("measurement not found: %w", sql.ErrNoRows)
	}
	return x, nil
}

func (m *mockMeasurementStore) Save(_ context.Context, x measurement.Measurement) error {
	m.measurements[x.ID] = x
	return nil
}

func (m *mockMeasurementStore) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.measurements[id]; !ok {
		return fmt.Errorf("measurement not found: %w", sql.ErrNoRows)
	}
	delete(m.measurements, id)
	return nil
}

// --- orders ---

type mockOrderStore struct {
	orders map[string]order.Order
}

func newMockOrderStore(orders ...order.Order) *mockOrderStore {
	m := &mockOrderStore{orders: map[string]order.Order{}}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *mockOrderStore) GetByID(_ context.Context, id string) (order.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return order.Order{}, fmt.Errorf("order not found: %w", sql.ErrNoRows)
	}
	return o, nil
}

func (m *mockOrderStore) Save(_ context.Context, o order.Order) error {
	m.orders[o.ID] = o
	return nil
}

// --- email + metrics ---

type recordingSender struct {
	mu   sync.Mutex
	sent []email.SendRequest
	err  error
}

func (s *recordingSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return email.SendResult{}, s.err
	}
	s.sent = append(s.sent, req)
	return email.SendResult{MessageID: "msg-1", SentAt: fixedNow}, nil
}

type countingRecorder struct {
	deletes  map[string]int
	payments map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{deletes: map[string]int{}, payments: map[string]int{}}
}

func (c *countingRecorder) MeasurementDeleted(result string) { c.deletes[result]++ }
func (c *countingRecorder) PaymentRecorded(status string)    { c.payments[status]++ }

package web

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"tailorshop/internal/adapters/http/middleware"
	auditStore "tailorshop/internal/adapters/storage/audit"
	orderStore "tailorshop/internal/adapters/storage/order"
	accountDomain "tailorshop/internal/domain/account"
	auditDomain "tailorshop/internal/domain/audit"
	"tailorshop/internal/domain/billing"
	categoryDomain "tailorshop/internal/domain/category"
	customerDomain "tailorshop/internal/domain/customer"
	measurementDomain "tailorshop/internal/domain/measurement"
	orderDomain "tailorshop/internal/domain/order"
)

// --- Mock stores ---

type mockAccountStore struct {
	mu       sync.Mutex
	accounts map[string]accountDomain.Account
}

func (m *mockAccountStore) GetByID(ctx context.Context, id string) (accountDomain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) GetByUsername(ctx context.Context, username string) (accountDomain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) Save(ctx context.Context, a accountDomain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) List(ctx context.Context) ([]accountDomain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []accountDomain.Account
	for _, a := range m.accounts {
		list = append(list, a)
	}
	return list, nil
}

func (m *mockAccountStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts), nil
}

type mockAuditStore struct {
	mu     sync.Mutex
	events []auditDomain.Event
}

func (m *mockAuditStore) Save(ctx context.Context, e auditDomain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *mockAuditStore) List(ctx context.Context, filter auditStore.Filter, limit int) ([]auditDomain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []auditDomain.Event
	for i := len(m.events) - 1; i >= 0 && len(list) < limit; i-- {
		e := m.events[i]
		if filter.Entity != "" && e.Entity != filter.Entity {
			continue
		}
		if filter.EntityID != "" && e.EntityID != filter.EntityID {
			continue
		}
		list = append(list, e)
	}
	return list, nil
}

type mockCustomerStore struct {
	customers map[string]customerDomain.Customer
}

func (m *mockCustomerStore) GetByID(ctx context.Context, id string) (customerDomain.Customer, error) {
	if c, ok := m.customers[id]; ok {
		return c, nil
	}
	return customerDomain.Customer{}, fmt.Errorf("customer %s not found: %w", id, sql.ErrNoRows)
}

func (m *mockCustomerStore) GetByMobile(ctx context.Context, mobile string) (customerDomain.Customer, error) {
	for _, c := range m.customers {
		if c.Mobile == mobile {
			return c, nil
		}
	}
	return customerDomain.Customer{}, sql.ErrNoRows
}

func (m *mockCustomerStore) Save(ctx context.Context, c customerDomain.Customer) error {
	m.customers[c.ID] = c
	return nil
}

func (m *mockCustomerStore) Search(ctx context.Context, query string, limit int) ([]customerDomain.Customer, error) {
	var list []customerDomain.Customer
	for _, c := range m.customers {
		if query == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) || strings.Contains(c.Mobile, query) {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

type mockCategoryStore struct {
	categories map[string]categoryDomain.Category
}

func (m *mockCategoryStore) GetByID(ctx context.Context, id string) (categoryDomain.Category, error) {
	if c, ok := m.categories[id]; ok {
		return c, nil
	}
	return categoryDomain.Category{}, sql.ErrNoRows
}

func (m *mockCategoryStore) Save(ctx context.Context, c categoryDomain.Category) error {
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryStore) List(ctx context.Context, gender string) ([]categoryDomain.Category, error) {
	var list []categoryDomain.Category
	for _, c := range m.categories {
		if gender == "" || c.Gender == gender {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *mockCategoryStore) Count(ctx context.Context) (int, error) {
	return len(m.categories), nil
}

type mockMeasurementStore struct {
	measurements map[string]measurementDomain.Measurement
}

func (m *mockMeasurementStore) GetByID(ctx context.Context, id string) (measurementDomain.Measurement, error) {
	if v, ok := m.measurements[id]; ok {
		return v, nil
	}
	return measurementDomain.Measurement{}, fmt.Errorf("measurement %s not found: %w", id, sql.ErrNoRows)
}

func (m *mockMeasurementStore) Save(ctx context.Context, v measurementDomain.Measurement) error {
	m.measurements[v.ID] = v
	return nil
}

func (m *mockMeasurementStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.measurements[id]; !ok {
		return fmt.Errorf("measurement %s not found: %w", id, sql.ErrNoRows)
	}
	delete(m.measurements, id)
	return nil
}

func (m *mockMeasurementStore) ListByCustomer(ctx context.Context, customerID string) ([]measurementDomain.Measurement, error) {
	var list []measurementDomain.Measurement
	for _, v := range m.measurements {
		if v.CustomerID == customerID {
			list = append(list, v)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].TakenAt.After(list[j].TakenAt) })
	return list, nil
}

type mockOrderStore struct {
	orders map[string]orderDomain.Order
}

func (m *mockOrderStore) GetByID(ctx context.Context, id string) (orderDomain.Order, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return orderDomain.Order{}, fmt.Errorf("order %s not found: %w", id, sql.ErrNoRows)
}

func (m *mockOrderStore) Save(ctx context.Context, o orderDomain.Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderStore) ListByCustomer(ctx context.Context, customerID string) ([]orderDomain.Order, error) {
	var list []orderDomain.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			list = append(list, o)
		}
	}
	return list, nil
}

func (m *mockOrderStore) Summary(ctx context.Context, customerID string) (orderStore.Summary, error) {
	var s orderStore.Summary
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			s.TotalPending += o.Balance
			s.OrdersCount++
		}
	}
	return s, nil
}

func (m *mockOrderStore) ListBills(ctx context.Context, filter orderStore.BillFilter) ([]orderStore.Bill, error) {
	var list []orderStore.Bill
	for _, o := range m.orders {
		if o.CreatedAt.Before(filter.From) || !o.CreatedAt.Before(filter.To) {
			continue
		}
		if filter.Status != "" && o.PaymentStatus != filter.Status {
			continue
		}
		list = append(list, orderStore.Bill{Order: o, CustomerName: "Customer " + o.CustomerID})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Order.CreatedAt.After(list[j].Order.CreatedAt) })
	return list, nil
}

// --- Fixtures ---

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestStores() *Stores {
	return &Stores{
		AccountStore:     &mockAccountStore{accounts: make(map[string]accountDomain.Account)},
		AuditStore:       &mockAuditStore{},
		CustomerStore:    &mockCustomerStore{customers: make(map[string]customerDomain.Customer)},
		CategoryStore:    &mockCategoryStore{categories: make(map[string]categoryDomain.Category)},
		MeasurementStore: &mockMeasurementStore{measurements: make(map[string]measurementDomain.Measurement)},
		OrderStore:       &mockOrderStore{orders: make(map[string]orderDomain.Order)},
	}
}

// seedShop fills s with one customer, one category and one measurement.
func seedShop(s *Stores) {
	ctx := context.Background()
	s.CustomerStore.Save(ctx, customerDomain.Customer{ID: "c1", Name: "Ravi Patel", Mobile: "9876543210", Gender: "male", Email: "ravi@example.com"})
	s.CategoryStore.Save(ctx, categoryDomain.Category{ID: "cat-shirt", Name: "Shirt", Gender: "male", Fields: []string{"Length", "Chest"}})
	s.CategoryStore.Save(ctx, categoryDomain.Category{ID: "cat-blouse", Name: "Blouse", Gender: "female", Fields: []string{"Bust"}})
	s.MeasurementStore.Save(ctx, measurementDomain.Measurement{
		ID:         "m1",
		CustomerID: "c1",
		CategoryID: "cat-shirt",
		TakenAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Data: measurementDomain.FieldValues(
			measurementDomain.NumberField("Length", 30),
			measurementDomain.NumberField("Chest", 40),
		),
		Remarks: "slim fit",
	})
	s.OrderStore.Save(ctx, orderDomain.Order{
		ID: "o1", CustomerID: "c1", Items: []orderDomain.Item{{Name: "Shirt", Qty: 1, Cost: 800}},
		WorkStatus: orderDomain.WorkWorking, Total: 800, Advance: 300, Balance: 500,
		PaymentStatus: billing.StatusHalfPayment, CreatedAt: fixedNow,
	})
}

// setupTest installs fresh globals for a handler test.
func setupTest() *Stores {
	s := newTestStores()
	stores = s
	sessions = middleware.NewSessionStore()
	collector = nil
	emailSender = nil
	timeNow = func() time.Time { return fixedNow }
	return s
}

var staffSession = middleware.Session{
	AccountID: "staff-001",
	Username:  "staff",
	Role:      accountDomain.RoleStaff,
	CreatedAt: time.Now(),
}

var masterSession = middleware.Session{
	AccountID: "master-001",
	Username:  "owner",
	Role:      accountDomain.RoleMaster,
	CreatedAt: time.Now(),
}

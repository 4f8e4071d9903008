package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tailorshop/internal/adapters/storage"
	domain "tailorshop/internal/domain/order"
)

const orderColumns = "o.id, o.customer_id, o.items_json, o.start_date, o.delivery_date, o.work_status, o.payment_status, o.total, o.advance, o.balance, o.payment_mode, o.created_by, o.notes, o.created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new order store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Order by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Order, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders o WHERE o.id = ?", id)
	entity, err := scanOrder(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order not found: %w", err)
	}
	return entity, err
}

// Save persists an Order.
// PRE: entity has been validated and recalculated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Order) error {
	items, err := json.Marshal(entity.Items)
	if err != nil {
		return err
	}

	fields := []string{"id", "customer_id", "items_json", "start_date", "delivery_date", "work_status", "payment_status", "total", "advance", "balance", "payment_mode", "created_by", "notes", "created_at"}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", ")
	var updates []string
	for _, f := range fields {
		if f == "id" || f == "customer_id" || f == "created_at" {
			continue
		}
		updates = append(updates, f+"=excluded."+f)
	}

	query := fmt.Sprintf(
		"INSERT INTO orders (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		placeholders,
		strings.Join(updates, ", "),
	)

	_, err = s.db.ExecContext(ctx, query,
		entity.ID,
		entity.CustomerID,
		string(items),
		entity.StartDate,
		entity.DeliveryDate,
		entity.WorkStatus,
		entity.PaymentStatus,
		entity.Total,
		entity.Advance,
		entity.Balance,
		entity.PaymentMode,
		entity.CreatedBy,
		entity.Notes,
		storage.FormatTime(entity.CreatedAt),
	)
	return err
}

// ListByCustomer returns a customer's orders, newest first.
func (s *SQLiteStore) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders o WHERE o.customer_id = ? ORDER BY o.created_at DESC", customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Order
	for rows.Next() {
		entity, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Summary returns the summed balance and order count for a customer.
func (s *SQLiteStore) Summary(ctx context.Context, customerID string) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(balance), 0), COUNT(*) FROM orders WHERE customer_id = ?", customerID,
	).Scan(&sum.TotalPending, &sum.OrdersCount)
	return sum, err
}

// ListBills returns bills in the filter window, newest first.
// PRE: filter.From is before filter.To
func (s *SQLiteStore) ListBills(ctx context.Context, filter BillFilter) ([]Bill, error) {
	var b strings.Builder
	args := []any{storage.FormatTime(filter.From), storage.FormatTime(filter.To)}

	b.WriteString("SELECT " + orderColumns + ", c.name, c.mobile FROM orders o JOIN customer c ON c.id = o.customer_id")
	b.WriteString(" WHERE o.created_at >= ? AND o.created_at < ?")
	if filter.Status != "" {
		b.WriteString(" AND o.payment_status = ?")
		args = append(args, filter.Status)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		b.WriteString(" AND (c.name LIKE ? OR c.mobile LIKE ?)")
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern)
	}
	b.WriteString(" ORDER BY o.created_at DESC")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Bill
	for rows.Next() {
		var bill Bill
		o, err := scanOrder(func(dest ...any) error {
			return rows.Scan(append(dest, &bill.CustomerName, &bill.CustomerMobile)...)
		})
		if err != nil {
			return nil, err
		}
		bill.Order = o
		results = append(results, bill)
	}
	return results, rows.Err()
}

func scanOrder(scan func(dest ...any) error) (domain.Order, error) {
	var o domain.Order
	var items, createdAt string
	err := scan(
		&o.ID, &o.CustomerID, &items, &o.StartDate, &o.DeliveryDate,
		&o.WorkStatus, &o.PaymentStatus, &o.Total, &o.Advance, &o.Balance,
		&o.PaymentMode, &o.CreatedBy, &o.Notes, &createdAt,
	)
	if err != nil {
		return domain.Order{}, err
	}
	o.CreatedAt, _ = storage.ParseTime(createdAt)
	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return domain.Order{}, fmt.Errorf("order %s items: %w", o.ID, err)
	}
	return o, nil
}

package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tailorshop/internal/adapters/storage"
	domain "tailorshop/internal/domain/customer"
)

const selectColumns = "SELECT id, name, mobile, gender, email, city, area, notes, created_at, last_visit FROM customer"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new customer store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Customer by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	entity, err := scanCustomer(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, fmt.Errorf("customer not found: %w", err)
	}
	return entity, err
}

// GetByMobile retrieves a Customer by mobile number.
// PRE: mobile is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByMobile(ctx context.Context, mobile string) (domain.Customer, error) {
	entity, err := scanCustomer(s.db.QueryRowContext(ctx, selectColumns+" WHERE mobile = ?", mobile).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, fmt.Errorf("customer not found: %w", err)
	}
	return entity, err
}

// Save persists a Customer to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Customer) error {
	fields := []string{"id", "name", "mobile", "gender", "email", "city", "area", "notes", "created_at", "last_visit"}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", ")
	updates := []string{
		"name=excluded.name",
		"mobile=excluded.mobile",
		"gender=excluded.gender",
		"email=excluded.email",
		"city=excluded.city",
		"area=excluded.area",
		"notes=excluded.notes",
		"last_visit=excluded.last_visit",
	}

	query := fmt.Sprintf(
		"INSERT INTO customer (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		placeholders,
		strings.Join(updates, ", "),
	)

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Mobile,
		entity.Gender,
		entity.Email,
		entity.City,
		entity.Area,
		entity.Notes,
		storage.FormatTime(entity.CreatedAt),
		storage.FormatTime(entity.LastVisit),
	)
	return err
}

// Search finds customers whose name or mobile contains query, most recent
// visitors first. An empty query lists the most recent visitors.
// PRE: limit > 0
func (s *SQLiteStore) Search(ctx context.Context, query string, limit int) ([]domain.Customer, error) {
	q := selectColumns
	var args []any
	if query = strings.TrimSpace(query); query != "" {
		q += " WHERE name LIKE ? OR mobile LIKE ?"
		pattern := "%" + query + "%"
		args = append(args, pattern, pattern)
	}
	q += " ORDER BY last_visit DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Customer
	for rows.Next() {
		entity, err := scanCustomer(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanCustomer(scan func(dest ...any) error) (domain.Customer, error) {
	var c domain.Customer
	var createdAt, lastVisit string
	if err := scan(&c.ID, &c.Name, &c.Mobile, &c.Gender, &c.Email, &c.City, &c.Area, &c.Notes, &createdAt, &lastVisit); err != nil {
		return domain.Customer{}, err
	}
	c.CreatedAt, _ = storage.ParseTime(createdAt)
	c.LastVisit, _ = storage.ParseTime(lastVisit)
	return c, nil
}

package category

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tailorshop/internal/adapters/storage"
	domain "tailorshop/internal/domain/category"
)

const selectColumns = "SELECT id, name, gender, is_custom, fields_json FROM category"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new category store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Category by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Category, error) {
	entity, err := scanCategory(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, fmt.Errorf("category not found: %w", err)
	}
	return entity, err
}

// Save persists a Category to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Category) error {
	fieldsJSON, err := json.Marshal(entity.Fields)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO category (id, name, gender, is_custom, fields_json) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, gender=excluded.gender, is_custom=excluded.is_custom, fields_json=excluded.fields_json`,
		entity.ID, entity.Name, entity.Gender, entity.IsCustom, string(fieldsJSON))
	return err
}

// List returns categories ordered by name.
func (s *SQLiteStore) List(ctx context.Context, gender string) ([]domain.Category, error) {
	q := selectColumns
	var args []any
	if gender = strings.ToLower(strings.TrimSpace(gender)); gender != "" {
		q += " WHERE gender = ?"
		args = append(args, gender)
	}
	q += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Category
	for rows.Next() {
		entity, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of categories.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM category").Scan(&n)
	return n, err
}

func scanCategory(scan func(dest ...any) error) (domain.Category, error) {
	var c domain.Category
	var fieldsJSON string
	if err := scan(&c.ID, &c.Name, &c.Gender, &c.IsCustom, &fieldsJSON); err != nil {
		return domain.Category{}, err
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &c.Fields); err != nil {
		return domain.Category{}, fmt.Errorf("category %s fields: %w", c.ID, err)
	}
	return c, nil
}

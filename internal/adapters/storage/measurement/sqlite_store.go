package measurement

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tailorshop/internal/adapters/storage"
	domain "tailorshop/internal/domain/measurement"
)

const selectColumns = "SELECT id, customer_id, category_id, taken_at, data_json, remarks FROM measurement"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new measurement store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Measurement by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Measurement, error) {
	entity, err := scanMeasurement(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Measurement{}, fmt.Errorf("measurement not found: %w", err)
	}
	return entity, err
}

// Save persists a Measurement.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); data keeps its key order
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Measurement) error {
	data, err := json.Marshal(entity.Data)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO measurement (id, customer_id, category_id, taken_at, data_json, remarks) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET category_id=excluded.category_id, data_json=excluded.data_json, remarks=excluded.remarks`,
		entity.ID, entity.CustomerID, entity.CategoryID, storage.FormatTime(entity.TakenAt), string(data), entity.Remarks)
	return err
}

// Delete removes a Measurement by ID.
// PRE: id is non-empty
// POST: Row removed, or a wrapped sql.ErrNoRows when nothing matched
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM measurement WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("measurement not found: %w", sql.ErrNoRows)
	}
	return nil
}

// ListByCustomer returns a customer's measurements, newest first.
func (s *SQLiteStore) ListByCustomer(ctx context.Context, customerID string) ([]domain.Measurement, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE customer_id = ? ORDER BY taken_at DESC, id", customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Measurement
	for rows.Next() {
		entity, err := scanMeasurement(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanMeasurement(scan func(dest ...any) error) (domain.Measurement, error) {
	var m domain.Measurement
	var takenAt, data string
	if err := scan(&m.ID, &m.CustomerID, &m.CategoryID, &takenAt, &data, &m.Remarks); err != nil {
		return domain.Measurement{}, err
	}
	m.TakenAt, _ = storage.ParseTime(takenAt)
	if err := json.Unmarshal([]byte(data), &m.Data); err != nil {
		return domain.Measurement{}, fmt.Errorf("measurement %s data: %w", m.ID, err)
	}
	return m, nil
}

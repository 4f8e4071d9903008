package audit

import (
	"context"

	"tailorshop/internal/adapters/storage"
	domain "tailorshop/internal/domain/audit"
)

// SQLiteStore implements the audit Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an audit event.
func (s *SQLiteStore) Save(ctx context.Context, event domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_event (id, timestamp, actor_id, actor_name, action, entity, entity_id, details)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, storage.FormatTime(event.Timestamp), event.ActorID, event.ActorName,
		string(event.Action), string(event.Entity), event.EntityID, event.Details)
	return err
}

// List returns audit events with optional filtering.
// PRE: limit > 0
// POST: Returns events ordered by timestamp desc
func (s *SQLiteStore) List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error) {
	query := `SELECT id, timestamp, actor_id, actor_name, action, entity, entity_id, details FROM audit_event WHERE 1=1`
	args := []any{}

	if filter.Entity != "" {
		query += " AND entity = ?"
		args = append(args, string(filter.Entity))
	}
	if filter.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filter.EntityID)
	}
	if filter.ActorID != "" {
		query += " AND actor_id = ?"
		args = append(args, filter.ActorID)
	}

	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var timestamp string
		if err := rows.Scan(&e.ID, &timestamp, &e.ActorID, &e.ActorName, &e.Action, &e.Entity, &e.EntityID, &e.Details); err != nil {
			return nil, err
		}
		e.Timestamp, _ = storage.ParseTime(timestamp)
		events = append(events, e)
	}
	return events, rows.Err()
}

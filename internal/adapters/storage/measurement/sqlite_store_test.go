package measurement

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"tailorshop/internal/adapters/storage"
	domain "tailorshop/internal/domain/measurement"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}
	if _, err := db.Exec("INSERT INTO customer (id, name, mobile, created_at, last_visit) VALUES ('c1', 'Asha', '9000', '2026-01-01 10:00:00', '2026-01-01 10:00:00')"); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestSQLiteStore_KeepsKeyOrder verifies data comes back in the order it was saved.
func TestSQLiteStore_KeepsKeyOrder(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	m := domain.Measurement{
		ID:         "m1",
		CustomerID: "c1",
		CategoryID: "k1",
		TakenAt:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Data: domain.FieldValues(
			domain.NumberField("Waist", 32),
			domain.NumberField("Chest", 40),
			domain.StringField("Fit", "slim"),
		),
		Remarks: "double stitch",
	}
	if err := store.Save(ctx, m); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByID(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	fields := got.Data.Fields()
	if len(fields) != 3 || fields[0].Name != "Waist" || fields[1].Name != "Chest" || fields[2].Text() != "slim" {
		t.Errorf("fields = %+v", fields)
	}
	if got.Remarks != "double stitch" {
		t.Errorf("Remarks = %q", got.Remarks)
	}
}

// TestSQLiteStore_ListNewestFirst verifies listing order.
func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new"} {
		m := domain.Measurement{
			ID: id, CustomerID: "c1", CategoryID: "k1",
			TakenAt: base.AddDate(0, 0, i),
			Data:    domain.FieldValues(domain.NumberField("Length", 28)),
		}
		if err := store.Save(ctx, m); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	list, err := store.ListByCustomer(ctx, "c1")
	if err != nil {
		t.Fatalf("ListByCustomer: %v", err)
	}
	if len(list) != 2 || list[0].ID != "new" {
		t.Errorf("list = %+v", list)
	}
}

// TestSQLiteStore_Delete covers deleting present and missing rows.
func TestSQLiteStore_Delete(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	m := domain.Measurement{ID: "m1", CustomerID: "c1", CategoryID: "k1", TakenAt: time.Now(), Data: domain.FieldValues(domain.NumberField("Length", 1))}
	if err := store.Save(ctx, m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "m1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "m1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("second Delete err = %v, want sql.ErrNoRows", err)
	}
	if _, err := store.GetByID(ctx, "m1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByID after delete err = %v", err)
	}
}

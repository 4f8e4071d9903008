package account

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"tailorshop/internal/adapters/storage"
	domain "tailorshop/internal/domain/account"
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
	t.Cleanup(func() { db.Close() })
	return db
}

// TestSQLiteStore_SaveAndGet verifies round-tripping an account.
func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	acct := domain.Account{
		ID:           "a1",
		Username:     "Ravi",
		PasswordHash: "hash",
		Role:         domain.RoleMaster,
		CreatedAt:    created,
	}
	if err := store.Save(ctx, acct); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByUsername(ctx, "ravi")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != "a1" || got.Role != domain.RoleMaster || !got.CreatedAt.Equal(created) {
		t.Errorf("got %+v", got)
	}
	if !got.LockedUntil.IsZero() {
		t.Errorf("LockedUntil = %v, want zero", got.LockedUntil)
	}
}

// TestSQLiteStore_UpdateLockout verifies the upsert keeps lockout state.
func TestSQLiteStore_UpdateLockout(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	ctx := context.Background()

	acct := domain.Account{ID: "a1", Username: "staff1", Role: domain.RoleStaff, CreatedAt: time.Now()}
	if err := store.Save(ctx, acct); err != nil {
		t.Fatalf("Save: %v", err)
	}
	lock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	acct.FailedLogins = 5
	acct.LockedUntil = lock
	if err := store.Save(ctx, acct); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	got, err := store.GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FailedLogins != 5 || !got.LockedUntil.Equal(lock) {
		t.Errorf("got FailedLogins=%d LockedUntil=%v", got.FailedLogins, got.LockedUntil)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

// TestSQLiteStore_NotFound verifies ErrNoRows is wrapped.
func TestSQLiteStore_NotFound(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t))
	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want wrapped sql.ErrNoRows", err)
	}
}

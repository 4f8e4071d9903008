package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"tailorshop/internal/domain/audit"
)

// Actor identifies the signed-in operator behind a change.
type Actor struct {
	ID   string
	Name string
}

// AuditStoreForOrchestrator is the audit persistence orchestrators write to.
type AuditStoreForOrchestrator interface {
	Save(ctx context.Context, event audit.Event) error
}

// recordAudit writes a history event. A nil store or a failed write is
// logged and otherwise ignored; the change itself has already happened.
func recordAudit(ctx context.Context, store AuditStoreForOrchestrator, now time.Time, actor Actor, action audit.Action, entity audit.Entity, entityID, details string) {
	if store == nil {
		return
	}
	event := audit.NewEvent(actor.ID, actor.Name, action, entity, entityID, details, now)
	if err := store.Save(ctx, event); err != nil {
		slog.Error("audit_write_failed", "entity", entity, "entity_id", entityID, "error", err)
	}
}

func nowOr(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

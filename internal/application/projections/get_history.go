package projections

import (
	"context"

	"tailorshop/internal/adapters/storage/audit"
	domainAudit "tailorshop/internal/domain/audit"
)

// DefaultHistoryLimit caps the history list when no limit is given.
const DefaultHistoryLimit = 100

// GetHistoryQuery carries query parameters.
type GetHistoryQuery struct {
	Entity   domainAudit.Entity
	EntityID string
	Limit    int
}

// GetHistoryDeps holds dependencies for GetHistory.
type GetHistoryDeps struct {
	AuditStore AuditStore
}

// QueryGetHistory returns recent shop history, newest first.
// POST: Limit outside 1..500 falls back to DefaultHistoryLimit
func QueryGetHistory(ctx context.Context, query GetHistoryQuery, deps GetHistoryDeps) ([]domainAudit.Event, error) {
	limit := query.Limit
	if limit < 1 || limit > 500 {
		limit = DefaultHistoryLimit
	}
	events, err := deps.AuditStore.List(ctx, audit.Filter{Entity: query.Entity, EntityID: query.EntityID}, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domainAudit.Event{}
	}
	return events, nil
}

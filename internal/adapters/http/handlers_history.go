package web

import (
	"net/http"
	"strconv"

	"tailorshop/internal/application/projections"
	"tailorshop/internal/domain/audit"
)

// handleHistory handles GET /api/history?entity=&entity_id=&limit=
// Master only; the route is wrapped in RequireRole.
func handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	events, err := projections.QueryGetHistory(r.Context(), projections.GetHistoryQuery{
		Entity:   audit.Entity(q.Get("entity")),
		EntityID: q.Get("entity_id"),
		Limit:    limit,
	}, projections.GetHistoryDeps{AuditStore: stores.AuditStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

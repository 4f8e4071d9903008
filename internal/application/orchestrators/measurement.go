package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"tailorshop/internal/domain/audit"
	"tailorshop/internal/domain/category"
	"tailorshop/internal/domain/customer"
	"tailorshop/internal/domain/measurement"
	"tailorshop/internal/metrics"
)

// MeasurementStoreForOrchestrator defines the store interface needed by measurement orchestrators.
type MeasurementStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (measurement.Measurement, error)
	Save(ctx context.Context, m measurement.Measurement) error
	Delete(ctx context.Context, id string) error
}

// CustomerStoreForMeasurement reads and touches the owning customer.
type CustomerStoreForMeasurement interface {
	GetByID(ctx context.Context, id string) (customer.Customer, error)
	Save(ctx context.Context, c customer.Customer) error
}

// CategoryStoreForMeasurement resolves the garment category.
type CategoryStoreForMeasurement interface {
	GetByID(ctx context.Context, id string) (category.Category, error)
}

// DeleteRecorder counts measurement deletes by result.
type DeleteRecorder interface {
	MeasurementDeleted(result string)
}

// --- Create Measurement ---

// CreateMeasurementInput carries a new measurement set.
type CreateMeasurementInput struct {
	CustomerID string
	CategoryID string
	Data       measurement.Values
	Remarks    string
	Actor      Actor
}

// CreateMeasurementDeps holds dependencies for CreateMeasurement.
type CreateMeasurementDeps struct {
	MeasurementStore MeasurementStoreForOrchestrator
	CustomerStore    CustomerStoreForMeasurement
	CategoryStore    CategoryStoreForMeasurement
	AuditStore       AuditStoreForOrchestrator
	GenerateID       func() string
	Now              func() time.Time
}

// ExecuteCreateMeasurement stores a measurement for an existing customer.
// PRE: customer and category exist; Data has at least one value
// POST: Measurement persisted, customer's LastVisit moved to now, history written
func ExecuteCreateMeasurement(ctx context.Context, input CreateMeasurementInput, deps CreateMeasurementDeps) (measurement.Measurement, error) {
	now := nowOr(deps.Now)

	cust, err := deps.CustomerStore.GetByID(ctx, input.CustomerID)
	if err != nil {
		return measurement.Measurement{}, err
	}
	cat, err := deps.CategoryStore.GetByID(ctx, input.CategoryID)
	if err != nil {
		return measurement.Measurement{}, err
	}

	m := measurement.Measurement{
		ID:         deps.GenerateID(),
		CustomerID: cust.ID,
		CategoryID: cat.ID,
		TakenAt:    now,
		Data:       dropBlankFields(input.Data),
		Remarks:    strings.TrimSpace(input.Remarks),
	}
	if err := m.Validate(); err != nil {
		return measurement.Measurement{}, err
	}
	if err := deps.MeasurementStore.Save(ctx, m); err != nil {
		return measurement.Measurement{}, err
	}

	cust.LastVisit = now
	if err := deps.CustomerStore.Save(ctx, cust); err != nil {
		slog.Warn("customer_event", "event", "last_visit_not_saved", "customer_id", cust.ID, "error", err)
	}

	slog.Info("measurement_event", "event", "measurement_created", "measurement_id", m.ID, "customer_id", cust.ID, "category", cat.Name)
	recordAudit(ctx, deps.AuditStore, now, input.Actor, audit.ActionCreate, audit.EntityMeasurement, m.ID, cat.Name+" for "+cust.Name)
	return m, nil
}

// dropBlankFields removes fields whose value is an empty string or null.
func dropBlankFields(v measurement.Values) measurement.Values {
	if !v.IsObject() {
		return v
	}
	var kept []measurement.Field
	for _, f := range v.Fields() {
		raw := strings.TrimSpace(string(f.Raw))
		if raw == "" || raw == "null" || raw == `""` {
			continue
		}
		kept = append(kept, f)
	}
	return measurement.FieldValues(kept...)
}

// --- Delete Measurement ---

// DeleteMeasurementInput identifies the measurement to remove.
type DeleteMeasurementInput struct {
	MeasurementID string
	Actor         Actor
}

// DeleteMeasurementDeps holds dependencies for DeleteMeasurement.
type DeleteMeasurementDeps struct {
	MeasurementStore MeasurementStoreForOrchestrator
	AuditStore       AuditStoreForOrchestrator
	Metrics          DeleteRecorder
	Now              func() time.Time
}

var ErrMeasurementNotFound = errors.New("measurement not found")

// ExecuteDeleteMeasurement removes a measurement permanently.
// PRE: MeasurementID non-empty
// POST: Measurement gone and a Delete history event written; returns
// ErrMeasurementNotFound when the id is unknown
func ExecuteDeleteMeasurement(ctx context.Context, input DeleteMeasurementInput, deps DeleteMeasurementDeps) (measurement.Measurement, error) {
	record := func(result string) {
		if deps.Metrics != nil {
			deps.Metrics.MeasurementDeleted(result)
		}
	}

	m, err := deps.MeasurementStore.GetByID(ctx, input.MeasurementID)
	if errors.Is(err, sql.ErrNoRows) {
		record(metrics.ResultNotFound)
		return measurement.Measurement{}, ErrMeasurementNotFound
	}
	if err != nil {
		record(metrics.ResultError)
		return measurement.Measurement{}, err
	}

	if err := deps.MeasurementStore.Delete(ctx, m.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			record(metrics.ResultNotFound)
			return measurement.Measurement{}, ErrMeasurementNotFound
		}
		record(metrics.ResultError)
		return measurement.Measurement{}, err
	}
	record(metrics.ResultDeleted)

	slog.Info("measurement_event", "event", "measurement_deleted", "measurement_id", m.ID, "customer_id", m.CustomerID, "actor", input.Actor.Name)
	recordAudit(ctx, deps.AuditStore, nowOr(deps.Now), input.Actor, audit.ActionDelete, audit.EntityMeasurement, m.ID, "Deleted measurement of customer "+m.CustomerID)
	return m, nil
}

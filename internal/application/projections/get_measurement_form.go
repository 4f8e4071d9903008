package projections

import (
	"context"
	"log/slog"

	domainCategory "tailorshop/internal/domain/category"
	domainMeasurement "tailorshop/internal/domain/measurement"
)

// GetMeasurementFormQuery carries query parameters.
type GetMeasurementFormQuery struct {
	CustomerID string
	ReuseID    string // optional measurement to prefill from
}

// MeasurementPrefill is the data copied from an earlier measurement.
type MeasurementPrefill struct {
	MeasurementID string
	CategoryID    string
	Data          domainMeasurement.Values
	Remarks       string
}

// GetMeasurementFormResult carries what the new-measurement form needs.
type GetMeasurementFormResult struct {
	CustomerID   string
	CustomerName string
	Gender       string
	Categories   []domainCategory.Category
	Reuse        *MeasurementPrefill
}

// GetMeasurementFormDeps holds dependencies for GetMeasurementForm.
type GetMeasurementFormDeps struct {
	CustomerStore    CustomerStore
	MeasurementStore MeasurementStore
	CategoryStore    CategoryStore
}

// QueryGetMeasurementForm loads the categories for the customer's gender
// and, when ReuseID names a measurement, its data for prefilling.
// PRE: Valid customer ID
// POST: An unknown ReuseID leaves Reuse nil rather than failing
func QueryGetMeasurementForm(ctx context.Context, query GetMeasurementFormQuery, deps GetMeasurementFormDeps) (GetMeasurementFormResult, error) {
	c, err := deps.CustomerStore.GetByID(ctx, query.CustomerID)
	if err != nil {
		return GetMeasurementFormResult{}, err
	}

	cats, err := deps.CategoryStore.List(ctx, c.Gender)
	if err != nil {
		return GetMeasurementFormResult{}, err
	}

	result := GetMeasurementFormResult{
		CustomerID:   c.ID,
		CustomerName: c.Name,
		Gender:       c.Gender,
		Categories:   cats,
	}

	if query.ReuseID != "" {
		m, err := deps.MeasurementStore.GetByID(ctx, query.ReuseID)
		if err != nil {
			slog.Info("measurement_event", "event", "reuse_not_found", "reuse_id", query.ReuseID)
		} else {
			result.Reuse = &MeasurementPrefill{
				MeasurementID: m.ID,
				CategoryID:    m.CategoryID,
				Data:          m.Data,
				Remarks:       m.Remarks,
			}
		}
	}

	return result, nil
}

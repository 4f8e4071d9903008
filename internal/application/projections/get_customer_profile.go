package projections

import (
	"context"
	"log/slog"

	domainCustomer "tailorshop/internal/domain/customer"
	domainMeasurement "tailorshop/internal/domain/measurement"
)

// UnknownCategory labels a measurement whose category no longer exists.
const UnknownCategory = "Unknown"

// GetCustomerProfileQuery carries query parameters.
type GetCustomerProfileQuery struct {
	CustomerID string
}

// ProfileMeasurement is one measurement card on the profile.
type ProfileMeasurement struct {
	ID       string
	Category string
	Date     string // DD-Mon-YYYY
	Remarks  string
	Data     domainMeasurement.Values
}

// GetCustomerProfileResult carries the query result.
type GetCustomerProfileResult struct {
	ID           string
	Name         string
	Mobile       string
	Gender       string
	Email        string
	City         string
	Area         string
	TotalPending float64
	OrdersCount  int
	Measurements []ProfileMeasurement
}

// GetCustomerProfileDeps holds dependencies for GetCustomerProfile.
type GetCustomerProfileDeps struct {
	CustomerStore    CustomerStore
	MeasurementStore MeasurementStore
	CategoryStore    CategoryStore
	OrderStore       OrderStore
}

// QueryGetCustomerProfile assembles the customer sidebar data.
// PRE: Valid customer ID
// POST: Returns identity, pending balance summed over all orders, order
// count and measurements newest first; a missing customer is a wrapped
// sql.ErrNoRows from the store
// INVARIANT: Measurements is non-nil so it always serialises as a list
func QueryGetCustomerProfile(ctx context.Context, query GetCustomerProfileQuery, deps GetCustomerProfileDeps) (GetCustomerProfileResult, error) {
	c, err := deps.CustomerStore.GetByID(ctx, query.CustomerID)
	if err != nil {
		return GetCustomerProfileResult{}, err
	}

	result := GetCustomerProfileResult{
		ID:           c.ID,
		Name:         c.Name,
		Mobile:       c.Mobile,
		Gender:       displayGender(c),
		Email:        c.Email,
		City:         c.City,
		Area:         c.Area,
		Measurements: []ProfileMeasurement{},
	}

	summary, err := deps.OrderStore.Summary(ctx, c.ID)
	if err != nil {
		return GetCustomerProfileResult{}, err
	}
	result.TotalPending = summary.TotalPending
	result.OrdersCount = summary.OrdersCount

	measurements, err := deps.MeasurementStore.ListByCustomer(ctx, c.ID)
	if err != nil {
		return GetCustomerProfileResult{}, err
	}

	names := map[string]string{}
	if cats, err := deps.CategoryStore.List(ctx, ""); err == nil {
		for _, cat := range cats {
			names[cat.ID] = cat.Name
		}
	} else {
		slog.Warn("profile_categories_unavailable", "customer_id", c.ID, "error", err)
	}

	for _, m := range measurements {
		name, ok := names[m.CategoryID]
		if !ok {
			name = UnknownCategory
		}
		result.Measurements = append(result.Measurements, ProfileMeasurement{
			ID:       m.ID,
			Category: name,
			Date:     m.DateLabel(),
			Remarks:  m.Remarks,
			Data:     m.Data,
		})
	}

	return result, nil
}

func displayGender(c domainCustomer.Customer) string {
	if c.Gender == "" {
		return ""
	}
	return c.DisplayGender()
}

package measurement

import (
	"errors"
	"time"
)

// DateLayout is how a measurement date is shown and sent to clients.
const DateLayout = "02-Jan-2006"

// MaxRemarksLength bounds the free-text remarks.
const MaxRemarksLength = 1000

// Domain errors
var (
	ErrEmptyCustomerID = errors.New("measurement needs a customer")
	ErrEmptyCategoryID = errors.New("measurement needs a category")
	ErrNoValues        = errors.New("measurement has no values")
	ErrRemarksTooLong  = errors.New("remarks cannot exceed 1000 characters")
)

// Measurement is one set of body measurements taken for a customer.
type Measurement struct {
	ID         string
	CustomerID string
	CategoryID string
	TakenAt    time.Time
	Data       Values
	Remarks    string
}

// Validate checks if the Measurement has valid data.
// PRE: Measurement struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m *Measurement) Validate() error {
	if m.CustomerID == "" {
		return ErrEmptyCustomerID
	}
	if m.CategoryID == "" {
		return ErrEmptyCategoryID
	}
	if m.Data.IsEmpty() {
		return ErrNoValues
	}
	if len(m.Remarks) > MaxRemarksLength {
		return ErrRemarksTooLong
	}
	return nil
}

// DateLabel returns TakenAt formatted with DateLayout.
func (m *Measurement) DateLabel() string {
	return m.TakenAt.Format(DateLayout)
}

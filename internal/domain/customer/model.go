package customer

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength   = 100
	MaxMobileLength = 20
)

// Gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Domain errors
var (
	ErrEmptyName     = errors.New("customer name cannot be empty")
	ErrNameTooLong   = errors.New("customer name cannot exceed 100 characters")
	ErrEmptyMobile   = errors.New("customer mobile cannot be empty")
	ErrMobileTooLong = errors.New("customer mobile cannot exceed 20 characters")
	ErrInvalidGender = errors.New("gender must be 'male' or 'female'")
	ErrInvalidEmail  = errors.New("customer email must contain '@'")
)

// Customer is a person the shop stitches for.
type Customer struct {
	ID        string
	Name      string
	Mobile    string
	Gender    string
	Email     string
	City      string
	Area      string
	Notes     string
	CreatedAt time.Time
	LastVisit time.Time
}

// Validate checks if the Customer has valid data.
// PRE: Customer struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name and Mobile are non-empty; Gender is empty or a known value
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if strings.TrimSpace(c.Mobile) == "" {
		return ErrEmptyMobile
	}
	if len(c.Mobile) > MaxMobileLength {
		return ErrMobileTooLong
	}
	if c.Gender != "" && c.Gender != GenderMale && c.Gender != GenderFemale {
		return ErrInvalidGender
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// DisplayGender returns the gender capitalised for display, or "-" when unknown.
func (c *Customer) DisplayGender() string {
	if c.Gender == "" {
		return "-"
	}
	return strings.ToUpper(c.Gender[:1]) + c.Gender[1:]
}

// NormalizeGender lowercases and trims a gender value from a form.
func NormalizeGender(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}

package customer_test

import (
	"testing"

	"tailorshop/internal/domain/customer"
)

// TestCustomerValidate tests validation of Customer.
func TestCustomerValidate(t *testing.T) {
	tests := []struct {
		name    string
		cust    customer.Customer
		wantErr error
	}{
		{"valid", customer.Customer{Name: "Ravi Patel", Mobile: "9876543210", Gender: customer.GenderMale}, nil},
		{"valid without gender", customer.Customer{Name: "Ravi", Mobile: "1"}, nil},
		{"empty name", customer.Customer{Name: " ", Mobile: "1"}, customer.ErrEmptyName},
		{"empty mobile", customer.Customer{Name: "Ravi"}, customer.ErrEmptyMobile},
		{"bad gender", customer.Customer{Name: "Ravi", Mobile: "1", Gender: "other"}, customer.ErrInvalidGender},
		{"bad email", customer.Customer{Name: "Ravi", Mobile: "1", Email: "ravi"}, customer.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cust.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestDisplayGender tests capitalisation of the gender label.
func TestDisplayGender(t *testing.T) {
	c := customer.Customer{Gender: customer.GenderFemale}
	if got := c.DisplayGender(); got != "Female" {
		t.Errorf("DisplayGender() = %q, want Female", got)
	}
	c.Gender = ""
	if got := c.DisplayGender(); got != "-" {
		t.Errorf("DisplayGender() = %q, want -", got)
	}
}

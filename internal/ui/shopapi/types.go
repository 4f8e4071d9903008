// Package shopapi is the typed client for the shop server's HTTP contract.
// The wire types are shared with the server so both sides agree on shape.
package shopapi

import (
	"tailorshop/internal/application/listutil"
	"tailorshop/internal/domain/measurement"
)

// CSRFHeader is the request header carrying the CSRF token on writes.
const CSRFHeader = "X-CSRFToken"

// TokenHeader is the response header the server uses to hand out a token.
const TokenHeader = "X-CSRF-Token"

// CSRFField is the form field name for the CSRF token.
const CSRFField = "csrf_token"

// CustomerProfile is the body of GET /api/customer/{id}.
type CustomerProfile struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Mobile       string            `json:"mobile"`
	Gender       string            `json:"gender"`
	TotalPending float64           `json:"total_pending"`
	OrdersCount  int               `json:"orders_count"`
	Measurements []MeasurementCard `json:"measurements"`
}

// MeasurementCard is one saved measurement inside a profile.
type MeasurementCard struct {
	ID       string             `json:"id"`
	Category string             `json:"category"`
	Date     string             `json:"date"`
	Remarks  string             `json:"remarks,omitempty"`
	Data     measurement.Values `json:"data"`
}

// Result is the {success, message} envelope returned by write endpoints.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CustomerSummary is one search hit from GET /api/customers.
type CustomerSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Gender string `json:"gender"`
	City   string `json:"city,omitempty"`
}

// Category is a garment category from GET /api/categories.
type Category struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Gender string   `json:"gender"`
	Fields []string `json:"fields"`
}

// MeasurementForm is the body of GET /customer/{id}/measurement.
type MeasurementForm struct {
	CustomerID   string         `json:"customer_id"`
	CustomerName string         `json:"customer_name"`
	Gender       string         `json:"gender"`
	Categories   []Category     `json:"categories"`
	Reuse        *ReusedReading `json:"reuse,omitempty"`
}

// ReusedReading is the prefill copied from an earlier measurement.
type ReusedReading struct {
	MeasurementID string             `json:"measurement_id"`
	CategoryID    string             `json:"category_id"`
	Data          measurement.Values `json:"data"`
	Remarks       string             `json:"remarks,omitempty"`
}

// MonthRef names a calendar month for bill navigation.
type MonthRef struct {
	Month int    `json:"month"`
	Year  int    `json:"year"`
	Label string `json:"label"`
}

// BillRow is one bill line from GET /api/bills.
type BillRow struct {
	OrderID        string  `json:"order_id"`
	CustomerID     string  `json:"customer_id"`
	CustomerName   string  `json:"customer_name"`
	CustomerMobile string  `json:"customer_mobile"`
	Items          string  `json:"items"`
	Total          float64 `json:"total"`
	Advance        float64 `json:"advance"`
	Balance        float64 `json:"balance"`
	Status         string  `json:"status"`
	PaymentMode    string  `json:"payment_mode"`
	WorkStatus     string  `json:"work_status"`
	StartDate      string  `json:"start_date"`
	DeliveryDate   string  `json:"delivery_date"`
	CreatedBy      string  `json:"created_by"`
}

// BillsPage is the body of GET /api/bills.
type BillsPage struct {
	Month  MonthRef          `json:"month"`
	Prev   MonthRef          `json:"prev"`
	Next   MonthRef          `json:"next"`
	Status string            `json:"status"`
	Query  string            `json:"q"`
	Bills  []BillRow         `json:"bills"`
	Page   listutil.PageInfo `json:"page"`
}

// BillsQuery selects a page of bills.
type BillsQuery struct {
	Month   int
	Year    int
	Status  string
	Search  string
	Page    int
	PerPage int
}

// OrderState is an order's derived state after a write.
type OrderState struct {
	ID            string  `json:"id"`
	WorkStatus    string  `json:"work_status"`
	PaymentStatus string  `json:"payment_status"`
	PaymentMode   string  `json:"payment_mode"`
	Total         float64 `json:"total"`
	Advance       float64 `json:"advance"`
	Balance       float64 `json:"balance"`
	DeliveryDate  string  `json:"delivery_date"`
}

// OrderResult is the JSON reply to order and bill updates.
type OrderResult struct {
	Result
	Order *OrderState `json:"order,omitempty"`
}

// OrderUpdate is the order edit form. WorkStatus is ignored by payment updates.
type OrderUpdate struct {
	OrderID      string
	WorkStatus   string
	Total        string
	Advance      string
	PaymentMode  string
	DeliveryDate string
}

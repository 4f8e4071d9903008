package forms

import (
	"time"

	"tailorshop/internal/domain/billing"
	"tailorshop/internal/domain/order"
	"tailorshop/internal/ui/panel"
	"tailorshop/internal/ui/shopapi"
)

// Display fallbacks.
const (
	UnknownName = "Unknown"
	NoItems     = "No items"
)

// OrderEditForm is the manage-order form. Amount fields hold raw input text.
type OrderEditForm struct {
	Currency string

	OrderID      string
	WorkStatus   string
	Total        string
	Advance      string
	PaymentMode  string
	StartDate    string
	DeliveryDate string
	DeliveryMin  string
	CustomerName string
	Items        string

	Balance BalanceDisplay
}

// NewOrderEditForm returns an empty form showing amounts in currency, or
// billing.DefaultCurrency when currency is empty.
func NewOrderEditForm(currency string) *OrderEditForm {
	if currency == "" {
		currency = billing.DefaultCurrency
	}
	f := &OrderEditForm{Currency: currency}
	f.Recalculate()
	return f
}

// Recalculate refreshes the balance line from Total and Advance.
func (f *OrderEditForm) Recalculate() {
	f.Balance = ComputeBalance(f.Total, f.Advance, f.Currency)
}

// FillFullPayment copies a positive total into the advance.
func (f *OrderEditForm) FillFullPayment() {
	total := billing.ParseAmount(f.Total)
	if total > 0 {
		f.Advance = billing.FormatAmount(total)
		f.Recalculate()
	}
}

// Update reads the form back for submission.
func (f *OrderEditForm) Update() shopapi.OrderUpdate {
	return shopapi.OrderUpdate{
		OrderID:      f.OrderID,
		WorkStatus:   f.WorkStatus,
		Total:        f.Total,
		Advance:      f.Advance,
		PaymentMode:  f.PaymentMode,
		DeliveryDate: f.DeliveryDate,
	}
}

// PaymentEditForm is the record-payment form on the bills screen.
type PaymentEditForm struct {
	OrderID       string
	Total         string
	Advance       string
	PaymentStatus string
	PaymentMode   string
	StartDate     string
	DeliveryDate  string
	DeliveryMin   string
	CreatedBy     string
}

// AutoStatus sets PaymentStatus from what has been paid against the total,
// replacing any manual choice.
func (f *PaymentEditForm) AutoStatus() {
	f.PaymentStatus = billing.StatusForPayment(billing.ParseAmount(f.Total), billing.ParseAmount(f.Advance))
}

// Update reads the form back for submission.
func (f *PaymentEditForm) Update() shopapi.OrderUpdate {
	return shopapi.OrderUpdate{
		OrderID:      f.OrderID,
		Total:        f.Total,
		Advance:      f.Advance,
		PaymentMode:  f.PaymentMode,
		DeliveryDate: f.DeliveryDate,
	}
}

// OrderEditArgs are the values an order row hands to the manage form.
type OrderEditArgs struct {
	OrderID      Opt
	WorkStatus   Opt
	Total        Opt
	Advance      Opt
	PaymentMode  Opt
	StartDate    Opt
	DeliveryDate Opt
	CreatedBy    Opt
	CustomerName Opt
	Items        Opt
}

// PaymentEditArgs are the values a bill row hands to the payment form.
type PaymentEditArgs struct {
	OrderID      Opt
	Total        Opt
	Advance      Opt
	Status       Opt
	PaymentMode  Opt
	StartDate    Opt
	DeliveryDate Opt
	CreatedBy    Opt
}

// Opener opens a panel by id.
type Opener interface {
	Open(id string)
}

// Populator fills the edit forms and opens their panels.
type Populator struct {
	Panels Opener
	Now    func() time.Time
}

func (p Populator) today() string {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return now().Format(order.DateLayout)
}

// PopulateOrder writes args into f, refreshes the balance line and opens the
// manage panel.
// PRE: none; a nil form is a no-op
// POST: absent amounts are "0", absent dates and mode are "",
// DeliveryMin is today
func (p Populator) PopulateOrder(f *OrderEditForm, a OrderEditArgs) {
	if f == nil {
		return
	}
	f.OrderID = a.OrderID.Or("")
	f.WorkStatus = a.WorkStatus.Or("")
	f.Total = a.Total.Or("0")
	f.Advance = a.Advance.Or("0")
	f.PaymentMode = a.PaymentMode.Or("")
	f.CustomerName = a.CustomerName.OrIfEmpty(UnknownName)
	f.Items = a.Items.OrIfEmpty(NoItems)
	f.StartDate = a.StartDate.Or("")
	f.DeliveryDate = a.DeliveryDate.Or("")
	f.DeliveryMin = p.today()

	f.Recalculate()
	if p.Panels != nil {
		p.Panels.Open(panel.ManageModal)
	}
}

// PopulatePayment writes args into f and opens the payment panel. It leaves
// the status as given.
// PRE: none; a nil form is a no-op
// POST: absent amounts are "", absent dates and mode are "",
// an absent creator is "Unknown", DeliveryMin is today
func (p Populator) PopulatePayment(f *PaymentEditForm, a PaymentEditArgs) {
	if f == nil {
		return
	}
	f.OrderID = a.OrderID.Or("")
	f.Total = a.Total.Or("")
	f.Advance = a.Advance.Or("")
	f.PaymentStatus = a.Status.Or("")
	f.PaymentMode = a.PaymentMode.Or("")
	f.StartDate = a.StartDate.Or("")
	f.DeliveryDate = a.DeliveryDate.Or("")
	f.CreatedBy = a.CreatedBy.Or(UnknownName)
	f.DeliveryMin = p.today()

	if p.Panels != nil {
		p.Panels.Open(panel.PaymentModal)
	}
}

// OrderArgsFromBill builds populate arguments from a bill row.
func OrderArgsFromBill(b shopapi.BillRow) OrderEditArgs {
	return OrderEditArgs{
		OrderID:      Some(b.OrderID),
		WorkStatus:   Some(b.WorkStatus),
		Total:        Some(billing.FormatAmount(b.Total)),
		Advance:      Some(billing.FormatAmount(b.Advance)),
		PaymentMode:  optional(b.PaymentMode),
		StartDate:    optional(b.StartDate),
		DeliveryDate: optional(b.DeliveryDate),
		CreatedBy:    optional(b.CreatedBy),
		CustomerName: Some(b.CustomerName),
		Items:        Some(b.Items),
	}
}

// PaymentArgsFromBill builds populate arguments from a bill row.
func PaymentArgsFromBill(b shopapi.BillRow) PaymentEditArgs {
	return PaymentEditArgs{
		OrderID:      Some(b.OrderID),
		Total:        Some(billing.FormatAmount(b.Total)),
		Advance:      Some(billing.FormatAmount(b.Advance)),
		Status:       Some(b.Status),
		PaymentMode:  optional(b.PaymentMode),
		StartDate:    optional(b.StartDate),
		DeliveryDate: optional(b.DeliveryDate),
		CreatedBy:    optional(b.CreatedBy),
	}
}

// optional treats an empty server value as absent.
func optional(s string) Opt {
	if s == "" {
		return Absent()
	}
	return Some(s)
}

package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tailorshop/internal/adapters/email"
	"tailorshop/internal/domain/audit"
	"tailorshop/internal/domain/billing"
	"tailorshop/internal/domain/customer"
	"tailorshop/internal/domain/order"
)

// OrderStoreForOrchestrator defines the store interface needed by order orchestrators.
type OrderStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (order.Order, error)
	Save(ctx context.Context, o order.Order) error
}

// CustomerStoreForOrder reads the customer an order belongs to.
type CustomerStoreForOrder interface {
	GetByID(ctx context.Context, id string) (customer.Customer, error)
}

// PaymentRecorder counts bill updates by resulting payment status.
type PaymentRecorder interface {
	PaymentRecorded(status string)
}

// ShopInfo is the live shop identity used on receipts.
type ShopInfo struct {
	Name     string
	Currency string
}

// OrderDeps holds dependencies shared by the order orchestrators.
type OrderDeps struct {
	OrderStore    OrderStoreForOrchestrator
	CustomerStore CustomerStoreForOrder
	AuditStore    AuditStoreForOrchestrator
	Sender        email.Sender
	Metrics       PaymentRecorder
	Shop          func() ShopInfo
	GenerateID    func() string
	Now           func() time.Time
}

var ErrInvalidPaymentMode = errors.New("payment mode must be Cash, UPI or Card")

// --- Create Order ---

// CreateOrderInput carries a new stitching job.
type CreateOrderInput struct {
	CustomerID   string
	Items        []order.Item
	StartDate    string
	DeliveryDate string
	Total        float64 // zero means the sum of item costs
	Advance      float64
	PaymentMode  string
	Notes        string
	Actor        Actor
}

// ExecuteCreateOrder books a new order for an existing customer.
// PRE: customer exists; at least one item
// POST: Order persisted with derived balance and payment status
func ExecuteCreateOrder(ctx context.Context, input CreateOrderInput, deps OrderDeps) (order.Order, error) {
	now := nowOr(deps.Now)
	cust, err := deps.CustomerStore.GetByID(ctx, input.CustomerID)
	if err != nil {
		return order.Order{}, err
	}

	start, err := order.ParseDate(input.StartDate)
	if err != nil {
		return order.Order{}, err
	}
	if start == "" {
		start = now.Format(order.DateLayout)
	}
	delivery, err := order.ParseDate(input.DeliveryDate)
	if err != nil {
		return order.Order{}, err
	}
	if err := checkPaymentMode(input.PaymentMode); err != nil {
		return order.Order{}, err
	}

	total := input.Total
	if total == 0 {
		for _, it := range input.Items {
			qty := it.Qty
			if qty <= 0 {
				qty = 1
			}
			total += float64(qty) * it.Cost
		}
	}

	o := order.Order{
		ID:           deps.GenerateID(),
		CustomerID:   cust.ID,
		Items:        input.Items,
		StartDate:    start,
		DeliveryDate: delivery,
		WorkStatus:   order.WorkWorking,
		PaymentMode:  input.PaymentMode,
		CreatedBy:    input.Actor.Name,
		Notes:        strings.TrimSpace(input.Notes),
		CreatedAt:    now,
	}
	o.ApplyPayment(total, input.Advance)
	if err := o.Validate(); err != nil {
		return order.Order{}, err
	}
	if err := deps.OrderStore.Save(ctx, o); err != nil {
		return order.Order{}, err
	}

	slog.Info("order_event", "event", "order_created", "order_id", o.ID, "customer_id", cust.ID, "total", o.Total)
	recordAudit(ctx, deps.AuditStore, now, input.Actor, audit.ActionCreate, audit.EntityOrder, o.ID,
		fmt.Sprintf("New order for %s: %s", cust.Name, o.ItemsText()))
	return o, nil
}

// --- Update Order Details / Record Payment ---

// UpdateOrderInput carries the order edit form. An empty WorkStatus or
// DeliveryDate leaves the stored value unchanged.
type UpdateOrderInput struct {
	OrderID      string
	WorkStatus   string
	Total        float64
	Advance      float64
	PaymentMode  string
	DeliveryDate string
	Actor        Actor
}

// ExecuteUpdateOrderDetails applies the order edit form.
// PRE: order exists; amounts non-negative
// POST: Balance = round2(total - advance); PaymentStatus recalculated;
// history written; receipt sent when the order became Paid
func ExecuteUpdateOrderDetails(ctx context.Context, input UpdateOrderInput, deps OrderDeps) (order.Order, error) {
	if input.WorkStatus != "" && !order.IsValidWorkStatus(input.WorkStatus) {
		return order.Order{}, order.ErrInvalidWorkStatus
	}
	return updateBill(ctx, input, deps, "order_details_updated")
}

// ExecuteRecordPayment applies the bill payment form. It never changes the
// work status.
// PRE: order exists; amounts non-negative
// POST: same as ExecuteUpdateOrderDetails
func ExecuteRecordPayment(ctx context.Context, input UpdateOrderInput, deps OrderDeps) (order.Order, error) {
	input.WorkStatus = ""
	return updateBill(ctx, input, deps, "payment_recorded")
}

func updateBill(ctx context.Context, input UpdateOrderInput, deps OrderDeps, event string) (order.Order, error) {
	now := nowOr(deps.Now)
	if input.Total < 0 || input.Advance < 0 {
		return order.Order{}, order.ErrNegativeAmount
	}
	if err := checkPaymentMode(input.PaymentMode); err != nil {
		return order.Order{}, err
	}
	delivery, err := order.ParseDate(input.DeliveryDate)
	if err != nil {
		return order.Order{}, err
	}

	o, err := deps.OrderStore.GetByID(ctx, input.OrderID)
	if err != nil {
		return order.Order{}, err
	}
	wasPaid := o.IsPaid()

	if input.WorkStatus != "" {
		o.WorkStatus = input.WorkStatus
	}
	if delivery != "" {
		o.DeliveryDate = delivery
	}
	o.PaymentMode = input.PaymentMode
	o.ApplyPayment(input.Total, input.Advance)

	if err := o.Validate(); err != nil {
		return order.Order{}, err
	}
	if err := deps.OrderStore.Save(ctx, o); err != nil {
		return order.Order{}, err
	}
	if deps.Metrics != nil {
		deps.Metrics.PaymentRecorded(o.PaymentStatus)
	}

	slog.Info("order_event", "event", event, "order_id", o.ID, "work_status", o.WorkStatus, "payment_status", o.PaymentStatus, "balance", o.Balance)
	recordAudit(ctx, deps.AuditStore, now, input.Actor, audit.ActionEdit, audit.EntityOrder, o.ID,
		fmt.Sprintf("Updated order: Status=%s, Paid=%s/%s", o.WorkStatus, billing.FormatAmount(o.Advance), billing.FormatAmount(o.Total)))

	if !wasPaid && o.IsPaid() {
		sendReceipt(ctx, o, deps, now)
	}
	return o, nil
}

// sendReceipt emails the customer a receipt. Failures are logged only.
func sendReceipt(ctx context.Context, o order.Order, deps OrderDeps, now time.Time) {
	if deps.Sender == nil || deps.CustomerStore == nil {
		return
	}
	cust, err := deps.CustomerStore.GetByID(ctx, o.CustomerID)
	if err != nil {
		slog.Warn("receipt_skipped", "order_id", o.ID, "reason", "customer_lookup", "error", err)
		return
	}
	if cust.Email == "" {
		return
	}

	shop := ShopInfo{Name: "Tailor Shop", Currency: billing.DefaultCurrency}
	if deps.Shop != nil {
		shop = deps.Shop()
	}
	money := func(v float64) string { return shop.Currency + billing.FormatAmount(v) }

	r := email.Receipt{
		ShopName:     shop.Name,
		CustomerName: cust.Name,
		OrderID:      o.ID,
		Total:        money(o.Total),
		Paid:         money(o.Advance),
		Mode:         o.PaymentMode,
		Date:         now.Format(order.DateLayout),
	}
	for _, it := range o.Items {
		r.Items = append(r.Items, email.ReceiptItem{Name: it.Name, Qty: it.Qty, Cost: money(it.Cost)})
	}

	subject, html, err := email.RenderReceipt(r)
	if err != nil {
		slog.Error("receipt_failed", "order_id", o.ID, "error", err)
		return
	}
	res, err := deps.Sender.Send(ctx, email.SendRequest{To: []string{cust.Email}, Subject: subject, HTML: html})
	if err != nil {
		slog.Error("receipt_failed", "order_id", o.ID, "error", err)
		return
	}
	slog.Info("order_event", "event", "receipt_sent", "order_id", o.ID, "message_id", res.MessageID)
}

func checkPaymentMode(mode string) error {
	switch mode {
	case "", order.ModeCash, order.ModeUPI, order.ModeCard:
		return nil
	}
	return ErrInvalidPaymentMode
}

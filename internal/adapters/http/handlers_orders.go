package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tailorshop/internal/adapters/http/middleware"
	"tailorshop/internal/application/listutil"
	"tailorshop/internal/application/orchestrators"
	"tailorshop/internal/application/projections"
	"tailorshop/internal/domain/order"
	"tailorshop/internal/ui/shopapi"
)

var errBadItems = errors.New("items must be a JSON list of {name, qty, cost}")

func orderDeps() orchestrators.OrderDeps {
	return orchestrators.OrderDeps{
		OrderStore:    stores.OrderStore,
		CustomerStore: stores.CustomerStore,
		AuditStore:    stores.AuditStore,
		Sender:        emailSender,
		Metrics:       collector,
		Shop:          currentShop,
		GenerateID:    generateID,
		Now:           timeNow,
	}
}

func orderState(o order.Order) *shopapi.OrderState {
	return &shopapi.OrderState{
		ID:            o.ID,
		WorkStatus:    o.WorkStatus,
		PaymentStatus: o.PaymentStatus,
		PaymentMode:   o.PaymentMode,
		Total:         o.Total,
		Advance:       o.Advance,
		Balance:       o.Balance,
		DeliveryDate:  o.DeliveryDate,
	}
}

// replyOrder answers a successful order write: JSON callers get the new
// state, form posts go back where they came from.
func replyOrder(w http.ResponseWriter, r *http.Request, status int, o order.Order) {
	if middleware.WantsJSON(r) {
		writeJSON(w, status, shopapi.OrderResult{Result: shopapi.Result{Success: true}, Order: orderState(o)})
		return
	}
	redirectBack(w, r)
}

// parseAmounts reads total_amt and advance from the form.
func parseAmounts(r *http.Request) (total, advance float64, err error) {
	if total, err = parseFormAmount(r.FormValue("total_amt")); err != nil {
		return 0, 0, err
	}
	if advance, err = parseFormAmount(r.FormValue("advance")); err != nil {
		return 0, 0, err
	}
	return total, advance, nil
}

// handleCreateOrder handles POST /orders
func handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	total, advance, err := parseAmounts(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var items []order.Item
	if raw := strings.TrimSpace(r.FormValue("items")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			writeError(w, r, errBadItems)
			return
		}
	}

	o, err := orchestrators.ExecuteCreateOrder(r.Context(), orchestrators.CreateOrderInput{
		CustomerID:   r.FormValue("customer_id"),
		Items:        items,
		StartDate:    r.FormValue("start_date"),
		DeliveryDate: r.FormValue("delivery_date"),
		Total:        total,
		Advance:      advance,
		PaymentMode:  r.FormValue("payment_mode"),
		Notes:        r.FormValue("notes"),
		Actor:        actorFrom(r),
	}, orderDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	replyOrder(w, r, http.StatusCreated, o)
}

// handleUpdateOrderDetails handles POST /orders/update_details
func handleUpdateOrderDetails(w http.ResponseWriter, r *http.Request) {
	input, ok := readOrderUpdate(w, r)
	if !ok {
		return
	}
	input.WorkStatus = r.FormValue("status")
	o, err := orchestrators.ExecuteUpdateOrderDetails(r.Context(), input, orderDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	replyOrder(w, r, http.StatusOK, o)
}

// handleRecordPayment handles POST /bills/update
func handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	input, ok := readOrderUpdate(w, r)
	if !ok {
		return
	}
	o, err := orchestrators.ExecuteRecordPayment(r.Context(), input, orderDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	replyOrder(w, r, http.StatusOK, o)
}

func readOrderUpdate(w http.ResponseWriter, r *http.Request) (orchestrators.UpdateOrderInput, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return orchestrators.UpdateOrderInput{}, false
	}
	total, advance, err := parseAmounts(r)
	if err != nil {
		writeError(w, r, err)
		return orchestrators.UpdateOrderInput{}, false
	}
	return orchestrators.UpdateOrderInput{
		OrderID:      r.FormValue("order_id"),
		Total:        total,
		Advance:      advance,
		PaymentMode:  r.FormValue("payment_mode"),
		DeliveryDate: r.FormValue("delivery_date"),
		Actor:        actorFrom(r),
	}, true
}

func monthRef(m listutil.Month) shopapi.MonthRef {
	return shopapi.MonthRef{Month: int(m.Month), Year: m.Year, Label: m.Label()}
}

// handleListBills handles GET /api/bills?status=&month=&year=&q=&page=&per_page=
func handleListBills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := projections.ListBillsQuery{
		Month:  listutil.ParseMonth(q, timeNow()),
		Status: q.Get("status"),
		Search: strings.TrimSpace(q.Get("q")),
		Page:   listutil.ParsePageParams(q),
	}
	res, err := projections.QueryListBills(r.Context(), query, projections.ListBillsDeps{OrderStore: stores.OrderStore})
	if err != nil {
		internalError(w, err)
		return
	}

	status := query.Status
	if status == "" {
		status = projections.ShowAllBills
	}
	page := shopapi.BillsPage{
		Month:  monthRef(res.Month),
		Prev:   monthRef(res.Prev),
		Next:   monthRef(res.Next),
		Status: status,
		Query:  query.Search,
		Bills:  make([]shopapi.BillRow, 0, len(res.Rows)),
		Page:   res.Page,
	}
	for _, row := range res.Rows {
		page.Bills = append(page.Bills, shopapi.BillRow{
			OrderID:        row.OrderID,
			CustomerID:     row.CustomerID,
			CustomerName:   row.CustomerName,
			CustomerMobile: row.CustomerMobile,
			Items:          row.Items,
			Total:          row.Total,
			Advance:        row.Advance,
			Balance:        row.Balance,
			Status:         row.PaymentStatus,
			PaymentMode:    row.PaymentMode,
			WorkStatus:     row.WorkStatus,
			StartDate:      row.StartDate,
			DeliveryDate:   row.DeliveryDate,
			CreatedBy:      row.CreatedBy,
		})
	}
	writeJSON(w, http.StatusOK, page)
}

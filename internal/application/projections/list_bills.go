package projections

import (
	"context"
	"strings"
	"time"

	"tailorshop/internal/adapters/storage/order"
	"tailorshop/internal/application/listutil"
	"tailorshop/internal/domain/billing"
)

// ShowAllBills is the status filter value that matches every bill.
const ShowAllBills = "all"

// ListBillsQuery carries query parameters.
type ListBillsQuery struct {
	Month  listutil.Month
	Status string // payment status, "all" or empty for any
	Search string
	Page   listutil.PageParams
}

// BillRow is one line on the bills screen.
type BillRow struct {
	OrderID        string
	CustomerID     string
	CustomerName   string
	CustomerMobile string
	Items          string
	Total          float64
	Advance        float64
	Balance        float64
	PaymentStatus  string
	PaymentMode    string
	WorkStatus     string
	StartDate      string
	DeliveryDate   string
	CreatedBy      string
	CreatedAt      time.Time
}

// ListBillsResult carries one page of a month's bills.
type ListBillsResult struct {
	Month listutil.Month
	Prev  listutil.Month
	Next  listutil.Month
	Rows  []BillRow
	Page  listutil.PageInfo
}

// ListBillsDeps holds dependencies for ListBills.
type ListBillsDeps struct {
	OrderStore OrderStore
}

// QueryListBills lists the bills created in a month, newest first.
// PRE: query.Month is set
// POST: Rows holds only the requested page; an unknown status matches nothing
func QueryListBills(ctx context.Context, query ListBillsQuery, deps ListBillsDeps) (ListBillsResult, error) {
	filter := order.BillFilter{
		From:  query.Month.Start(),
		To:    query.Month.End(),
		Query: strings.TrimSpace(query.Search),
	}
	status := strings.TrimSpace(query.Status)
	if status != "" && status != ShowAllBills {
		if !billing.IsValidStatus(status) {
			return emptyBills(query), nil
		}
		filter.Status = status
	}

	bills, err := deps.OrderStore.ListBills(ctx, filter)
	if err != nil {
		return ListBillsResult{}, err
	}

	result := emptyBills(query)
	result.Page = listutil.NewPageInfo(query.Page, len(bills))
	start, end := result.Page.Bounds()
	for _, b := range bills[start:end] {
		o := b.Order
		result.Rows = append(result.Rows, BillRow{
			OrderID:        o.ID,
			CustomerID:     o.CustomerID,
			CustomerName:   b.CustomerName,
			CustomerMobile: b.CustomerMobile,
			Items:          o.ItemsText(),
			Total:          o.Total,
			Advance:        o.Advance,
			Balance:        o.Balance,
			PaymentStatus:  o.PaymentStatus,
			PaymentMode:    o.PaymentMode,
			WorkStatus:     o.WorkStatus,
			StartDate:      o.StartDate,
			DeliveryDate:   o.DeliveryDate,
			CreatedBy:      o.CreatedBy,
			CreatedAt:      o.CreatedAt,
		})
	}
	return result, nil
}

func emptyBills(query ListBillsQuery) ListBillsResult {
	return ListBillsResult{
		Month: query.Month,
		Prev:  query.Month.Prev(),
		Next:  query.Month.Next(),
		Rows:  []BillRow{},
		Page:  listutil.NewPageInfo(query.Page, 0),
	}
}

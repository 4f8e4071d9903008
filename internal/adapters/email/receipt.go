package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// ReceiptItem is one line on a receipt.
type ReceiptItem struct {
	Name string
	Qty  int
	Cost string
}

// Receipt is the data rendered into a payment receipt.
type Receipt struct {
	ShopName     string
	CustomerName string
	OrderID      string
	Items        []ReceiptItem
	Total        string // already formatted with currency
	Paid         string
	Mode         string
	Date         string
}

var receiptTmpl = template.Must(template.New("receipt").Parse(`<div style="font-family:sans-serif">
<h2>{{.ShopName}}</h2>
<p>Dear {{.CustomerName}},</p>
<p>Thank you. Your order is fully paid.</p>
<table>
{{range .Items}}<tr><td>{{.Qty}} x {{.Name}}</td><td>{{.Cost}}</td></tr>
{{end}}<tr><th>Total</th><th>{{.Total}}</th></tr>
<tr><td>Paid{{if .Mode}} ({{.Mode}}){{end}}</td><td>{{.Paid}}</td></tr>
</table>
<p>Order {{.OrderID}} &middot; {{.Date}}</p>
</div>`))

// RenderReceipt returns the subject and HTML body of a receipt.
func RenderReceipt(r Receipt) (subject, html string, err error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, r); err != nil {
		return "", "", fmt.Errorf("render receipt: %w", err)
	}
	return fmt.Sprintf("%s: payment receipt", r.ShopName), buf.String(), nil
}

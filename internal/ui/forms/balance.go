package forms

import "tailorshop/internal/domain/billing"

// Tone is the styling class for the balance line.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
)

// BalanceDisplay is the rendered balance line of the order form.
type BalanceDisplay struct {
	Text    string
	Tone    Tone
	Balance billing.Balance
}

// ComputeBalance coerces the raw total and advance inputs and classifies
// what remains.
// POST: Text is currency + amount + suffix, e.g. "₹0 (Paid)"
func ComputeBalance(total, advance, currency string) BalanceDisplay {
	b := billing.Classify(billing.ParseAmount(total), billing.ParseAmount(advance))
	tone := ToneDanger
	if b.Settled() {
		tone = ToneSuccess
	}
	return BalanceDisplay{Text: b.Text(currency), Tone: tone, Balance: b}
}

package billing

import (
	"math"
	"strconv"
	"strings"
)

// DefaultCurrency is the prefix used when the shop profile sets none.
const DefaultCurrency = "₹"

// Payment status values shared by the server and the payment form.
const (
	StatusPending     = "Pending"
	StatusHalfPayment = "Half-Payment"
	StatusPaid        = "Paid"
)

// PaymentStatuses lists the valid payment status values in display order.
var PaymentStatuses = []string{StatusPending, StatusHalfPayment, StatusPaid}

// Kind classifies a remaining balance for display.
type Kind int

const (
	KindOutstanding Kind = iota
	KindPaid
	KindCredit
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPaid:
		return "paid"
	case KindCredit:
		return "credit"
	default:
		return "outstanding"
	}
}

// Balance is the derived remaining amount for a total/advance pair.
type Balance struct {
	Total   float64
	Advance float64
	Amount  float64
	Kind    Kind
}

// Classify computes total - advance and classifies it.
// PRE: none
// POST: Kind follows priority Paid (amount <= 0, total > 0), then Credit
// (total == 0, advance > 0), then Outstanding
func Classify(total, advance float64) Balance {
	b := Balance{Total: total, Advance: advance, Amount: total - advance}
	switch {
	case b.Amount <= 0 && total > 0:
		b.Kind = KindPaid
	case total == 0 && advance > 0:
		b.Kind = KindCredit
	default:
		b.Kind = KindOutstanding
	}
	return b
}

// Suffix returns the label appended after the amount, including its leading space.
func (b Balance) Suffix() string {
	switch b.Kind {
	case KindPaid:
		return " (Paid)"
	case KindCredit:
		return " (Credit)"
	}
	return ""
}

// Settled reports whether the balance should be shown with success styling.
func (b Balance) Settled() bool {
	return b.Kind == KindPaid || b.Kind == KindCredit
}

// Text renders the balance as currency + amount + suffix, e.g. "₹0 (Paid)".
func (b Balance) Text(currency string) string {
	return currency + FormatAmount(b.Amount) + b.Suffix()
}

// StatusForPayment picks the payment status for an amount paid against a total.
// PRE: none
// POST: Paid when paid covers a positive total, Half-Payment when something
// was paid, Pending otherwise
func StatusForPayment(total, paid float64) string {
	switch {
	case paid >= total && total > 0:
		return StatusPaid
	case paid > 0:
		return StatusHalfPayment
	default:
		return StatusPending
	}
}

// IsValidStatus reports whether s is a known payment status.
func IsValidStatus(s string) bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// FormatAmount renders v with the shortest exact decimal form ("1000", "600.5").
func FormatAmount(v float64) string {
	if v == 0 {
		// normalises negative zero
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseAmount reads the leading decimal number of raw, the way form inputs are
// coerced. Empty or non-numeric input yields 0.
// PRE: none
// POST: returns a finite value
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	prefix := numericPrefix(s)
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

// numericPrefix returns the longest prefix of s shaped like [+-]digits[.digits][e[+-]digits].
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			end = j
		}
	}
	return s[:end]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

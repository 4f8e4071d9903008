package main

import (
	"github.com/charmbracelet/lipgloss"

	"tailorshop/internal/domain/billing"
	"tailorshop/internal/ui/forms"
)

var (
	primaryColor = lipgloss.Color("#7D56F4")
	mutedColor   = lipgloss.Color("241")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("214")
	errorColor   = lipgloss.Color("196")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(mutedColor)
	activeTab     = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(primaryColor).Underline(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	successStyle  = lipgloss.NewStyle().Foreground(successColor)
	warningStyle  = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(46)
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(1, 2)
)

// framed draws a panel border, highlighted while the panel is active.
func framed(style lipgloss.Style, active bool, body string) string {
	if active {
		return style.BorderForeground(primaryColor).Render(body)
	}
	return style.BorderForeground(mutedColor).Render(body)
}

func paymentBadge(status string) string {
	switch status {
	case billing.StatusPaid:
		return successStyle.Render(status)
	case billing.StatusHalfPayment:
		return warningStyle.Render(status)
	default:
		return errorStyle.Render(status)
	}
}

func balanceLine(b forms.BalanceDisplay) string {
	if b.Tone == forms.ToneSuccess {
		return successStyle.Render(b.Text)
	}
	return errorStyle.Render(b.Text)
}

// Package measurement deletes a saved measurement from the profile sidebar.
package measurement

import (
	"context"
	"log/slog"

	"tailorshop/internal/ui/shopapi"
)

// Prompts shown to the operator.
const (
	ConfirmPrompt = "Are you sure you want to delete this measurement? This cannot be undone."
	GenericError  = "An error occurred."
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Alerter shows a blocking message.
type Alerter interface {
	Alert(message string)
}

// TokenSource yields a CSRF token, or "" when it has none.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token calls f.
func (f TokenFunc) Token() string { return f() }

// Remover issues the delete request.
type Remover interface {
	DeleteMeasurement(ctx context.Context, measurementID, token string) (shopapi.Result, error)
}

// Refresher reloads a customer's profile.
type Refresher interface {
	Load(ctx context.Context, customerID string) error
}

// Deleter confirms and deletes a measurement, then refreshes the profile.
type Deleter struct {
	Client  Remover
	Confirm Confirmer
	Alert   Alerter
	Profile Refresher
	// Tokens are tried in order; the first non-empty token is sent.
	Tokens []TokenSource
}

// Outcome reports what Delete did.
type Outcome int

const (
	Declined Outcome = iota
	Deleted
	Rejected
	Failed
)

// Delete asks for confirmation and, if given, deletes the measurement.
// POST: Declined sends no request; Deleted reloads the customer's profile;
// Rejected alerts the server's message; Failed alerts GenericError
func (d *Deleter) Delete(ctx context.Context, measurementID, customerID string) Outcome {
	if d.Confirm == nil || !d.Confirm.Confirm(ConfirmPrompt) {
		return Declined
	}

	res, err := d.Client.DeleteMeasurement(ctx, measurementID, d.token())
	if err != nil {
		slog.Error("measurement_event", "event", "delete_failed", "measurement_id", measurementID, "error", err)
		d.alert(GenericError)
		return Failed
	}
	if !res.Success {
		d.alert("Error: " + res.Message)
		return Rejected
	}

	if d.Profile != nil {
		if err := d.Profile.Load(ctx, customerID); err != nil {
			slog.Warn("measurement_event", "event", "refresh_failed", "customer_id", customerID, "error", err)
		}
	}
	return Deleted
}

func (d *Deleter) token() string {
	for _, s := range d.Tokens {
		if s == nil {
			continue
		}
		if t := s.Token(); t != "" {
			return t
		}
	}
	return ""
}

func (d *Deleter) alert(msg string) {
	if d.Alert != nil {
		d.Alert.Alert(msg)
	}
}

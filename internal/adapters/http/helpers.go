package web

import (
	"bytes"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"tailorshop/internal/adapters/http/middleware"
	"tailorshop/internal/application/orchestrators"
	"tailorshop/internal/domain/billing"
	"tailorshop/internal/domain/customer"
	"tailorshop/internal/domain/measurement"
	"tailorshop/internal/domain/order"
	"tailorshop/internal/ui/shopapi"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

//go:embed templates/*.html
var templateFS embed.FS

var errInvalidAmount = errors.New("amount must be a number")

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

// writeResult sends the {success, message} envelope.
func writeResult(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, shopapi.Result{Success: success, Message: message})
}

// errorStatus maps domain errors to client statuses. ok is false for
// errors that should be reported as internal.
func errorStatus(err error) (status int, ok bool) {
	switch {
	case errors.Is(err, sql.ErrNoRows),
		errors.Is(err, orchestrators.ErrMeasurementNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, orchestrators.ErrMobileExists):
		return http.StatusConflict, true
	case errors.Is(err, errInvalidAmount),
		errors.Is(err, errBadItems),
		errors.Is(err, errBadMeasurementData),
		errors.Is(err, orchestrators.ErrInvalidPaymentMode),
		errors.Is(err, customer.ErrEmptyName),
		errors.Is(err, customer.ErrNameTooLong),
		errors.Is(err, customer.ErrEmptyMobile),
		errors.Is(err, customer.ErrMobileTooLong),
		errors.Is(err, customer.ErrInvalidGender),
		errors.Is(err, customer.ErrInvalidEmail),
		errors.Is(err, measurement.ErrEmptyCustomerID),
		errors.Is(err, measurement.ErrEmptyCategoryID),
		errors.Is(err, measurement.ErrNoValues),
		errors.Is(err, measurement.ErrRemarksTooLong),
		errors.Is(err, order.ErrEmptyCustomerID),
		errors.Is(err, order.ErrNoItems),
		errors.Is(err, order.ErrInvalidWorkStatus),
		errors.Is(err, order.ErrNegativeAmount),
		errors.Is(err, order.ErrDeliveryBefore),
		errors.Is(err, order.ErrInvalidDate):
		return http.StatusBadRequest, true
	}
	return 0, false
}

// writeError reports err as JSON or plain text, hiding internal failures.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, ok := errorStatus(err)
	if !ok {
		if middleware.WantsJSON(r) {
			slog.Error("internal_error", "error", err.Error())
			writeResult(w, http.StatusInternalServerError, false, "internal server error")
			return
		}
		internalError(w, err)
		return
	}
	message := err.Error()
	if status == http.StatusNotFound {
		message = "not found"
	}
	if middleware.WantsJSON(r) {
		writeResult(w, status, false, message)
		return
	}
	http.Error(w, message, status)
}

// actorFrom names the signed-in operator for history records.
func actorFrom(r *http.Request) orchestrators.Actor {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return orchestrators.Actor{}
	}
	return orchestrators.Actor{ID: sess.AccountID, Name: sess.Username}
}

// parseFormAmount reads a money field. Blank means zero; anything else must
// be a finite number.
func parseFormAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errInvalidAmount
	}
	return billing.Round2(v), nil
}

// redirectBack sends form posts back to the page they came from.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := "/"
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" && (ref.Host == "" || ref.Host == r.Host) {
		target = ref.Path
		if ref.RawQuery != "" {
			target += "?" + ref.RawQuery
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	shop := currentShop()

	funcMap := template.FuncMap{
		"csrfToken":   func() string { return csrf.Token(r) },
		"csrfField":   func() template.HTML { return csrf.TemplateField(r) },
		"isLoggedIn":  func() bool { return loggedIn },
		"currentUser": func() string { return sess.Username },
		"isMaster":    func() bool { return loggedIn && sess.IsMaster() },
		"shopName":    func() string { return shop.Name },
		"money":       func(v float64) string { return shop.Currency + billing.FormatAmount(v) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

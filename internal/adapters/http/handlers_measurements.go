package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"tailorshop/internal/adapters/http/middleware"
	"tailorshop/internal/application/orchestrators"
	"tailorshop/internal/application/projections"
	domainCategory "tailorshop/internal/domain/category"
	"tailorshop/internal/domain/measurement"
	"tailorshop/internal/ui/shopapi"
)

// measurementRequest is the JSON body accepted by POST /customer/{id}/measurement.
type measurementRequest struct {
	CategoryID string             `json:"category_id"`
	Data       measurement.Values `json:"data"`
	Remarks    string             `json:"remarks"`
}

// measurementCreated is the JSON reply to a new measurement.
type measurementCreated struct {
	shopapi.Result
	ID string `json:"id"`
}

var errBadMeasurementData = errors.New("measurements_json must be valid JSON")

// measurementInput is one labelled box of the HTML measurement form.
type measurementInput struct {
	Name  string
	Value string
}

// measurementPage is the data of templates/measurement.html.
type measurementPage struct {
	CustomerID   string
	CustomerName string
	Categories   []domainCategory.Category
	CategoryID   string
	ReuseID      string
	Fields       []measurementInput
	Remarks      string
}

// newMeasurementPage picks the category to show (the requested one, else
// the reused measurement's, else the first) and prefills its boxes.
func newMeasurementPage(res projections.GetMeasurementFormResult, categoryID string) measurementPage {
	page := measurementPage{
		CustomerID:   res.CustomerID,
		CustomerName: res.CustomerName,
		Categories:   res.Categories,
	}
	if len(res.Categories) == 0 {
		return page
	}

	if categoryID == "" && res.Reuse != nil {
		categoryID = res.Reuse.CategoryID
	}
	selected := res.Categories[0]
	for _, c := range res.Categories {
		if c.ID == categoryID {
			selected = c
			break
		}
	}
	page.CategoryID = selected.ID

	prior := map[string]string{}
	var extra []measurementInput
	if res.Reuse != nil {
		page.ReuseID = res.Reuse.MeasurementID
		page.Remarks = res.Reuse.Remarks
		for _, f := range res.Reuse.Data.Fields() {
			prior[f.Name] = f.Text()
			if res.Reuse.CategoryID == selected.ID && !slices.Contains(selected.Fields, f.Name) {
				extra = append(extra, measurementInput{Name: f.Name, Value: f.Text()})
			}
		}
	}
	for _, label := range selected.Fields {
		page.Fields = append(page.Fields, measurementInput{Name: label, Value: prior[label]})
	}
	page.Fields = append(page.Fields, extra...)
	return page
}

// handleMeasurementForm handles GET /customer/{id}/measurement?reuse_id=.
// JSON callers get the prefill data; browsers get the entry form.
func handleMeasurementForm(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetMeasurementForm(r.Context(), projections.GetMeasurementFormQuery{
		CustomerID: r.PathValue("id"),
		ReuseID:    r.URL.Query().Get("reuse_id"),
	}, projections.GetMeasurementFormDeps{
		CustomerStore:    stores.CustomerStore,
		MeasurementStore: stores.MeasurementStore,
		CategoryStore:    stores.CategoryStore,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !middleware.WantsJSON(r) {
		renderTemplate(w, r, "measurement.html", newMeasurementPage(res, r.URL.Query().Get("category_id")))
		return
	}

	body := shopapi.MeasurementForm{
		CustomerID:   res.CustomerID,
		CustomerName: res.CustomerName,
		Gender:       res.Gender,
		Categories:   categoryBodies(res.Categories),
	}
	if res.Reuse != nil {
		body.Reuse = &shopapi.ReusedReading{
			MeasurementID: res.Reuse.MeasurementID,
			CategoryID:    res.Reuse.CategoryID,
			Data:          res.Reuse.Data,
			Remarks:       res.Reuse.Remarks,
		}
	}
	writeJSON(w, http.StatusOK, body)
}

// readMeasurementRequest accepts either a JSON body or the form fields
// category_id, measurements_json and remarks.
func readMeasurementRequest(r *http.Request) (measurementRequest, error) {
	var req measurementRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, errBadMeasurementData
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.CategoryID = r.FormValue("category_id")
	req.Remarks = r.FormValue("remarks")
	raw := strings.TrimSpace(r.FormValue("measurements_json"))
	if raw == "" {
		return req, readFieldPairs(r.PostForm, &req)
	}
	if err := json.Unmarshal([]byte(raw), &req.Data); err != nil {
		return req, errBadMeasurementData
	}
	return req, nil
}

// readFieldPairs reads the HTML form's parallel field_name/field_value
// lists, keeping their order.
func readFieldPairs(form url.Values, req *measurementRequest) error {
	names, values := form["field_name"], form["field_value"]
	if len(names) == 0 || len(names) != len(values) {
		return measurement.ErrNoValues
	}
	fields := make([]measurement.Field, 0, len(names))
	for i, name := range names {
		fields = append(fields, measurement.StringField(strings.TrimSpace(name), strings.TrimSpace(values[i])))
	}
	req.Data = measurement.FieldValues(fields...)
	return nil
}

// handleCreateMeasurement handles POST /customer/{id}/measurement
func handleCreateMeasurement(w http.ResponseWriter, r *http.Request) {
	req, err := readMeasurementRequest(r)
	if err != nil {
		if errors.Is(err, errBadMeasurementData) || errors.Is(err, measurement.ErrNoValues) {
			writeError(w, r, err)
			return
		}
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	customerID := r.PathValue("id")
	m, err := orchestrators.ExecuteCreateMeasurement(r.Context(), orchestrators.CreateMeasurementInput{
		CustomerID: customerID,
		CategoryID: req.CategoryID,
		Data:       req.Data,
		Remarks:    req.Remarks,
		Actor:      actorFrom(r),
	}, orchestrators.CreateMeasurementDeps{
		MeasurementStore: stores.MeasurementStore,
		CustomerStore:    stores.CustomerStore,
		CategoryStore:    stores.CategoryStore,
		AuditStore:       stores.AuditStore,
		GenerateID:       generateID,
		Now:              timeNow,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		writeJSON(w, http.StatusCreated, measurementCreated{Result: shopapi.Result{Success: true}, ID: m.ID})
		return
	}
	http.Redirect(w, r, "/?customer="+customerID, http.StatusSeeOther)
}

// handleDeleteMeasurement handles POST /delete/measurement/{id}. API callers
// get the {success, message} envelope; the sidebar's HTML form is sent back
// to the customer.
func handleDeleteMeasurement(w http.ResponseWriter, r *http.Request) {
	m, err := orchestrators.ExecuteDeleteMeasurement(r.Context(), orchestrators.DeleteMeasurementInput{
		MeasurementID: r.PathValue("id"),
		Actor:         actorFrom(r),
	}, orchestrators.DeleteMeasurementDeps{
		MeasurementStore: stores.MeasurementStore,
		AuditStore:       stores.AuditStore,
		Metrics:          collector,
		Now:              timeNow,
	})

	if isFormPost(r) {
		switch {
		case errors.Is(err, orchestrators.ErrMeasurementNotFound):
			http.Error(w, "Measurement not found", http.StatusNotFound)
		case err != nil:
			internalError(w, err)
		default:
			http.Redirect(w, r, "/?customer="+url.QueryEscape(m.CustomerID), http.StatusSeeOther)
		}
		return
	}

	switch {
	case errors.Is(err, orchestrators.ErrMeasurementNotFound):
		writeResult(w, http.StatusNotFound, false, "Measurement not found")
	case err != nil:
		slog.Error("internal_error", "error", err.Error())
		writeResult(w, http.StatusInternalServerError, false, "An error occurred.")
	default:
		writeResult(w, http.StatusOK, true, "")
	}
}

// isFormPost reports a browser form submission that did not ask for JSON.
func isFormPost(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") && !middleware.WantsJSON(r)
}

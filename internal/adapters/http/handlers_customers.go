package web

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"

	"tailorshop/internal/adapters/http/middleware"
	"tailorshop/internal/application/orchestrators"
	"tailorshop/internal/application/projections"
	domainCategory "tailorshop/internal/domain/category"
	domainCustomer "tailorshop/internal/domain/customer"
	"tailorshop/internal/ui/profile"
	"tailorshop/internal/ui/shopapi"
)

// profileSource serves profiles straight from the stores, so the sidebar
// fragment is rendered by the same loader the terminal desk uses.
type profileSource struct{}

// CustomerProfile implements profile.Fetcher.
func (profileSource) CustomerProfile(ctx context.Context, customerID string) (shopapi.CustomerProfile, error) {
	res, err := projections.QueryGetCustomerProfile(ctx, projections.GetCustomerProfileQuery{CustomerID: customerID}, projections.GetCustomerProfileDeps{
		CustomerStore:    stores.CustomerStore,
		MeasurementStore: stores.MeasurementStore,
		CategoryStore:    stores.CategoryStore,
		OrderStore:       stores.OrderStore,
	})
	if err != nil {
		return shopapi.CustomerProfile{}, err
	}
	return profileBody(res), nil
}

func profileBody(res projections.GetCustomerProfileResult) shopapi.CustomerProfile {
	body := shopapi.CustomerProfile{
		ID:           res.ID,
		Name:         res.Name,
		Mobile:       res.Mobile,
		Gender:       res.Gender,
		TotalPending: res.TotalPending,
		OrdersCount:  res.OrdersCount,
		Measurements: make([]shopapi.MeasurementCard, 0, len(res.Measurements)),
	}
	for _, m := range res.Measurements {
		body.Measurements = append(body.Measurements, shopapi.MeasurementCard{
			ID:       m.ID,
			Category: m.Category,
			Date:     m.Date,
			Remarks:  m.Remarks,
			Data:     m.Data,
		})
	}
	return body
}

func customerSummaries(customers []domainCustomer.Customer) []shopapi.CustomerSummary {
	out := make([]shopapi.CustomerSummary, 0, len(customers))
	for _, c := range customers {
		out = append(out, shopapi.CustomerSummary{
			ID:     c.ID,
			Name:   c.Name,
			Mobile: c.Mobile,
			Gender: c.DisplayGender(),
			City:   c.City,
		})
	}
	return out
}

func categoryBodies(cats []domainCategory.Category) []shopapi.Category {
	out := make([]shopapi.Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, shopapi.Category{ID: c.ID, Name: c.Name, Gender: c.Gender, Fields: c.Fields})
	}
	return out
}

// renderSidebar renders the profile sidebar for one customer, with the
// request's CSRF token in each delete form.
func renderSidebar(r *http.Request, customerID string) (template.HTML, error) {
	loader := profile.NewLoader(profileSource{}, nil, currentShop().Currency)
	if err := loader.Load(r.Context(), customerID); err != nil {
		return "", err
	}
	view := loader.View()
	view.FormToken = csrf.Token(r)
	var buf bytes.Buffer
	if err := profile.Render(&buf, view); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// handleHome handles GET /: customer search, quick add and the selected
// customer's sidebar.
func handleHome(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("q")

	customers, err := projections.QuerySearchCustomers(r.Context(), projections.SearchCustomersQuery{Search: search}, projections.SearchCustomersDeps{
		CustomerStore: stores.CustomerStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	data := map[string]any{
		"Search":    search,
		"Customers": customerSummaries(customers),
	}
	if id := q.Get("customer"); id != "" {
		sidebar, err := renderSidebar(r, id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			data["Notice"] = "Customer not found."
		case err != nil:
			internalError(w, err)
			return
		default:
			data["Sidebar"] = sidebar
		}
	}
	renderTemplate(w, r, "home.html", data)
}

// handleProfileSidebar handles GET /customers/{id}/profile and returns the
// sidebar fragment.
func handleProfileSidebar(w http.ResponseWriter, r *http.Request) {
	sidebar, err := renderSidebar(r, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(sidebar))
}

// handleCustomerProfile handles GET /api/customer/{id}
func handleCustomerProfile(w http.ResponseWriter, r *http.Request) {
	body, err := profileSource{}.CustomerProfile(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeResult(w, http.StatusNotFound, false, "Customer not found")
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// handleCreateCustomer handles POST /customers
func handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.CreateCustomerInput{
		Name:   r.FormValue("name"),
		Mobile: r.FormValue("mobile"),
		Gender: r.FormValue("gender"),
		Email:  r.FormValue("email"),
		City:   r.FormValue("city"),
		Area:   r.FormValue("area"),
		Notes:  r.FormValue("notes"),
		Actor:  actorFrom(r),
	}
	deps := orchestrators.CreateCustomerDeps{
		CustomerStore: stores.CustomerStore,
		AuditStore:    stores.AuditStore,
		GenerateID:    generateID,
		Now:           timeNow,
	}

	c, err := orchestrators.ExecuteCreateCustomer(r.Context(), input, deps)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if middleware.WantsJSON(r) {
		writeJSON(w, http.StatusCreated, customerSummaries([]domainCustomer.Customer{c})[0])
		return
	}
	http.Redirect(w, r, "/?customer="+c.ID, http.StatusSeeOther)
}

// handleSearchCustomers handles GET /api/customers?q=&limit=
func handleSearchCustomers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	customers, err := projections.QuerySearchCustomers(r.Context(), projections.SearchCustomersQuery{
		Search: r.URL.Query().Get("q"),
		Limit:  limit,
	}, projections.SearchCustomersDeps{CustomerStore: stores.CustomerStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customerSummaries(customers))
}

// handleListCategories handles GET /api/categories?gender=
func handleListCategories(w http.ResponseWriter, r *http.Request) {
	gender := domainCustomer.NormalizeGender(r.URL.Query().Get("gender"))
	cats, err := projections.QueryListCategories(r.Context(), gender, projections.ListCategoriesDeps{
		CategoryStore: stores.CategoryStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryBodies(cats))
}

package web

import (
	"errors"
	"net/http"

	"tailorshop/internal/adapters/http/middleware"
	"tailorshop/internal/application/orchestrators"
)

// handleLoginPage handles GET /login
func handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", map[string]any{"Username": "", "Error": ""})
}

// handleLogin handles POST /login. JSON callers get {success} instead of a
// redirect so the terminal desk can sign in with the same form.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.LoginInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	deps := orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
		AuditStore:   stores.AuditStore,
		Now:          timeNow,
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
	if err != nil {
		if !errors.Is(err, orchestrators.ErrInvalidCredentials) && !errors.Is(err, orchestrators.ErrAccountLocked) {
			internalError(w, err)
			return
		}
		if middleware.WantsJSON(r) {
			writeResult(w, http.StatusUnauthorized, false, err.Error())
			return
		}
		renderTemplateStatus(w, r, http.StatusUnauthorized, "login.html", map[string]any{
			"Error":    err.Error(),
			"Username": input.Username,
		})
		return
	}

	token, err := sessions.Create(result.AccountID, result.Username, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	if middleware.WantsJSON(r) {
		writeResult(w, http.StatusOK, true, "")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	if middleware.WantsJSON(r) {
		writeResult(w, http.StatusOK, true, "")
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleCSRFToken handles GET /api/csrf. The CSRF middleware has already
// set the token header; the body is empty.
func handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}

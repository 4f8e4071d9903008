package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func csrfServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /delete/measurement/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	srv := httptest.NewServer(Chain(mux, CSRF(CSRFOptions{Key: testKey})))
	t.Cleanup(srv.Close)
	jar, _ := cookiejar.New(nil)
	return srv, &http.Client{Jar: jar}
}

func fetchToken(t *testing.T, srv *httptest.Server, c *http.Client) string {
	t.Helper()
	resp, err := c.Get(srv.URL + "/token")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	token := resp.Header.Get(CSRFResponseHeader)
	if token == "" {
		t.Fatal("GET did not issue a CSRF token header")
	}
	return token
}

func TestCSRFAcceptsHeaderToken(t *testing.T) {
	srv, c := csrfServer(t)
	token := fetchToken(t, srv, c)

	req, _ := http.NewRequest("POST", srv.URL+"/delete/measurement/m1", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(CSRFRequestHeader, token)
	resp, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestCSRFRejectsJSONWithoutToken(t *testing.T) {
	srv, c := csrfServer(t)
	fetchToken(t, srv, c)

	req, _ := http.NewRequest("POST", srv.URL+"/delete/measurement/m1", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Message == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestCSRFAcceptsFormField(t *testing.T) {
	srv, c := csrfServer(t)
	token := fetchToken(t, srv, c)

	form := url.Values{CSRFFieldName: {token}}
	resp, err := c.Post(srv.URL+"/delete/measurement/m1", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	sessions := NewSessionStore()
	token, err := sessions.Create("a1", "admin", "master")
	if err != nil {
		t.Fatal(err)
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _ := GetSessionFromContext(r.Context())
		w.Write([]byte(s.Username))
	})
	handler := Auth(sessions)(RequireAuth(ok))

	tests := []struct {
		name     string
		path     string
		cookie   string
		accept   string
		wantCode int
	}{
		{"logged in", "/", token, "", http.StatusOK},
		{"page redirects", "/", "", "", http.StatusSeeOther},
		{"api gets 401", "/api/customer/c1", "", "", http.StatusUnauthorized},
		{"json accept gets 401", "/orders", "", "application/json", http.StatusUnauthorized},
		{"bad cookie", "/", "nope", "", http.StatusSeeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantCode)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole("master")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	staff := httptest.NewRequest("GET", "/api/history", nil)
	staff = staff.WithContext(ContextWithSession(staff.Context(), Session{Username: "sam", Role: "staff"}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, staff)
	if rr.Code != http.StatusForbidden {
		t.Errorf("staff status = %d, want 403", rr.Code)
	}

	master := httptest.NewRequest("GET", "/api/history", nil)
	master = master.WithContext(ContextWithSession(master.Context(), Session{Username: "admin", Role: "master"}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, master)
	if rr.Code != http.StatusOK {
		t.Errorf("master status = %d, want 200", rr.Code)
	}
}

func TestSessionExpiry(t *testing.T) {
	ss := NewSessionStore()
	now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }
	token, _ := ss.Create("a1", "admin", "master")

	if _, ok := ss.Get(token); !ok {
		t.Fatal("fresh session not found")
	}
	now = now.Add(SessionTTL + time.Minute)
	if _, ok := ss.Get(token); ok {
		t.Error("expired session still valid")
	}
	ss.Delete(token)
}

func TestSessionCreatePurgesExpired(t *testing.T) {
	ss := NewSessionStore()
	now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }
	stale, _ := ss.Create("a1", "staff", "staff")

	now = now.Add(SessionTTL)
	fresh, _ := ss.Create("a2", "admin", "master")

	if n := ss.Len(); n != 1 {
		t.Errorf("sessions = %d, want 1 after purge", n)
	}
	if _, ok := ss.Get(stale); ok {
		t.Error("stale session survived the purge")
	}
	if sess, ok := ss.Get(fresh); !ok || !sess.IsMaster() {
		t.Errorf("fresh session = %+v, %v", sess, ok)
	}
}

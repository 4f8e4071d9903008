package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	domainAccount "tailorshop/internal/domain/account"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionTTL is how long a login lasts.
const SessionTTL = 12 * time.Hour

// SessionCookieName names the login cookie.
const SessionCookieName = "tailorshop_session"

// SecureCookies marks cookies Secure; set when served over TLS.
var SecureCookies = false

// Session is one signed-in counter user.
type Session struct {
	AccountID string
	Username  string
	Role      string
	ExpiresAt time.Time
}

// IsMaster reports whether the session belongs to the shop owner.
func (s Session) IsMaster() bool {
	return s.Role == domainAccount.RoleMaster
}

// SessionStore keeps sessions in memory; a restart signs everyone out.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create signs an account in and returns the cookie token.
// PRE: accountID, username, role are non-empty
// POST: Session is stored until now+SessionTTL; expired sessions are purged
func (ss *SessionStore) Create(accountID, username, role string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	for t, sess := range ss.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(ss.sessions, t)
		}
	}
	ss.sessions[token] = Session{
		AccountID: accountID,
		Username:  username,
		Role:      role,
		ExpiresAt: now.Add(SessionTTL),
	}
	return token, nil
}

// Get looks a token up. An expired session is dropped and reported missing.
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	sess, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	if !ss.now().Before(sess.ExpiresAt) {
		delete(ss.sessions, token)
		return Session{}, false
	}
	return sess, true
}

// Len counts stored sessions, expired ones included until the next purge.
func (ss *SessionStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// Auth attaches the cookie's session to the request context. Anonymous
// requests pass through; RequireAuth and RequireRole do the blocking.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth blocks unauthenticated requests: JSON callers get 401, pages
// are redirected to /login.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			unauthenticated(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole lets through only sessions holding one of roles; others get 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSessionFromContext(r.Context())
			if !ok {
				unauthenticated(w, r)
				return
			}
			if !roleSet[session.Role] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthenticated(w http.ResponseWriter, r *http.Request) {
	if WantsJSON(r) || strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "login required"})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionKey).(Session)
	return session, ok
}

func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SetSessionCookie hands the browser its token, scoped to SessionTTL.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

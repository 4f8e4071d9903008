package web

import (
	"crypto/rand"
	"log"
	"net/http"
	"sync"

	"tailorshop/internal/adapters/email"
	"tailorshop/internal/adapters/http/middleware"
	accountStore "tailorshop/internal/adapters/storage/account"
	auditStore "tailorshop/internal/adapters/storage/audit"
	categoryStore "tailorshop/internal/adapters/storage/category"
	customerStore "tailorshop/internal/adapters/storage/customer"
	measurementStore "tailorshop/internal/adapters/storage/measurement"
	orderStore "tailorshop/internal/adapters/storage/order"
	"tailorshop/internal/application/orchestrators"
	domainAccount "tailorshop/internal/domain/account"
	"tailorshop/internal/metrics"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore     accountStore.Store
	AuditStore       auditStore.Store
	CustomerStore    customerStore.Store
	CategoryStore    categoryStore.Store
	MeasurementStore measurementStore.Store
	OrderStore       orderStore.Store
}

// Options configures the HTTP surface.
type Options struct {
	CSRFKey        string // 32 bytes; empty generates a key per process
	Secure         bool
	TrustedOrigins []string
	Metrics        *metrics.Collector
	Sender         email.Sender
	StaticDir      string // empty disables /static/
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global metrics collector (set by NewMux; nil records nothing)
var collector *metrics.Collector

// Global email sender for receipts (nil disables receipts)
var emailSender email.Sender

var (
	shopMu   sync.RWMutex
	shopInfo = orchestrators.ShopInfo{Name: "Tailor Shop", Currency: "₹"}
)

// SetShop replaces the shop name and currency. It is safe to call while
// serving, e.g. from a config reload.
func SetShop(info orchestrators.ShopInfo) {
	shopMu.Lock()
	defer shopMu.Unlock()
	shopInfo = info
}

// currentShop returns the live shop name and currency.
func currentShop() orchestrators.ShopInfo {
	shopMu.RLock()
	defer shopMu.RUnlock()
	return shopInfo
}

// csrfKey returns the configured key, or a random one with a warning.
func csrfKey(configured string) []byte {
	if configured != "" {
		return []byte(configured)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (forms won't survive restart). Set server.csrf_key for production.")
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, opts Options) http.Handler {
	stores = s
	collector = opts.Metrics
	emailSender = opts.Sender
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = opts.Secure

	mux := http.NewServeMux()
	if opts.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}
	registerRoutes(mux)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RecordRoute -> Mux
	return middleware.Chain(middleware.RecordRoute(mux),
		middleware.SecurityHeaders,
		middleware.CSRF(middleware.CSRFOptions{
			Key:            csrfKey(opts.CSRFKey),
			Secure:         opts.Secure,
			TrustedOrigins: opts.TrustedOrigins,
		}),
		middleware.Auth(sessions),
		middleware.Timing(collector),
	)
}

func registerRoutes(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	master := middleware.RequireRole(domainAccount.RoleMaster)

	// Public
	mux.HandleFunc("GET /login", handleLoginPage)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)
	mux.HandleFunc("GET /api/csrf", handleCSRFToken)
	mux.Handle("GET /metrics", collector.Handler())

	// Pages
	mux.Handle("GET /{$}", authed(handleHome))
	mux.Handle("GET /customers/{id}/profile", authed(handleProfileSidebar))

	// Customers and measurements
	mux.Handle("POST /customers", authed(handleCreateCustomer))
	mux.Handle("GET /api/customers", authed(handleSearchCustomers))
	mux.Handle("GET /api/categories", authed(handleListCategories))
	mux.Handle("GET /api/customer/{id}", authed(handleCustomerProfile))
	mux.Handle("GET /customer/{id}/measurement", authed(handleMeasurementForm))
	mux.Handle("POST /customer/{id}/measurement", authed(handleCreateMeasurement))
	mux.Handle("POST /delete/measurement/{id}", authed(handleDeleteMeasurement))

	// Orders and bills
	mux.Handle("POST /orders", authed(handleCreateOrder))
	mux.Handle("POST /orders/update_details", authed(handleUpdateOrderDetails))
	mux.Handle("POST /bills/update", authed(handleRecordPayment))
	mux.Handle("GET /api/bills", authed(handleListBills))

	// Master only
	mux.Handle("GET /api/history", master(http.HandlerFunc(handleHistory)))
}

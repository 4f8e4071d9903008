package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "tailorshop/internal/adapters/http"
	"tailorshop/internal/adapters/storage"
	accountStore "tailorshop/internal/adapters/storage/account"
	auditStore "tailorshop/internal/adapters/storage/audit"
	categoryStore "tailorshop/internal/adapters/storage/category"
	customerStore "tailorshop/internal/adapters/storage/customer"
	measurementStore "tailorshop/internal/adapters/storage/measurement"
	orderStore "tailorshop/internal/adapters/storage/order"
	"tailorshop/internal/application/orchestrators"
	"tailorshop/internal/domain/customer"
	"tailorshop/internal/domain/measurement"
	"tailorshop/internal/metrics"
)

const (
	testUsername = "owner"
	testPassword = "stitch-in-time"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to initialise test DB: %v", err)
	}

	collector := metrics.New()
	timed := storage.NewTimedDB(db, collector)
	stores := &web.Stores{
		AccountStore:     accountStore.NewSQLiteStore(timed),
		AuditStore:       auditStore.NewSQLiteStore(timed),
		CustomerStore:    customerStore.NewSQLiteStore(timed),
		CategoryStore:    categoryStore.NewSQLiteStore(timed),
		MeasurementStore: measurementStore.NewSQLiteStore(timed),
		OrderStore:       orderStore.NewSQLiteStore(timed),
	}

	ctx := context.Background()
	newID := func() string { return uuid.New().String() }
	if _, err := orchestrators.ExecuteSeedMaster(ctx, orchestrators.SeedMasterInput{
		Username: testUsername,
		Password: testPassword,
	}, orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore, GenerateID: newID, Now: time.Now}); err != nil {
		t.Fatalf("failed to seed master: %v", err)
	}
	if _, err := orchestrators.ExecuteSeedCategories(ctx, orchestrators.SeedCategoriesDeps{
		CategoryStore: stores.CategoryStore,
		GenerateID:    newID,
	}); err != nil {
		t.Fatalf("failed to seed categories: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	mux := web.NewMux(stores, web.Options{
		TrustedOrigins: []string{
			fmt.Sprintf("127.0.0.1:%d", port),
			fmt.Sprintf("localhost:%d", port),
		},
		Metrics:   collector,
		StaticDir: "static",
	})
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// seedCustomer saves a customer with one shirt measurement and returns its id.
func (a *testApp) seedCustomer(t *testing.T, name, mobile string) string {
	t.Helper()
	ctx := context.Background()
	c := customer.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Mobile:    mobile,
		Gender:    customer.GenderMale,
		CreatedAt: time.Now(),
	}
	if err := a.Stores.CustomerStore.Save(ctx, c); err != nil {
		t.Fatalf("failed to save customer: %v", err)
	}

	cats, err := a.Stores.CategoryStore.List(ctx, customer.GenderMale)
	if err != nil || len(cats) == 0 {
		t.Fatalf("no male categories seeded: %v", err)
	}
	m := measurement.Measurement{
		ID:         uuid.New().String(),
		CustomerID: c.ID,
		CategoryID: cats[0].ID,
		TakenAt:    time.Now(),
		Data: measurement.FieldValues(
			measurement.NumberField("Length", 30),
			measurement.NumberField("Chest", 40),
		),
		Remarks: "slim fit",
	}
	if err := a.Stores.MeasurementStore.Save(ctx, m); err != nil {
		t.Fatalf("failed to save measurement: %v", err)
	}
	return c.ID
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login navigates to the login page and signs in as the master account.
func (a *testApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=username]").Fill(testUsername); err != nil {
		t.Fatalf("failed to fill username: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(testPassword); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to home: %v", err)
	}
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}

package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tailorshop/internal/adapters/email"
	web "tailorshop/internal/adapters/http"
	"tailorshop/internal/adapters/storage"
	accountStore "tailorshop/internal/adapters/storage/account"
	auditStore "tailorshop/internal/adapters/storage/audit"
	categoryStore "tailorshop/internal/adapters/storage/category"
	customerStore "tailorshop/internal/adapters/storage/customer"
	measurementStore "tailorshop/internal/adapters/storage/measurement"
	orderStore "tailorshop/internal/adapters/storage/order"
	"tailorshop/internal/application/orchestrators"
	"tailorshop/internal/config"
	"tailorshop/internal/metrics"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	configPath := envOrDefault("TAILORSHOP_CONFIG", "tailorshop.yaml")
	if _, err := os.Stat(configPath); err != nil {
		log.Printf("config file %s not found, using defaults", configPath)
		configPath = ""
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if !cfg.IsProduction() {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	dsn := cfg.Database.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialise database: %v", err)
	}

	collector := metrics.New()
	timedDB := storage.NewTimedDB(db, collector)

	stores := &web.Stores{
		AccountStore:     accountStore.NewSQLiteStore(timedDB),
		AuditStore:       auditStore.NewSQLiteStore(timedDB),
		CustomerStore:    customerStore.NewSQLiteStore(timedDB),
		CategoryStore:    categoryStore.NewSQLiteStore(timedDB),
		MeasurementStore: measurementStore.NewSQLiteStore(timedDB),
		OrderStore:       orderStore.NewSQLiteStore(timedDB),
	}

	ctx := context.Background()
	newID := func() string { return uuid.New().String() }

	seeded, err := orchestrators.ExecuteSeedMaster(ctx, orchestrators.SeedMasterInput{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	}, orchestrators.CreateAccountDeps{
		AccountStore: stores.AccountStore,
		GenerateID:   newID,
		Now:          time.Now,
	})
	if err != nil {
		log.Fatalf("failed to seed master account: %v", err)
	}
	if seeded {
		log.Printf("Master account %q created", cfg.Admin.Username)
	}

	n, err := orchestrators.ExecuteSeedCategories(ctx, orchestrators.SeedCategoriesDeps{
		CategoryStore: stores.CategoryStore,
		GenerateID:    newID,
	})
	if err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}
	if n > 0 {
		log.Printf("Seeded %d garment categories", n)
	}

	sender := email.NewSender(cfg.Email.ResendKey, cfg.Email.From, cfg.Email.ReplyTo)
	if cfg.Email.ResendKey == "" {
		if cfg.IsProduction() {
			log.Println("WARNING: email.resend_key is not set, receipts will not be delivered")
		} else {
			log.Println("Email sender configured (noop, set email.resend_key for real delivery)")
		}
	}

	web.SetShop(orchestrators.ShopInfo{Name: cfg.Shop.Name, Currency: cfg.Shop.Currency})
	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, func(next *config.Config) {
			web.SetShop(orchestrators.ShopInfo{Name: next.Shop.Name, Currency: next.Shop.Currency})
		})
		if err != nil {
			log.Printf("config watcher disabled: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	mux := web.NewMux(stores, web.Options{
		CSRFKey:   cfg.Server.CSRFKey,
		Secure:    cfg.Server.Secure,
		Metrics:   collector,
		Sender:    sender,
		StaticDir: "static",
	})

	log.Printf("Tailor shop %s starting on %s (env=%s, db=%s)", version, cfg.Server.Addr, cfg.Env, cfg.Database.Path)
	if err := http.ListenAndServe(cfg.Server.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Package config loads the shop's YAML configuration, with ${VAR}
// substitution from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment names recognised in TAILORSHOP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// csrfKeyLength is the key size gorilla/csrf requires.
const csrfKeyLength = 32

// Config is the full server and client configuration.
type Config struct {
	Env      string         `yaml:"-"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Shop     ShopConfig     `yaml:"shop"`
	Email    EmailConfig    `yaml:"email"`
	Admin    AdminConfig    `yaml:"admin"`
	Client   ClientConfig   `yaml:"client"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Secure  bool   `yaml:"secure"`
	CSRFKey string `yaml:"csrf_key"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ShopConfig holds values shown to operators. Both can change at runtime.
type ShopConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// EmailConfig configures receipt delivery. An empty ResendKey disables sending.
type EmailConfig struct {
	ResendKey string `yaml:"resend_key"`
	From      string `yaml:"from"`
	ReplyTo   string `yaml:"reply_to"`
}

// AdminConfig seeds the master account on an empty database.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ClientConfig is read by the terminal desk.
type ClientConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	const mask = "***REDACTED***"
	if c.Server.CSRFKey != "" {
		c.Server.CSRFKey = mask
	}
	if c.Email.ResendKey != "" {
		c.Email.ResendKey = mask
	}
	if c.Admin.Password != "" {
		c.Admin.Password = mask
	}
	return c
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars replaces ${VAR} with the environment value. Unset
// variables are left as written.
func substituteEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envVarPattern.FindSubmatch(match)[1]
		if val, ok := os.LookupEnv(string(varName)); ok {
			return []byte(val)
		}
		return match
	})
}

// LoadEnv loads KEY=VALUE files into the process environment. Missing files
// are skipped; variables already set are not overwritten.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the config file at path. An empty path yields the defaults.
// PRE: path is empty or names a readable YAML file
// POST: Returns a config with defaults applied that passed validation
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		data = substituteEnvVars(data)
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Env = os.Getenv("TAILORSHOP_ENV")
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.IsProduction() {
		cfg.Server.Secure = true
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "tailorshop.db"
	}
	if cfg.Shop.Name == "" {
		cfg.Shop.Name = "Tailor Shop"
	}
	if cfg.Shop.Currency == "" {
		cfg.Shop.Currency = "₹"
	}
	if cfg.Email.From == "" {
		cfg.Email.From = "receipts@tailorshop.local"
	}
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = "admin"
	}
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = "http://localhost:8080"
	}
}

func validate(cfg *Config) error {
	if cfg.Env != EnvDevelopment && cfg.Env != EnvProduction {
		return fmt.Errorf("unknown environment %q (must be development or production)", cfg.Env)
	}
	if cfg.Server.CSRFKey != "" && len(cfg.Server.CSRFKey) != csrfKeyLength {
		return fmt.Errorf("server.csrf_key must be exactly %d bytes", csrfKeyLength)
	}
	if cfg.IsProduction() && cfg.Server.CSRFKey == "" {
		return errors.New("server.csrf_key is required in production")
	}
	if cfg.Admin.Password != "" && len(cfg.Admin.Password) < 8 {
		return errors.New("admin.password must be at least 8 characters")
	}
	return nil
}

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	path     string
	callback func(*Config)
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	stopCh   chan struct{}
	debounce time.Duration
}

// NewWatcher starts watching path and calls callback with each valid reload.
// An invalid file is logged and ignored; the last good config stays active.
func NewWatcher(path string, callback func(*Config)) (*Watcher, error) {
	return newWatcher(path, 500*time.Millisecond, callback)
}

func newWatcher(path string, debounce time.Duration, callback func(*Config)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching config file: %w", err)
	}

	cw := &Watcher{
		path:     path,
		callback: callback,
		watcher:  w,
		stopCh:   make(chan struct{}),
		debounce: debounce,
	}

	go cw.run()
	return cw, nil
}

func (cw *Watcher) run() {
	var debounce *time.Timer
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(cw.debounce, cw.reload)
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("config_watch_error", "error", err)
		case <-cw.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return
		}
	}
}

func (cw *Watcher) reload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cfg, err := Load(cw.path)
	if err != nil {
		slog.Warn("config_reload_failed", "path", cw.path, "error", err)
		return
	}

	slog.Info("config_reloaded", "path", cw.path)
	cw.callback(cfg)
}

// Stop ends watching.
func (cw *Watcher) Stop() error {
	close(cw.stopCh)
	return cw.watcher.Close()
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMongoDB = "mongodb"
	DriverMemory  = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Shop        ShopConfig
	Reporting   ReportingConfig
	WhatsApp    WhatsAppConfig
	Sheets      SheetsConfig
	Identity    IdentityConfig
	Idempotency IdempotencyConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// StoreConfig selects and configures the record store.
type StoreConfig struct {
	Driver string
	URI    string
	DBName string
}

// ShopConfig holds the business settings of the shop.
type ShopConfig struct {
	Timezone          string
	PhoneRegion       string
	LowStockThreshold int
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	DailyCronSchedule  string
	WeeklyCronSchedule string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API. The
// weekly summary is only sent when Enabled reports true.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	ReportTo      string
}

// Enabled reports whether enough is configured to send messages.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != "" && w.ReportTo != ""
}

// SheetsConfig configures the optional Google Sheets ledger mirror.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	LedgerRange     string
}

// Enabled reports whether the ledger mirror should be wired.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// IdentityConfig configures how acting users are resolved. Without an API key
// the trusted development headers are used.
type IdentityConfig struct {
	APIKey  string
	BaseURL string
}

// IdempotencyConfig configures the POST replay guard. Without an address an
// in-process store is used.
type IdempotencyConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when everything comes from the environment.
		_ = godotenv.Load()
	}

	lowStock, err := getenvInt("LOW_STOCK_THRESHOLD", 5)
	if err != nil {
		return nil, err
	}
	redisDB, err := getenvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	ttl, err := time.ParseDuration(getenvWithDefault("IDEMPOTENCY_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getenvWithDefault("STORE_DRIVER", DriverMongoDB)),
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "ambika"),
		},
		Shop: ShopConfig{
			Timezone:          getenvWithDefault("TIMEZONE", "Asia/Dhaka"),
			PhoneRegion:       getenvWithDefault("PHONE_REGION", "BD"),
			LowStockThreshold: lowStock,
		},
		Reporting: ReportingConfig{
			DailyCronSchedule:  getenvWithDefault("REPORT_CRON_SCHEDULE", "0 23 * * *"),
			WeeklyCronSchedule: getenvWithDefault("WEEKLY_REPORT_CRON_SCHEDULE", "0 20 * * 5"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ReportTo:      os.Getenv("WHATSAPP_REPORT_TO"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			LedgerRange:     getenvWithDefault("LEDGER_SHEET_RANGE", "Ledger!A:E"),
		},
		Identity: IdentityConfig{
			APIKey:  os.Getenv("IDENTITY_API_KEY"),
			BaseURL: getenvWithDefault("IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com"),
		},
		Idempotency: IdempotencyConfig{
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
			TTL:           ttl,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverMongoDB:
		if c.Store.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.Store.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongoDB, DriverMemory, c.Store.Driver)
	}

	if c.Shop.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := time.LoadLocation(c.Shop.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Shop.Timezone, err)
	}

	if c.Shop.LowStockThreshold < 0 {
		return errors.New("LOW_STOCK_THRESHOLD must not be negative")
	}

	if c.Reporting.DailyCronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if c.Reporting.WeeklyCronSchedule == "" {
		return errors.New("WEEKLY_REPORT_CRON_SCHEDULE must be provided")
	}

	if c.WhatsApp.Enabled() {
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.Idempotency.TTL <= 0 {
		return errors.New("IDEMPOTENCY_TTL must be positive")
	}

	return nil
}

// Location returns the configured shop timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Shop.Timezone)
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

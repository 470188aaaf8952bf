package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"studiobooking/internal/pkg/facilitytime"
)

const (
	MamoPaySandboxURL    = "https://sandbox.dev.business.mamopay.com/manage_api/v1"
	MamoPayProductionURL = "https://business.mamopay.com/manage_api/v1"
)

type Config struct {
	AppEnv   string `mapstructure:"APP_ENV"`
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	RedisURL    string `mapstructure:"REDIS_URL"`

	FacilityOffsetMinutes int           `mapstructure:"FACILITY_UTC_OFFSET_MINUTES"`
	VatRatePercent        string        `mapstructure:"VAT_RATE_PERCENT"`
	MaxBookingHours       int           `mapstructure:"MAX_BOOKING_HOURS"`
	LookAheadDays         int           `mapstructure:"AVAILABILITY_LOOKAHEAD_DAYS"`
	BookingTxTimeout      time.Duration `mapstructure:"BOOKING_TX_TIMEOUT"`
	NotifyTimeout         time.Duration `mapstructure:"NOTIFY_TIMEOUT"`
	AvailabilityCacheTTL  time.Duration `mapstructure:"AVAILABILITY_CACHE_TTL"`

	MamoPayAPIKey      string `mapstructure:"MAMOPAY_API_KEY"`
	MamoPayEnvironment string `mapstructure:"MAMOPAY_ENVIRONMENT"`
	MamoPayBaseURL     string `mapstructure:"MAMOPAY_BASE_URL"`
	PaymentReturnURL   string `mapstructure:"PAYMENT_RETURN_URL"`
	PaymentFailureURL  string `mapstructure:"PAYMENT_FAILURE_URL"`

	NotionToken      string `mapstructure:"NOTION_TOKEN"`
	NotionDatabaseID string `mapstructure:"NOTION_DATABASE_ID"`

	BookingWebhookURL           string `mapstructure:"TRIGGER_DEV_BOOKING_WEBHOOK_URL"`
	BookingWebhookToken         string `mapstructure:"TRIGGER_DEV_BOOKING_WEBHOOK_TOKEN"`
	BookingWebhookEnabled       bool   `mapstructure:"TRIGGER_DEV_BOOKING_WEBHOOK_ENABLED"`
	BookingWebhookSigningSecret string `mapstructure:"BOOKING_WEBHOOK_SIGNING_SECRET"`

	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	VatRate decimal.Decimal `mapstructure:"-"`
}

var defaults = map[string]any{
	"APP_ENV":                             "dev",
	"PORT":                                "8080",
	"LOG_LEVEL":                           "info",
	"DATABASE_URL":                        "studiobooking.db",
	"REDIS_URL":                           "",
	"FACILITY_UTC_OFFSET_MINUTES":         facilitytime.DefaultOffsetMinutes,
	"VAT_RATE_PERCENT":                    "5",
	"MAX_BOOKING_HOURS":                   12,
	"AVAILABILITY_LOOKAHEAD_DAYS":         14,
	"BOOKING_TX_TIMEOUT":                  "15s",
	"NOTIFY_TIMEOUT":                      "10s",
	"AVAILABILITY_CACHE_TTL":              "60s",
	"MAMOPAY_API_KEY":                     "",
	"MAMOPAY_ENVIRONMENT":                 "sandbox",
	"MAMOPAY_BASE_URL":                    "",
	"PAYMENT_RETURN_URL":                  "http://localhost:3000/booking/success",
	"PAYMENT_FAILURE_URL":                 "http://localhost:3000/booking/failed",
	"NOTION_TOKEN":                        "",
	"NOTION_DATABASE_ID":                  "",
	"TRIGGER_DEV_BOOKING_WEBHOOK_URL":     "",
	"TRIGGER_DEV_BOOKING_WEBHOOK_TOKEN":   "",
	"TRIGGER_DEV_BOOKING_WEBHOOK_ENABLED": false,
	"BOOKING_WEBHOOK_SIGNING_SECRET":      "",
	"CORS_ALLOWED_ORIGINS":                "",
	"RATE_LIMIT_PER_MINUTE":               120,
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.MamoPayEnvironment = strings.ToLower(strings.TrimSpace(cfg.MamoPayEnvironment))
	if cfg.MamoPayBaseURL == "" {
		cfg.MamoPayBaseURL = MamoPaySandboxURL
		if cfg.MamoPayEnvironment == "production" {
			cfg.MamoPayBaseURL = MamoPayProductionURL
		}
	}

	vat, err := decimal.NewFromString(strings.TrimSpace(cfg.VatRatePercent))
	if err != nil {
		return nil, fmt.Errorf("invalid VAT_RATE_PERCENT value %q: %w", cfg.VatRatePercent, err)
	}
	cfg.VatRate = vat

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.VatRate.IsNegative() {
		return errors.New("VAT_RATE_PERCENT must be >= 0")
	}
	if cfg.MaxBookingHours <= 0 {
		return errors.New("MAX_BOOKING_HOURS must be > 0")
	}
	if cfg.LookAheadDays <= 0 {
		return errors.New("AVAILABILITY_LOOKAHEAD_DAYS must be > 0")
	}
	if cfg.BookingTxTimeout <= 0 {
		return errors.New("BOOKING_TX_TIMEOUT must be > 0")
	}
	if cfg.NotifyTimeout <= 0 {
		return errors.New("NOTIFY_TIMEOUT must be > 0")
	}
	if cfg.FacilityOffsetMinutes <= -24*60 || cfg.FacilityOffsetMinutes >= 24*60 {
		return errors.New("FACILITY_UTC_OFFSET_MINUTES must be within one day")
	}
	if cfg.MamoPayEnvironment != "sandbox" && cfg.MamoPayEnvironment != "production" {
		return errors.New("MAMOPAY_ENVIRONMENT must be one of: sandbox, production")
	}
	if cfg.BookingWebhookEnabled && strings.TrimSpace(cfg.BookingWebhookURL) == "" {
		return errors.New("TRIGGER_DEV_BOOKING_WEBHOOK_URL must be set when the booking webhook is enabled")
	}

	if cfg.IsProdLike() {
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
			return errors.New("in prod/release DATABASE_URL must point to PostgreSQL")
		}
		if strings.TrimSpace(cfg.MamoPayAPIKey) == "" {
			return errors.New("in prod/release MAMOPAY_API_KEY must be set")
		}
	}
	return nil
}

func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

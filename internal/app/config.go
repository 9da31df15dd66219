package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/cardhaus/preorder-api/internal/domain/pricing"
)

// Config holds the complete application configuration, loadable from
// environment variables (PREORDER_ prefix), flags, or YAML config files.
type Config struct {
	Addr          string        `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL   string        `usage:"PostgreSQL connection URL (PREORDER_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	SessionSecret string        `usage:"HMAC secret for session tokens (PREORDER_SESSION_SECRET)" flag:"session-secret"`
	SessionTTL    time.Duration `default:"24h" usage:"Session token lifetime" flag:"session-ttl"`
	UnitPrice     string        `default:"39.99" usage:"Price of one booster box" flag:"unit-price"`
	Tiers         []TierConfig  `usage:"Discount tier bands, first to last"`
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Graceful      GracefulConfig
}

// TierConfig is one discount band. A non-positive limit means the band
// never fills.
type TierConfig struct {
	Limit      int `usage:"Orders this band admits"`
	Percentage int `usage:"Discount percentage for the band"`
}

// RateLimitConfig controls the per-client fixed window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"true" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "PREORDER",
		Files:     []string{"config.yaml", "/etc/preorder/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set PREORDER_DATABASE_URL or DATABASE_URL")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret is required: set PREORDER_SESSION_SECRET")
	}

	return &cfg, nil
}

// pricingTable maps the configured tier bands to a pricing.Table, falling
// back to the default bands when none are configured.
func (c *Config) pricingTable() (pricing.Table, error) {
	if len(c.Tiers) == 0 {
		return pricing.DefaultTable(), nil
	}

	table := make(pricing.Table, len(c.Tiers))
	for i, t := range c.Tiers {
		limit := t.Limit
		if limit <= 0 {
			limit = pricing.Unbounded
		}
		table[i] = pricing.Tier{Limit: limit, Percentage: t.Percentage}
	}
	if err := table.Validate(); err != nil {
		return nil, errors.Wrap(err, "tiers")
	}
	return table, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and
// PORT to the application's PREORDER_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}

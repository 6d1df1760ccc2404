package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (FUTURSHOP_ prefix), flags, or YAML config files.
type Config struct {
	Addr string `default:"0.0.0.0:8080" usage:"API server listen address"`

	// DataDir holds the durable state: the catalog file and the uploaded
	// image blob area.
	DataDir   string `default:"data" usage:"directory for catalog.json and uploads/" flag:"data-dir"`
	StaticDir string `default:"web" usage:"static site root served at /; ignored when missing" flag:"static-dir"`

	PublicBaseURL   string        `default:"http://localhost:8080" usage:"externally visible base URL for payment redirects" flag:"public-base-url"`
	Currency        string        `default:"eur" usage:"ISO currency code for checkout sessions"`
	StripeSecretKey string        `usage:"Stripe API secret key (FUTURSHOP_STRIPE_SECRET_KEY or STRIPE_SECRET_KEY)" flag:"stripe-secret-key"`
	CheckoutTimeout time.Duration `default:"10s" usage:"timeout for checkout session requests" flag:"checkout-timeout"`

	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// CatalogPath is the durable catalog file inside DataDir.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.DataDir, "catalog.json")
}

// UploadsDir is the write-once image blob area inside DataDir.
func (c *Config) UploadsDir() string {
	return filepath.Join(c.DataDir, "uploads")
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "FUTURSHOP",
		Files:     []string{"config.yaml", "/etc/futurshop/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.StripeSecretKey == "" {
		return nil, errors.New("Stripe secret key is required: set FUTURSHOP_STRIPE_SECRET_KEY or STRIPE_SECRET_KEY")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables that
// use standard names like STRIPE_SECRET_KEY and PORT to the application's
// FUTURSHOP_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.StripeSecretKey == "" {
		if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
			c.StripeSecretKey = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}

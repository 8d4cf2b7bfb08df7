package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/Ahmed-Mansy/shoe-zone-online/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Upstream commerce API
	APIBaseURL      string `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	APITimeout      int    `env:"API_TIMEOUT_SECONDS" envDefault:"10"`
	AdminAPIBaseURL string `env:"ADMIN_API_BASE_URL" envDefault:""`

	// Session and cart mirror store: "memory" or "redis"
	SessionStore string `env:"SESSION_STORE" envDefault:"memory"`
	SessionTTL   int    `env:"SESSION_TTL_MINUTES" envDefault:"1440"`

	// Redis (used when SESSION_STORE=redis)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Payment provider: "mock" or "stripe"
	PaymentProvider      string `env:"PAYMENT_PROVIDER" envDefault:"mock"`
	StripePublishableKey string `env:"STRIPE_PUBLISHABLE_KEY" envDefault:""`

	// Delay before the storefront tells the browser to leave the checkout
	// success screen for the order history page.
	SuccessRedirectDelay time.Duration `env:"SUCCESS_REDIRECT_DELAY" envDefault:"2s"`

	// Circuit breaker settings for upstream API calls
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if _, err := url.ParseRequestURI(c.APIBaseURL); err != nil {
		return fmt.Errorf("invalid API_BASE_URL %q: %w", c.APIBaseURL, err)
	}
	if c.AdminAPIBaseURL != "" {
		if _, err := url.ParseRequestURI(c.AdminAPIBaseURL); err != nil {
			return fmt.Errorf("invalid ADMIN_API_BASE_URL %q: %w", c.AdminAPIBaseURL, err)
		}
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("SESSION_STORE must be \"memory\" or \"redis\", got %q", c.SessionStore)
	}
	switch c.PaymentProvider {
	case "mock":
	case "stripe":
		if c.StripePublishableKey == "" {
			return fmt.Errorf("STRIPE_PUBLISHABLE_KEY is required when PAYMENT_PROVIDER is \"stripe\"")
		}
	default:
		return fmt.Errorf("PAYMENT_PROVIDER must be \"mock\" or \"stripe\", got %q", c.PaymentProvider)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.SuccessRedirectDelay < 0 {
		return fmt.Errorf("SUCCESS_REDIRECT_DELAY must not be negative")
	}
	return nil
}

// AdminBaseURL returns the admin upstream base URL, falling back to the
// storefront API base when no dedicated admin endpoint is configured.
func (c *Config) AdminBaseURL() string {
	if c.AdminAPIBaseURL != "" {
		return c.AdminAPIBaseURL
	}
	return c.APIBaseURL
}

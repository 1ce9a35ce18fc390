package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (HOTEL_ prefix), flags, or YAML config files.
type Config struct {
	Addr       string   `default:"0.0.0.0:8080" usage:"API server listen address"`
	SeedFile   string   `usage:"Seed YAML with rooms, offers and reviews (embedded default when empty)" flag:"seed-file"`
	PromoFiles []string `usage:"Extra promo code fragments produced by promo-ingest" flag:"promo-files"`
	Admin      AdminConfig
	Notify     NotifyConfig
	RateLimit  RateLimitConfig
	Graceful   GracefulConfig
}

// AdminConfig is the credential pair guarding the catalog endpoints.
type AdminConfig struct {
	Username string `default:"admin"    usage:"Admin basic auth username"`
	Password string `default:"admin123" usage:"Admin basic auth password"`
}

// NotifyConfig controls where booking notifications are delivered. With no
// brokers they are written to the log.
type NotifyConfig struct {
	Brokers   []string      `usage:"Kafka brokers for booking notifications"`
	Topic     string        `default:"hotel.bookings" usage:"Kafka topic for booking notifications"`
	QueueSize int           `default:"256" usage:"Pending notifications buffered before dropping" flag:"notify-queue-size"`
	Timeout   time.Duration `default:"5s"  usage:"Per-notification delivery timeout" flag:"notify-timeout"`
}

// RateLimitConfig controls the per-client fixed window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "HOTEL",
		Files:     []string{"config.yaml", "/etc/hotel/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Admin.Username == "" || c.Admin.Password == "" {
		return errors.New("admin credentials are required: set HOTEL_ADMIN_USERNAME and HOTEL_ADMIN_PASSWORD")
	}
	if len(c.Notify.Brokers) > 0 && c.Notify.Topic == "" {
		return errors.New("notify topic is required when brokers are set")
	}
	return nil
}

// applyPlatformDefaults maps the PORT variable set by hosting platforms
// (Railway, Render, etc.) onto the listen address.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}

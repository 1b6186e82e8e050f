package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const minSessionSecretLen = 32

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port             int           `envconfig:"PORT" default:"8080"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL      string        `envconfig:"DATABASE_URL" required:"true"`
	DBTimeout        time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`
	Version          string        `envconfig:"VERSION" default:"dev"`
	BcryptCost       int           `envconfig:"BCRYPT_COST" default:"12"`
	SessionSecret    string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL       time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	SessionCookie    string        `envconfig:"SESSION_COOKIE_NAME" default:"customer_session"`
	CookieSecure     bool          `envconfig:"COOKIE_SECURE" default:"true"`
	IdPJWTSecret     string        `envconfig:"IDP_JWT_SECRET" required:"true"`
	IdPCookieName    string        `envconfig:"IDP_COOKIE_NAME" default:"sb-access-token"`
	IdPIssuer        string        `envconfig:"IDP_ISSUER" default:""`
	RedisURL         string        `envconfig:"REDIS_URL" default:""`
	FlagCacheTTL     time.Duration `envconfig:"FLAG_CACHE_TTL" default:"30s"`
	RoutesFile       string        `envconfig:"ROUTES_FILE" default:""`
	LoginPath        string        `envconfig:"LOGIN_PATH" default:"/login"`
	AdminLandingPath string        `envconfig:"ADMIN_LANDING_PATH" default:"/admin"`
	APIPrefix        string        `envconfig:"API_PREFIX" default:"/api/"`
	TracingEnabled   bool          `envconfig:"OTEL_ENABLED" default:"false"`
	OTLPEndpoint     string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	ServiceName      string        `envconfig:"OTEL_SERVICE_NAME" default:"emporium"`
	Environment      string        `envconfig:"ENVIRONMENT" default:"development"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if len(cfg.SessionSecret) < minSessionSecretLen {
		return nil, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen)
	}
	return &cfg, nil
}

// DatabaseConfig is the subset of settings needed by maintenance commands.
type DatabaseConfig struct {
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL string        `envconfig:"DATABASE_URL" required:"true"`
	DBTimeout   time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`
}

// LoadDatabase reads only the database settings from the environment.
func LoadDatabase() (*DatabaseConfig, error) {
	var cfg DatabaseConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	// storeCallTimeout matches the per-call timeout of the Mongo repositories.
	storeCallTimeout    = 10 * time.Second
	storeCallsPerVerify = 3
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// Workers is the number of dispatcher workers running automatic
	// verifications. AutoVerify enqueues one for every created location.
	Workers    int  `env:"WORKERS,     default=8"`
	AutoVerify bool `env:"AUTO_VERIFY, default=true"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Verifier VerifierConfig
	Identity IdentityConfig
	Admin    AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=address_verification"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	LockTTL  time.Duration `env:"REDIS_LOCK_TTL, default=60s"`
}

// VerifierConfig selects and configures the address verification provider.
type VerifierConfig struct {
	Provider string `env:"VERIFIER_PROVIDER, default=postcoder_web"`
	APIKey   string `env:"POSTCODER_API_KEY"`
	// CountryCodes is a comma separated allow-list. Empty means GB and US.
	CountryCodes string        `env:"POSTCODER_COUNTRY_CODES"`
	BaseURL      string        `env:"POSTCODER_BASE_URL"`
	Timeout      time.Duration `env:"POSTCODER_TIMEOUT, default=15s"`
}

// IdentityConfig describes this deployment to the provider's usage analytics.
type IdentityConfig struct {
	AppName   string `env:"APP_NAME,    default=address-verification"`
	Version   string `env:"APP_VERSION, default=1.0.0"`
	Datastore string `env:"DATASTORE,   default=mongodb"`
}

// AdminConfig seeds the first admin account at startup. Self-registration
// only creates viewers, so this is how other roles become reachable.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Options flattens the verifier settings into provider factory options.
func (v VerifierConfig) Options(identifier string) map[string]string {
	opts := map[string]string{
		"api_key":       v.APIKey,
		"country_codes": v.CountryCodes,
		"base_url":      v.BaseURL,
		"identifier":    identifier,
	}
	if v.Timeout > 0 {
		opts["timeout"] = v.Timeout.String()
	}
	return opts
}

// MinLockTTL is the longest a verification can hold its location lock: the
// provider call plus the load, update and audit insert against Mongo.
func (c *Config) MinLockTTL() time.Duration {
	return c.Verifier.Timeout + storeCallsPerVerify*storeCallTimeout
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Load reads a .env file when present, then configuration from environment
// variables using go-envconfig.
func Load() *Config {
	loadDotEnv()

	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith processes configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("WORKERS must be positive, got %d", cfg.Workers)
	}
	if floor := cfg.MinLockTTL(); cfg.Redis.LockTTL <= floor {
		return nil, fmt.Errorf("REDIS_LOCK_TTL must exceed %s (POSTCODER_TIMEOUT plus store calls), got %s", floor, cfg.Redis.LockTTL)
	}
	return &cfg, nil
}

// loadDotEnv loads .env from the working directory or up to two parents.
// Variables already set in the environment win.
func loadDotEnv() {
	if godotenv.Load() == nil {
		return
	}
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 2; i++ {
		dir = filepath.Join(dir, "..")
		if godotenv.Load(filepath.Join(dir, ".env")) == nil {
			return
		}
	}
}

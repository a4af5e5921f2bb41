package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every section.
const EnvPrefix = "mercator"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Admin        AdminConfig
	Stripe       StripeConfig
	Printful     PrintfulConfig
	Site         SiteConfig
	Store        StoreConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MERCATOR_APP_ENV" default:"dev"`
	Port         string `envconfig:"MERCATOR_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MERCATOR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MERCATOR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MERCATOR_DB_DSN"`
	Driver string `envconfig:"MERCATOR_DB_DRIVER" default:"postgres"`

	SQLitePath string `envconfig:"MERCATOR_SQLITE_PATH" default:"data/mercator.db"`

	LegacyHost     string `envconfig:"MERCATOR_DB_HOST"`
	LegacyPort     int    `envconfig:"MERCATOR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MERCATOR_DB_USER"`
	LegacyPassword string `envconfig:"MERCATOR_DB_PASSWORD"`
	LegacyName     string `envconfig:"MERCATOR_DB_NAME"`
	LegacySSLMode  string `envconfig:"MERCATOR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MERCATOR_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MERCATOR_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"MERCATOR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MERCATOR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MERCATOR_REDIS_URL"`
	PoolSize     int           `envconfig:"MERCATOR_REDIS_POOL_SIZE" default:"5"`
	MinIdleConns int           `envconfig:"MERCATOR_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"MERCATOR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MERCATOR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MERCATOR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether the optional webhook event guard should be wired.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type AdminConfig struct {
	// Password is the shared editor secret. PasswordHash, when set, takes
	// precedence and must be an Argon2id hash produced by pkg/security.
	Password      string        `envconfig:"MERCATOR_ADMIN_PASSWORD"`
	PasswordHash  string        `envconfig:"MERCATOR_ADMIN_PASSWORD_HASH"`
	SessionSecret string        `envconfig:"MERCATOR_ADMIN_SESSION_SECRET"`
	SessionTTL    time.Duration `envconfig:"MERCATOR_ADMIN_SESSION_TTL" default:"8h"`
}

func (a AdminConfig) Configured() bool {
	return strings.TrimSpace(a.Password) != "" || strings.TrimSpace(a.PasswordHash) != ""
}

type StripeConfig struct {
	APIKey        string `envconfig:"MERCATOR_STRIPE_SECRET_KEY"`
	WebhookSecret string `envconfig:"MERCATOR_STRIPE_WEBHOOK_SECRET"`
	Env           string `envconfig:"MERCATOR_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type PrintfulConfig struct {
	APIKey  string `envconfig:"MERCATOR_PRINTFUL_API_KEY"`
	StoreID string `envconfig:"MERCATOR_PRINTFUL_STORE_ID"`
	BaseURL string `envconfig:"MERCATOR_PRINTFUL_BASE_URL" default:"https://api.printful.com"`
}

type SiteConfig struct {
	BaseURL string `envconfig:"MERCATOR_SITE_URL"`
}

// SuccessURL is the hosted-checkout redirect after a completed payment.
func (s SiteConfig) SuccessURL() string {
	return strings.TrimRight(s.BaseURL, "/") + "/success"
}

// CancelURL sends an abandoned checkout back to the landing page.
func (s SiteConfig) CancelURL() string {
	return strings.TrimRight(s.BaseURL, "/") + "/"
}

type StoreConfig struct {
	Name             string   `envconfig:"MERCATOR_STORE_NAME" default:"The Mercator Archives"`
	Currency         string   `envconfig:"MERCATOR_STORE_CURRENCY" default:"usd"`
	AllowedCountries []string `envconfig:"MERCATOR_STORE_ALLOWED_COUNTRIES" default:"US,CA,GB,DE,FR"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MERCATOR_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MERCATOR_AUTO_MIGRATE" default:"false"`
	SeedCatalog bool `envconfig:"MERCATOR_SEED_CATALOG" default:"true"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite || db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		"MERCATOR_DB_HOST": db.LegacyHost,
		"MERCATOR_DB_USER": db.LegacyUser,
		"MERCATOR_DB_NAME": db.LegacyName,
	}
	for _, env := range []string{"MERCATOR_DB_HOST", "MERCATOR_DB_USER", "MERCATOR_DB_NAME"} {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either MERCATOR_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

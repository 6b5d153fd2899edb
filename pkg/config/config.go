package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CartStoreRedis  = "redis"
	CartStoreMemory = "memory"

	RoundingHalfUp   = "half_up"
	RoundingHalfEven = "half_even"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cart         CartConfig
	Pricing      PricingConfig
	Admin        AdminConfig
	HTTP         HTTPConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Cart.Store = strings.ToLower(strings.TrimSpace(c.Cart.Store))
	switch c.Cart.Store {
	case CartStoreRedis, CartStoreMemory:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvCartStore, CartStoreRedis, CartStoreMemory, c.Cart.Store)
	}
	c.Pricing.Rounding = strings.ToLower(strings.TrimSpace(c.Pricing.Rounding))
	switch c.Pricing.Rounding {
	case RoundingHalfUp, RoundingHalfEven:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvPricingRounding, RoundingHalfUp, RoundingHalfEven, c.Pricing.Rounding)
	}
	if c.Cart.IdleTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvCartIdleTTL)
	}
	if c.Cart.Store == CartStoreRedis && c.Redis.URL == "" && c.Redis.Address == "" {
		return fmt.Errorf("redis cart store requires %s or %s", EnvRedisURL, EnvRedisAddr)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"TEXTILEHOUSE_APP_ENV" required:"true"`
	Port         string `envconfig:"TEXTILEHOUSE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TEXTILEHOUSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TEXTILEHOUSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TEXTILEHOUSE_DB_DSN"`
	Driver string `envconfig:"TEXTILEHOUSE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TEXTILEHOUSE_DB_HOST"`
	LegacyPort     int    `envconfig:"TEXTILEHOUSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TEXTILEHOUSE_DB_USER"`
	LegacyPassword string `envconfig:"TEXTILEHOUSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"TEXTILEHOUSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"TEXTILEHOUSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TEXTILEHOUSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TEXTILEHOUSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TEXTILEHOUSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TEXTILEHOUSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the local sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"TEXTILEHOUSE_REDIS_URL"`
	Address      string        `envconfig:"TEXTILEHOUSE_REDIS_ADDR"`
	Password     string        `envconfig:"TEXTILEHOUSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"TEXTILEHOUSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TEXTILEHOUSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TEXTILEHOUSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TEXTILEHOUSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TEXTILEHOUSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TEXTILEHOUSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartConfig controls session cart storage and the per-session lock.
type CartConfig struct {
	Store      string        `envconfig:"TEXTILEHOUSE_CART_STORE" default:"redis"`
	IdleTTL    time.Duration `envconfig:"TEXTILEHOUSE_CART_IDLE_TTL" default:"24h"`
	LockTTL    time.Duration `envconfig:"TEXTILEHOUSE_CART_LOCK_TTL" default:"10s"`
	LockWait   time.Duration `envconfig:"TEXTILEHOUSE_CART_LOCK_WAIT" default:"3s"`
	SweepBatch int           `envconfig:"TEXTILEHOUSE_CART_SWEEP_BATCH" default:"200"`
}

type PricingConfig struct {
	Rounding string `envconfig:"TEXTILEHOUSE_PRICING_ROUNDING" default:"half_up"`
	Currency string `envconfig:"TEXTILEHOUSE_PRICING_CURRENCY" default:"USD"`
}

type AdminConfig struct {
	APIKey string `envconfig:"TEXTILEHOUSE_ADMIN_API_KEY"`
}

type HTTPConfig struct {
	CORSOrigins     []string      `envconfig:"TEXTILEHOUSE_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	ReadTimeout     time.Duration `envconfig:"TEXTILEHOUSE_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"TEXTILEHOUSE_HTTP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"TEXTILEHOUSE_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"TEXTILEHOUSE_CRON_INTERVAL" default:"1h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TEXTILEHOUSE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:textilehouse.db?cache=shared"
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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

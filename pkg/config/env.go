package config

// EnvPrefix namespaces every variable the services read.
const EnvPrefix = "TEXTILEHOUSE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "TEXTILEHOUSE_APP_ENV"
	EnvPort         = "TEXTILEHOUSE_APP_PORT"
	EnvLogLevel     = "TEXTILEHOUSE_LOG_LEVEL"
	EnvLogWarnStack = "TEXTILEHOUSE_LOG_WARN_STACK"

	EnvDBDSN      = "TEXTILEHOUSE_DB_DSN"
	EnvDBDriver   = "TEXTILEHOUSE_DB_DRIVER"
	EnvDBHost     = "TEXTILEHOUSE_DB_HOST"
	EnvDBPort     = "TEXTILEHOUSE_DB_PORT"
	EnvDBUser     = "TEXTILEHOUSE_DB_USER"
	EnvDBPassword = "TEXTILEHOUSE_DB_PASSWORD"
	EnvDBName     = "TEXTILEHOUSE_DB_NAME"
	EnvDBSSLMode  = "TEXTILEHOUSE_DB_SSLMODE"

	EnvRedisURL  = "TEXTILEHOUSE_REDIS_URL"
	EnvRedisAddr = "TEXTILEHOUSE_REDIS_ADDR"

	EnvCartStore      = "TEXTILEHOUSE_CART_STORE"
	EnvCartIdleTTL    = "TEXTILEHOUSE_CART_IDLE_TTL"
	EnvCartLockTTL    = "TEXTILEHOUSE_CART_LOCK_TTL"
	EnvCartLockWait   = "TEXTILEHOUSE_CART_LOCK_WAIT"
	EnvCartSweepBatch = "TEXTILEHOUSE_CART_SWEEP_BATCH"

	EnvPricingRounding = "TEXTILEHOUSE_PRICING_ROUNDING"
	EnvPricingCurrency = "TEXTILEHOUSE_PRICING_CURRENCY"

	EnvAdminAPIKey  = "TEXTILEHOUSE_ADMIN_API_KEY"
	EnvCORSOrigins  = "TEXTILEHOUSE_CORS_ORIGINS"
	EnvAutoMigrate  = "TEXTILEHOUSE_AUTO_MIGRATE"
	EnvCronInterval = "TEXTILEHOUSE_CRON_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

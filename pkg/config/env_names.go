package config

// EnvPrefix scopes every environment variable consumed by the client.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv        = "STOREFRONT_APP_ENV"
	EnvLogLevel      = "STOREFRONT_LOG_LEVEL"
	EnvAPIBaseURL    = "STOREFRONT_API_BASE_URL"
	EnvAPITimeout    = "STOREFRONT_API_REQUEST_TIMEOUT"
	EnvAuthSkew      = "STOREFRONT_AUTH_EXPIRY_SKEW"
	EnvStateBackend  = "STOREFRONT_STATE_BACKEND"
	EnvStateFilePath = "STOREFRONT_STATE_FILE_PATH"
	EnvRedisURL      = "STOREFRONT_REDIS_URL"
	EnvRedisAddr     = "STOREFRONT_REDIS_ADDR"
)

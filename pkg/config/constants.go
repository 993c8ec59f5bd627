package config

// EnvPrefix scopes every environment variable read by Load.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv             = "STOREFRONT_APP_ENV"
	EnvLogLevel           = "STOREFRONT_LOG_LEVEL"
	EnvLogWarnStack       = "STOREFRONT_LOG_WARN_STACK"
	EnvCatalogBaseURL     = "STOREFRONT_CATALOG_BASE_URL"
	EnvCatalogTimeout     = "STOREFRONT_CATALOG_REQUEST_TIMEOUT"
	EnvCatalogDefault     = "STOREFRONT_CATALOG_DEFAULT_LIMIT"
	EnvCatalogMaxLimit    = "STOREFRONT_CATALOG_MAX_LIMIT"
	EnvCacheRedisURL      = "STOREFRONT_CACHE_REDIS_URL"
	EnvCacheTTL           = "STOREFRONT_CACHE_TTL"
	EnvStoragePath        = "STOREFRONT_STORAGE_PATH"
	EnvStorageKey         = "STOREFRONT_STORAGE_KEY"
	EnvConfirmDelay       = "STOREFRONT_CONFIRM_DELAY"
	EnvConfirmFailureRate = "STOREFRONT_CONFIRM_FAILURE_RATE"
)

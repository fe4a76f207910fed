package config

const EnvPrefix = "storefront"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                  = "STOREFRONT_APP_ENV"
	EnvPort                    = "STOREFRONT_APP_PORT"
	EnvLogLevel                = "STOREFRONT_LOG_LEVEL"
	EnvCatalogBaseURL          = "STOREFRONT_CATALOG_BASE_URL"
	EnvCatalogRequestTimeout   = "STOREFRONT_CATALOG_REQUEST_TIMEOUT"
	EnvRedisURL                = "STOREFRONT_REDIS_URL"
	EnvCartSnapshotTTL         = "STOREFRONT_CART_SNAPSHOT_TTL"
	EnvCheckoutProcessingDelay = "STOREFRONT_CHECKOUT_PROCESSING_DELAY"
	EnvCheckoutFailureRate     = "STOREFRONT_CHECKOUT_FAILURE_RATE"
)

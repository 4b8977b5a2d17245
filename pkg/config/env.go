package config

const (
	EnvPrefix = "STOREFEED"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "STOREFEED_APP_ENV"
	EnvPort      = "STOREFEED_APP_PORT"
	EnvLogLevel  = "STOREFEED_LOG_LEVEL"
	EnvLogFormat = "STOREFEED_LOG_FORMAT"

	EnvDBDSN      = "STOREFEED_DB_DSN"
	EnvDBDriver   = "STOREFEED_DB_DRIVER"
	EnvDBHost     = "STOREFEED_DB_HOST"
	EnvDBUser     = "STOREFEED_DB_USER"
	EnvDBPassword = "STOREFEED_DB_PASSWORD"
	EnvDBName     = "STOREFEED_DB_NAME"

	EnvRedisURL = "STOREFEED_REDIS_URL"

	EnvJWTSecret  = "STOREFEED_JWT_SECRET"
	EnvJWTIssuer  = "STOREFEED_JWT_ISSUER"
	EnvJWTExpMins = "STOREFEED_JWT_EXPIRATION_MINUTES"

	EnvFeedCandidateTTL = "STOREFEED_FEED_CANDIDATE_TTL"
	EnvFeedBanTTL       = "STOREFEED_FEED_BAN_TTL"
	EnvFeedMaxLimit     = "STOREFEED_FEED_MAX_LIMIT"
	EnvFeedDefaultLimit = "STOREFEED_FEED_DEFAULT_LIMIT"
	EnvFeedPriceBand    = "STOREFEED_FEED_PRICE_BAND_RATIO"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

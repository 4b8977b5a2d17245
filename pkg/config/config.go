package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	HTTP         HTTPConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Feed         FeedConfig
	Cache        CacheConfig
	Popularity   PopularityConfig
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
	if err := cfg.Feed.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFEED_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFEED_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFEED_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFEED_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFEED_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"STOREFEED_SERVICE_KIND" default:"api"`
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration `envconfig:"STOREFEED_HTTP_READ_HEADER_TIMEOUT" default:"5s"`
	WriteTimeout      time.Duration `envconfig:"STOREFEED_HTTP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout   time.Duration `envconfig:"STOREFEED_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFEED_DB_DSN"`
	Driver string `envconfig:"STOREFEED_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOREFEED_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREFEED_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREFEED_DB_USER"`
	LegacyPassword string `envconfig:"STOREFEED_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREFEED_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOREFEED_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFEED_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFEED_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFEED_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFEED_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFEED_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFEED_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFEED_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFEED_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFEED_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFEED_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFEED_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFEED_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"STOREFEED_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFEED_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOREFEED_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STOREFEED_JWT_EXPIRATION_MINUTES" default:"60"`
}

// FeedConfig carries the tunables of the candidate pipeline.
type FeedConfig struct {
	CandidateTTL       time.Duration `envconfig:"STOREFEED_FEED_CANDIDATE_TTL" default:"1h"`
	BanTTL             time.Duration `envconfig:"STOREFEED_FEED_BAN_TTL" default:"48h"`
	DefaultLimit       int           `envconfig:"STOREFEED_FEED_DEFAULT_LIMIT" default:"30"`
	MaxLimit           int           `envconfig:"STOREFEED_FEED_MAX_LIMIT" default:"100"`
	TotalBatch         int           `envconfig:"STOREFEED_FEED_TOTAL_BATCH" default:"500"`
	PopularBatch       int           `envconfig:"STOREFEED_FEED_POPULAR_BATCH" default:"100"`
	PriceBatch         int           `envconfig:"STOREFEED_FEED_PRICE_BATCH" default:"150"`
	CategoryBatch      int           `envconfig:"STOREFEED_FEED_CATEGORY_BATCH" default:"250"`
	PriceBandRatio     float64       `envconfig:"STOREFEED_FEED_PRICE_BAND_RATIO" default:"0.25"`
	VisitorMemoTTL     time.Duration `envconfig:"STOREFEED_FEED_VISITOR_MEMO_TTL" default:"15m"`
	RequireVisitorUUID bool          `envconfig:"STOREFEED_FEED_REQUIRE_VISITOR_UUID" default:"true"`
}

func (f FeedConfig) validate() error {
	switch {
	case f.CandidateTTL <= 0:
		return fmt.Errorf("%s must be positive", EnvFeedCandidateTTL)
	case f.BanTTL <= 0:
		return fmt.Errorf("%s must be positive", EnvFeedBanTTL)
	case f.MaxLimit <= 0:
		return fmt.Errorf("%s must be positive", EnvFeedMaxLimit)
	case f.DefaultLimit <= 0 || f.DefaultLimit > f.MaxLimit:
		return fmt.Errorf("%s must be within 1..%d", EnvFeedDefaultLimit, f.MaxLimit)
	case f.PriceBandRatio < 0 || f.PriceBandRatio > 1:
		return fmt.Errorf("%s must be within 0..1", EnvFeedPriceBand)
	}
	return nil
}

// CacheConfig tunes the circuit breaker that guards the candidate cache backend.
type CacheConfig struct {
	BreakerMaxRequests      uint32        `envconfig:"STOREFEED_CACHE_BREAKER_MAX_REQUESTS" default:"1"`
	BreakerInterval         time.Duration `envconfig:"STOREFEED_CACHE_BREAKER_INTERVAL" default:"1m"`
	BreakerTimeout          time.Duration `envconfig:"STOREFEED_CACHE_BREAKER_TIMEOUT" default:"30s"`
	BreakerFailureThreshold uint32        `envconfig:"STOREFEED_CACHE_BREAKER_FAILURE_THRESHOLD" default:"5"`
}

type PopularityConfig struct {
	BatchSize       int           `envconfig:"STOREFEED_POPULARITY_BATCH_SIZE" default:"1000"`
	RecalcInterval  time.Duration `envconfig:"STOREFEED_POPULARITY_RECALC_INTERVAL" default:"10m"`
	CronInterval    time.Duration `envconfig:"STOREFEED_POPULARITY_CRON_INTERVAL" default:"10m"`
	CronLockTTL     time.Duration `envconfig:"STOREFEED_POPULARITY_CRON_LOCK_TTL" default:"5m"`
	CronLockEnabled bool          `envconfig:"STOREFEED_POPULARITY_CRON_LOCK_ENABLED" default:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STOREFEED_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STOREFEED_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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

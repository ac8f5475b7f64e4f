package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the process-wide configuration, loaded once in main and passed
// into each component constructor.
type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Identity      IdentityConfig
	Stripe        StripeConfig
	Orders        OrdersConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MOSB_APP_ENV" required:"true"`
	Port         string `envconfig:"MOSB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MOSB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MOSB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"MOSB_DB_DSN"`

	Host     string `envconfig:"MOSB_DB_HOST"`
	Port     int    `envconfig:"MOSB_DB_PORT" default:"5432"`
	User     string `envconfig:"MOSB_DB_USER"`
	Password string `envconfig:"MOSB_DB_PASSWORD"`
	Name     string `envconfig:"MOSB_DB_NAME"`
	SSLMode  string `envconfig:"MOSB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MOSB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MOSB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MOSB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MOSB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MOSB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MOSB_REDIS_ADDR"`
	Password     string        `envconfig:"MOSB_REDIS_PASSWORD"`
	DB           int           `envconfig:"MOSB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MOSB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MOSB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MOSB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MOSB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MOSB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MOSB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MOSB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MOSB_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MOSB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MOSB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MOSB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MOSB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MOSB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MOSB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MOSB_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MOSB_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MOSB_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MOSB_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MOSB_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MOSB_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MOSB_AUTO_MIGRATE" default:"false"`
}

// IdentityConfig points at the hosted identity provider used for
// external-token logins.
type IdentityConfig struct {
	BaseURL string        `envconfig:"MOSB_IDENTITY_BASE_URL"`
	APIKey  string        `envconfig:"MOSB_IDENTITY_API_KEY"`
	Timeout time.Duration `envconfig:"MOSB_IDENTITY_TIMEOUT" default:"10s"`
}

type StripeConfig struct {
	APIKey        string `envconfig:"MOSB_STRIPE_API_KEY"`
	WebhookSecret string `envconfig:"MOSB_STRIPE_WEBHOOK_SECRET"`
	Env           string `envconfig:"MOSB_STRIPE_ENV" default:"test"`
	Currency      string `envconfig:"MOSB_STRIPE_CURRENCY" default:"usd"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type OrdersConfig struct {
	// TaxRateBP is the sales tax rate in basis points (825 = 8.25%).
	TaxRateBP int `envconfig:"MOSB_ORDERS_TAX_RATE_BP" default:"825"`
	// DefaultEstimatedMinutes seeds the kitchen estimate on reset-to-cooking.
	DefaultEstimatedMinutes int `envconfig:"MOSB_ORDERS_DEFAULT_ESTIMATED_MINUTES" default:"15"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MOSB_CORS_ALLOWED_ORIGINS" default:"*"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every KushalWear environment variable.
	EnvPrefix = "KUSHALWEAR"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "KUSHALWEAR_DB_DSN"
	EnvDBHost = "KUSHALWEAR_DB_HOST"
	EnvDBUser = "KUSHALWEAR_DB_USER"
	EnvDBName = "KUSHALWEAR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"KUSHALWEAR_APP_ENV" required:"true"`
	Port         string `envconfig:"KUSHALWEAR_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"KUSHALWEAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KUSHALWEAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KUSHALWEAR_DB_DSN"`
	Driver string `envconfig:"KUSHALWEAR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KUSHALWEAR_DB_HOST"`
	LegacyPort     int    `envconfig:"KUSHALWEAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KUSHALWEAR_DB_USER"`
	LegacyPassword string `envconfig:"KUSHALWEAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"KUSHALWEAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"KUSHALWEAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KUSHALWEAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KUSHALWEAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KUSHALWEAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KUSHALWEAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KUSHALWEAR_REDIS_URL"`
	Address      string        `envconfig:"KUSHALWEAR_REDIS_ADDR"`
	Password     string        `envconfig:"KUSHALWEAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"KUSHALWEAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KUSHALWEAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KUSHALWEAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KUSHALWEAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KUSHALWEAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KUSHALWEAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KUSHALWEAR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KUSHALWEAR_JWT_ISSUER" default:"kushalwear"`
	ExpirationMinutes int    `envconfig:"KUSHALWEAR_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KUSHALWEAR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KUSHALWEAR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KUSHALWEAR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KUSHALWEAR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KUSHALWEAR_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"KUSHALWEAR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"KUSHALWEAR_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"KUSHALWEAR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"KUSHALWEAR_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"KUSHALWEAR_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"KUSHALWEAR_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"KUSHALWEAR_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KUSHALWEAR_AUTO_MIGRATE" default:"false"`
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

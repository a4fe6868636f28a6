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
	DB           DBConfig
	Redis        RedisConfig
	Sales        SalesConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PHARMACY_APP_ENV" required:"true"`
	Port         string `envconfig:"PHARMACY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PHARMACY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PHARMACY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PHARMACY_DB_DSN"`
	Driver string `envconfig:"PHARMACY_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PHARMACY_DB_HOST"`
	Port     int    `envconfig:"PHARMACY_DB_PORT" default:"5432"`
	User     string `envconfig:"PHARMACY_DB_USER"`
	Password string `envconfig:"PHARMACY_DB_PASSWORD"`
	Name     string `envconfig:"PHARMACY_DB_NAME"`
	SSLMode  string `envconfig:"PHARMACY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PHARMACY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PHARMACY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PHARMACY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PHARMACY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PHARMACY_REDIS_URL"`
	Address      string        `envconfig:"PHARMACY_REDIS_ADDR"`
	Password     string        `envconfig:"PHARMACY_REDIS_PASSWORD"`
	DB           int           `envconfig:"PHARMACY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PHARMACY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PHARMACY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PHARMACY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PHARMACY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PHARMACY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The API runs
// without redis; the idempotency middleware simply disengages.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type SalesConfig struct {
	// ConflictRetries is how many times a sale is transparently retried when the
	// store reports a serialization conflict before the error reaches the caller.
	ConflictRetries int `envconfig:"PHARMACY_SALES_CONFLICT_RETRIES" default:"1"`
	// LowStockThreshold drives the dashboard low-stock listing for medicines
	// without an explicit reorder level.
	LowStockThreshold int `envconfig:"PHARMACY_LOW_STOCK_THRESHOLD" default:"10"`
	// ExpiryWindowMonths is the default horizon for the expiry report.
	ExpiryWindowMonths int `envconfig:"PHARMACY_EXPIRY_WINDOW_MONTHS" default:"6"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PHARMACY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PHARMACY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Driver == DriverSQLite {
		db.DSN = "file:pharmacy.db?_pragma=foreign_keys(1)"
		return nil
	}

	missing := []string{}
	required := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if required[env] == "" {
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

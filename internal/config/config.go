package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	AppEnv           string
	Database         DatabaseConfig
	RedisAddr        string
	KafkaBroker      string
	JWTSecret        string
	PolicyFile       string
	RBACPolicyFile   string
	BatchConcurrency int
	MigrationsPath   string
	ShutdownTimeout  time.Duration
}

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// Load reads the process environment, filling it from .env when the file exists.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from getenv. Only DB_HOST and DB_NAME are mandatory.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Port:   get("PORT", "3000"),
		AppEnv: get("APP_ENV", "development"),
		Database: DatabaseConfig{
			Host:     get("DB_HOST", ""),
			User:     get("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD"),
			Name:     get("DB_NAME", ""),
			Port:     get("DB_PORT", "5432"),
			SSLMode:  get("DB_SSLMODE", "disable"),
		},
		RedisAddr:      get("REDIS_ADDR", ""),
		KafkaBroker:    get("KAFKA_BROKER", ""),
		JWTSecret:      getenv("JWT_SECRET"),
		PolicyFile:     get("POLICY_FILE", ""),
		RBACPolicyFile: get("RBAC_POLICY_FILE", ""),
		MigrationsPath: get("MIGRATIONS_PATH", "migrations"),
	}

	concurrency, err := strconv.Atoi(get("PAYROLL_BATCH_CONCURRENCY", "8"))
	if err != nil || concurrency < 1 {
		return Config{}, fmt.Errorf("config: PAYROLL_BATCH_CONCURRENCY must be a positive integer")
	}
	cfg.BatchConcurrency = concurrency

	shutdown, err := time.ParseDuration(get("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil || shutdown <= 0 {
		return Config{}, fmt.Errorf("config: SHUTDOWN_TIMEOUT must be a positive duration")
	}
	cfg.ShutdownTimeout = shutdown

	if cfg.Database.Host == "" {
		return Config{}, fmt.Errorf("config: DB_HOST must be set")
	}
	if cfg.Database.Name == "" {
		return Config{}, fmt.Errorf("config: DB_NAME must be set")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DSN is the libpq keyword form used by gorm.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// URL is the postgres:// form used by golang-migrate.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

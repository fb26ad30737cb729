package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// minCSRFKeyLen matches the 32-byte auth key gorilla/csrf expects.
const minCSRFKeyLen = 32

type Config struct {
	ServerPort  string
	DB          DBConfig
	SiteTitle   string
	CSRFKey     string
	CSRFSecure  bool
	MetricsAddr string
	LogLevel    string
	LogFormat   string
}

// DBConfig selects the store backend. Path is used by sqlite, the
// remaining fields by mysql.
type DBConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, using environment variables", "reason", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func FromEnv() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", ":8080"),
		DB: DBConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:     getEnv("DB_PATH", "./moves.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
			Name:     getEnv("DB_NAME", "moves"),
		},
		SiteTitle:   getEnv("SITE_TITLE", "Ivanhoe Light"),
		CSRFKey:     os.Getenv("CSRF_KEY"),
		CSRFSecure:  getBool("CSRF_SECURE", false),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case DriverMySQL:
		if c.DB.User == "" || c.DB.Name == "" {
			return errors.New("DB_USER and DB_NAME are required for the mysql driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	if c.CSRFKey != "" && len(c.CSRFKey) < minCSRFKeyLen {
		return fmt.Errorf("CSRF_KEY must be at least %d bytes", minCSRFKeyLen)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"

	minSecretLen = 16
)

type Config struct {
	Port      string
	APIPrefix string

	Store    string
	DBDSN    string
	MongoURI string
	MongoDB  string

	JWTSecret string
	TokenTTL  time.Duration

	LogFile  string
	SeedDemo bool

	AdminName     string
	AdminEmail    string
	AdminPassword string

	LoginRateMax int
}

// Load reads .env (when present) and the environment. Secrets have no
// defaults: a missing JWT_SECRET or MONGO_URI (for the mongo store) is an
// error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. Split out from Load for tests.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:          get("PORT", "8080"),
		APIPrefix:     get("API_PREFIX", "/api"),
		Store:         strings.ToLower(get("STORE", StoreSQLite)),
		DBDSN:         get("DB_DSN", "shopfront.db"), // sqlite file in working dir
		MongoURI:      get("MONGO_URI", ""),
		MongoDB:       get("MONGO_DB", "shopfront"),
		JWTSecret:     getenv("JWT_SECRET"),
		LogFile:       get("LOG_FILE", ""),
		AdminName:     get("ADMIN_NAME", "Admin"),
		AdminEmail:    get("ADMIN_EMAIL", ""),
		AdminPassword: getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(get("TOKEN_TTL", "0s")); err != nil {
		return Config{}, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if cfg.SeedDemo, err = strconv.ParseBool(get("SEED_DEMO", "true")); err != nil {
		return Config{}, fmt.Errorf("SEED_DEMO: %w", err)
	}
	if cfg.LoginRateMax, err = strconv.Atoi(get("LOGIN_RATE_MAX", "5")); err != nil {
		return Config{}, fmt.Errorf("LOGIN_RATE_MAX: %w", err)
	}
	if !strings.HasPrefix(cfg.APIPrefix, "/") {
		cfg.APIPrefix = "/" + cfg.APIPrefix
	}
	cfg.APIPrefix = strings.TrimRight(cfg.APIPrefix, "/")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.JWTSecret) < minSecretLen {
		return fmt.Errorf("JWT_SECRET must be set to at least %d characters", minSecretLen)
	}
	switch c.Store {
	case StoreSQLite:
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORE=mongo")
		}
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StoreSQLite, StoreMongo, c.Store)
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if c.TokenTTL < 0 {
		return errors.New("TOKEN_TTL must not be negative")
	}
	return nil
}

// Print logs the resolved config without secrets.
func (c Config) Print() {
	log.Printf("[config] PORT=%s API_PREFIX=%s STORE=%s DB_DSN=%s MONGO_DB=%s TOKEN_TTL=%s LOG_FILE=%s SEED_DEMO=%t ADMIN_EMAIL=%s",
		c.Port, c.APIPrefix, c.Store, c.DBDSN, c.MongoDB, c.TokenTTL, c.LogFile, c.SeedDemo, c.AdminEmail)
}

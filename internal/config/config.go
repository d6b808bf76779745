package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values of DATABASE_DRIVER
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set to a non-empty value")

type SessionConfig struct {
	AccessTokenDuration time.Duration
}

type RedisSettings struct {
	Address  string
	Password string
	DB       int
}

type PasswordConfig struct {
	MinLength int
	MaxLength int
}

type Config struct {
	// Server port
	Port     string
	AppEnv   string
	LogLevel string
	// JWTSecret signs issued tokens. Never logged.
	JWTSecret      string
	DatabaseDriver string
	// sqlite: file DSN; postgres: host=<host> port=<port> user=<user> dbname=<database> password=<pass> sslmode=<mode>
	DatabaseSettings string
	RedisSettings    RedisSettings
	SessionConfig    SessionConfig
	Password         PasswordConfig
	// ConfigFile is the .env file that was read, empty when none was found.
	ConfigFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ACCESS_TOKEN_DURATION", "24h")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_DSN", "file:catalog.db?cache=shared&_fk=1")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("PASSWORD_MIN_LENGTH", 4)
	v.SetDefault("PASSWORD_MAX_LENGTH", 10)
}

// LoadConfig reads .env (current directory or ./config) and the environment.
// A missing signing secret is fatal: the caller must not start serving.
// Nothing is logged here; the logger is not configured yet.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	jwtSecret := v.GetString("JWT_SECRET")
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, ErrMissingJWTSecret
	}

	tokenTTL := v.GetDuration("ACCESS_TOKEN_DURATION")
	if tokenTTL <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_DURATION must be positive, got %q", v.GetString("ACCESS_TOKEN_DURATION"))
	}

	minLen := v.GetInt("PASSWORD_MIN_LENGTH")
	maxLen := v.GetInt("PASSWORD_MAX_LENGTH")
	if minLen < 1 || maxLen < minLen {
		return nil, fmt.Errorf("invalid password length bounds [%d, %d]", minLen, maxLen)
	}

	// Database Configuration
	databaseDriver := strings.ToLower(v.GetString("DATABASE_DRIVER"))
	var databaseSettings string
	switch databaseDriver {
	case DriverSQLite:
		databaseSettings = v.GetString("SQLITE_DSN")
	case DriverPostgres:
		databaseSettings = fmt.Sprintf(
			"host=%s port=%d user=%s dbname=%s password=%s sslmode=%s",
			v.GetString("DB_HOST"),
			v.GetInt("DB_PORT"),
			v.GetString("DB_USER"),
			v.GetString("DB_NAME"),
			v.GetString("DB_PASS"),
			v.GetString("DB_SSL_MODE"),
		)
	case DriverRedis, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", databaseDriver)
	}

	return &Config{
		Port:             v.GetString("APP_PORT"),
		AppEnv:           v.GetString("APP_ENV"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		JWTSecret:        jwtSecret,
		DatabaseDriver:   databaseDriver,
		DatabaseSettings: databaseSettings,
		RedisSettings: RedisSettings{
			Address:  v.GetString("REDIS_ADDRESS"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		SessionConfig: SessionConfig{
			AccessTokenDuration: tokenTTL,
		},
		Password: PasswordConfig{
			MinLength: minLen,
			MaxLength: maxLen,
		},
	}, nil
}

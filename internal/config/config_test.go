package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{"JWT_SECRET": "s3cret"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.SessionConfig.AccessTokenDuration)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "file:catalog.db?cache=shared&_fk=1", cfg.DatabaseSettings)
	assert.Equal(t, PasswordConfig{MinLength: 4, MaxLength: 10}, cfg.Password)
}

func TestFromViper_MissingSecret(t *testing.T) {
	for _, secret := range []string{"", "   "} {
		_, err := fromViper(newTestViper(map[string]any{"JWT_SECRET": secret}))
		assert.ErrorIs(t, err, ErrMissingJWTSecret)
	}
}

func TestFromViper_Postgres(t *testing.T) {
	cfg, err := fromViper(newTestViper(map[string]any{
		"JWT_SECRET":      "s3cret",
		"DATABASE_DRIVER": "POSTGRES",
		"DB_HOST":         "db",
		"DB_USER":         "catalog",
		"DB_NAME":         "catalog",
		"DB_PASS":         "pw",
	}))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "host=db port=5432 user=catalog dbname=catalog password=pw sslmode=disable", cfg.DatabaseSettings)
}

func TestFromViper_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"UnknownDriver", map[string]any{"DATABASE_DRIVER": "oracle"}},
		{"NegativeTTL", map[string]any{"ACCESS_TOKEN_DURATION": "-1h"}},
		{"InvertedPasswordBounds", map[string]any{"PASSWORD_MIN_LENGTH": 12, "PASSWORD_MAX_LENGTH": 8}},
		{"ZeroMinPassword", map[string]any{"PASSWORD_MIN_LENGTH": 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.values["JWT_SECRET"] = "s3cret"
			_, err := fromViper(newTestViper(tt.values))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("ACCESS_TOKEN_DURATION", "2h")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, DriverMemory, cfg.DatabaseDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionConfig.AccessTokenDuration)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("JWT_SECRET", "")
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JWT_SECRET=file-secret\nAPP_PORT=9090\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "file-secret", cfg.JWTSecret)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ".env", filepath.Base(cfg.ConfigFile))
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

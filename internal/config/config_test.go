package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("DATABASE_URL", "user:pass@tcp(localhost:3306)/freshmart")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.True(t, cfg.IsLocal())
	assert.Equal(t, ":8000", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:5500"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5.0, cfg.RateLimit.AuthRPS)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	os.Unsetenv("SECRET_KEY")
	t.Setenv("DB_DRIVER", DriverMemory)

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
}

func TestLoadConfig_DatabaseURLRequiredForSQLDrivers(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadConfig_MemoryDriverNeedsNoURL(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("DB_DRIVER", "sqlite")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestLoadConfig_YAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
env: production
http:
  addr: ":9000"
database:
  driver: memory
auth:
  secret_key: from-file
  bcrypt_cost: 12
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("HTTP_ADDR", ":9100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsLocal())
	assert.Equal(t, ":9100", cfg.HTTP.Addr)
	assert.Equal(t, "from-file", cfg.Auth.SecretKey)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoadConfig_MissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("DB_DRIVER", DriverMemory)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "test-secret", cfg.Auth.SecretKey)
}

func TestValidate_NamesMissingSecret(t *testing.T) {
	cfg := Config{
		Database:  DatabaseConfig{Driver: DriverMemory},
		Auth:      AuthConfig{AccessTokenExpireMinutes: 60, BcryptCost: 10},
		RateLimit: RateLimitConfig{AuthRPS: 1, AuthBurst: 1},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, "SECRET_KEY is required", err.Error())

	cfg.Auth.SecretKey = "test-secret"
	assert.NoError(t, cfg.Validate())
}

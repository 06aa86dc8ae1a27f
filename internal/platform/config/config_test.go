package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employeedir/internal/domain/employee"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, prev) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "APP_ADDR", "DB_DRIVER", "DEFAULT_PAGE_SIZE", "MAX_PAGE_SIZE", "DB_MAX_CONN_LIFETIME", "VALIDATION_MODE", "TRUST_PROXY_HEADERS")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 5, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, time.Hour, cfg.DBMaxConnLifetime)
	assert.Equal(t, employee.ValidationStrict, cfg.Validation())
	assert.False(t, cfg.TrustProxyHeaders)
}

func TestLoadReadsEnvFileWithoutOverridingEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_DRIVER=SQLite\nSQLITE_PATH=from-file.db\nAPP_ADDR=:9999\n"), 0o600))
	unsetEnv(t, "DB_DRIVER", "SQLITE_PATH")
	t.Setenv("APP_ADDR", ":7000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "from-file.db", cfg.SQLitePath)
	assert.Equal(t, ":7000", cfg.Addr)
}

func TestValidate(t *testing.T) {
	base := Config{
		DatabaseDriver:  DriverSQLite,
		SQLitePath:      "employees.db",
		ValidationMode:  "strict",
		DefaultPageSize: 5,
		MaxPageSize:     100,
		MaxBodyBytes:    4096,
	}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"postgres without url": func(c *Config) { c.DatabaseDriver = DriverPostgres },
		"unknown driver":       func(c *Config) { c.DatabaseDriver = "mysql" },
		"bad validation mode":  func(c *Config) { c.ValidationMode = "loose" },
		"zero page size":       func(c *Config) { c.DefaultPageSize = 0 },
		"max below default":    func(c *Config) { c.MaxPageSize = 2 },
		"tiny body limit":      func(c *Config) { c.MaxBodyBytes = 10 },
		"negative rate limit":  func(c *Config) { c.RateLimitPerMinute = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidationModeFallsBackToStrict(t *testing.T) {
	assert.Equal(t, employee.ValidationPresence, Config{ValidationMode: "presence"}.Validation())
	assert.Equal(t, employee.ValidationStrict, Config{ValidationMode: "???"}.Validation())
}

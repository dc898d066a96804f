package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Aion", cfg.App.Name)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 12, cfg.Ledger.RecurrenceMonths)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "postgres://postgres:@localhost:5432/aion?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("STORE_PATH", "/tmp/aion")
	t.Setenv("RECURRENCE_MONTHS", "24")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://aion.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, "/tmp/aion", cfg.Store.Path)
	assert.Equal(t, 24, cfg.Ledger.RecurrenceMonths)
	assert.Equal(t, []string{"http://localhost:3000", "https://aion.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("RECURRENCE_MONTHS", "0")
	_, err = Load()
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	cfg.App.Timezone = "America/Sao_Paulo"

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())

	cfg.App.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}

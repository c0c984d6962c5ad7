package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "caja.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	policy, err := cfg.TaxPolicy()
	require.NoError(t, err)
	assert.True(t, policy.Inclusive)
	assert.True(t, policy.Rate.Equal(decimal.RequireFromString("0.13")))
	assert.Equal(t, 1, cfg.Invoice.CounterFloor)
	assert.True(t, cfg.Invoice.ReconcileCounter)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
business:
  name: Pupusería Doña Ana
  footer:
    - Gracias
tax:
  rate: 0.15
  inclusive: false
invoice:
  counter_floor: 0
timezone: UTC
output:
  dir: /tmp/tickets
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Pupusería Doña Ana", cfg.Business.Name)
	assert.Equal(t, "Colonia Escalón, San Salvador", cfg.Business.Address)
	assert.Equal(t, []string{"Gracias"}, cfg.Business.Footer)
	assert.Equal(t, 0, cfg.Invoice.CounterFloor)
	assert.True(t, cfg.Invoice.ReconcileCounter)
	assert.Equal(t, "/tmp/tickets", cfg.Output.Dir)

	policy, err := cfg.TaxPolicy()
	require.NoError(t, err)
	assert.False(t, policy.Inclusive)
	assert.Equal(t, "B", policy.Name())
	assert.True(t, policy.Rate.Equal(decimal.RequireFromString("0.15")))
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("CAJA_TEST_DB", "/var/lib/caja/test.db")

	cfg, err := Load(writeConfig(t, "storage:\n  path: ${CAJA_TEST_DB}\n"))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/caja/test.db", cfg.Storage.Path)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "tax:\n  rtae: 0.13\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rtae")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Business.Name = ""
	cfg.Tax.Rate = "1.5"
	cfg.Invoice.CounterFloor = 7
	cfg.Log.Level = "loud"
	cfg.Timezone = "Mars/Olympus"
	cfg.Messaging.BaseURL = "wa.me"
	cfg.Output.Dir = ""
	cfg.Storage.Path = ""

	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{
		"business.name", "storage.path", "tax.rate", "invoice.counter_floor",
		"log.level", "timezone", "messaging.base_url", "output.dir",
	} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestTaxPolicy_BadRate(t *testing.T) {
	cfg := Default()
	cfg.Tax.Rate = "thirteen"

	_, err := cfg.TaxPolicy()
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := Default()

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/El_Salvador", loc.String())

	cfg.Timezone = ""
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Local", loc.String())
}

func TestValidate_ReportsYAMLKeys(t *testing.T) {
	cfg := Default()
	cfg.Log.MaxBackups = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.max_backups")
	assert.Contains(t, err.Error(), "must be at least 0")
}

func TestLoad_LogFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n  file: /var/log/caja.log\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/log/caja.log", cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
}

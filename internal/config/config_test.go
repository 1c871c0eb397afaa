package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.insee.fr/api-sirene/3.11", cfg.Sirene.BaseURL)
	assert.Equal(t, 10, cfg.Sirene.TimeoutSecs)
	assert.Equal(t, "https://api-adresse.data.gouv.fr/search/", cfg.BAN.BaseURL)
	assert.Equal(t, 10, cfg.BAN.TimeoutSecs)
	assert.Equal(t, 50, cfg.BAN.RateLimit)
	assert.Equal(t, "QP2024_France_Hexagonale_Outre_Mer_WGS84.shp", cfg.Data.QPVPath)
	assert.Equal(t, "ZRR_list_source.csv", cfg.Data.ZRRPath)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Sirene.APIKey)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
sirene:
  api_key: test-key
data:
  qpv_path: /data/qpv.shp
  zrr_path: /data/zrr.csv
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Sirene.APIKey)
	assert.Equal(t, "/data/qpv.shp", cfg.Data.QPVPath)
	assert.Equal(t, "/data/zrr.csv", cfg.Data.ZRRPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, "https://api.insee.fr/api-sirene/3.11", cfg.Sirene.BaseURL)
	assert.Equal(t, 50, cfg.BAN.RateLimit)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
sirene:
  api_key: from-file
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("ZONAGE_SIRENE_API_KEY", "from-env")
	t.Setenv("ZONAGE_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "from-env", cfg.Sirene.APIKey)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("ZONAGE_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Sirene.APIKey = "test-key"
	cfg.Sirene.TimeoutSecs = 10
	cfg.BAN.TimeoutSecs = 10
	cfg.BAN.RateLimit = 50
	cfg.Data.QPVPath = "qpv.shp"
	cfg.Data.ZRRPath = "zrr.csv"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateCheck_AllPresent(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("check"))
}

func TestValidateCheck_MissingAPIKey(t *testing.T) {
	cfg := validDefaults()
	cfg.Sirene.APIKey = ""

	err := cfg.Validate("check")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sirene.api_key is required")
}

func TestValidateCheck_MissingDataPaths(t *testing.T) {
	cfg := validDefaults()
	cfg.Data.QPVPath = ""
	cfg.Data.ZRRPath = ""

	err := cfg.Validate("check")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "data.qpv_path is required")
	assert.Contains(t, err.Error(), "data.zrr_path is required")
}

func TestValidateServe_ValidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 9090

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateCheck_IgnoresPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	assert.NoError(t, cfg.Validate("check"))
}

func TestValidateTimeoutAndRateBounds(t *testing.T) {
	cfg := validDefaults()
	cfg.Sirene.TimeoutSecs = 0
	err := cfg.Validate("check")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sirene.timeout_secs must be > 0")

	cfg = validDefaults()
	cfg.BAN.RateLimit = 0
	err = cfg.Validate("check")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ban.rate_limit must be >= 1")
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

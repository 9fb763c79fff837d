package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
}

func TestLoadDefaults(t *testing.T) {
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Atlas.Driver)
	assert.Equal(t, "natural_earth_vector.sqlite", cfg.Atlas.Path)
	assert.Equal(t, 1200, cfg.Render.Width)
	assert.Equal(t, 1000, cfg.Render.Height)
	assert.InDelta(t, 0.3, cfg.Render.TargetPercentage, 0.001)
	assert.True(t, cfg.Render.ExcludeExclaves)
	assert.Equal(t, "name", cfg.Render.LabelType)
	assert.InDelta(t, 1.5, cfg.Render.BorderWidth, 0.001)
	assert.Equal(t, "/tmp", cfg.Render.OutputDir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 2.0, cfg.Server.RendersPerSecond, 0.001)
	assert.Equal(t, 4, cfg.Server.RenderBurst)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chtemp(t)

	yaml := `
atlas:
  driver: postgres
  database_url: postgres://localhost/atlas
render:
  width: 800
  height: 800
  target_percentage: 0.5
log:
  level: debug
  format: console
server:
  port: 9090
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Atlas.Driver)
	assert.Equal(t, "postgres://localhost/atlas", cfg.Atlas.DatabaseURL)
	assert.Equal(t, 800, cfg.Render.Width)
	assert.InDelta(t, 0.5, cfg.Render.TargetPercentage, 0.001)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched sections keep their defaults.
	assert.InDelta(t, 1.5, cfg.Render.BorderWidth, 0.001)
}

func TestLoadFromEnv(t *testing.T) {
	chtemp(t)
	t.Setenv("TERRITORY_ATLAS_PATH", "/data/ne.sqlite")
	t.Setenv("TERRITORY_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/ne.sqlite", cfg.Atlas.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	assert.Error(t, err)
}

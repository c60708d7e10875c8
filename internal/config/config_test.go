package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchLoad(t *testing.T) {
	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PARCHMENT_TEMP_DIR", "/run/shell")
	t.Setenv("PARCHMENT_POLL_TIMEOUT", "250ms")
	t.Setenv("PARCHMENT_PANEL_COLUMNS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/run/shell", cfg.Paths.TempDir)
	assert.Equal(t, 250*time.Millisecond, cfg.Input.PollTimeout)
	assert.Equal(t, 5, cfg.Panel.Columns)
	assert.Equal(t, 1404, cfg.Display.Width)
}

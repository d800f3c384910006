package pacycle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := newConfigAt(testLogger(), t.TempDir())

	require.NoError(t, cfg.Load())

	assert.Equal(t, filepath.Join(xdg.StateHome, "pacycle"), cfg.StateDir)
	assert.Equal(t, float32(0.05), cfg.VolumeStep)
	assert.False(t, cfg.Notifications)
}

func TestConfigLoadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `
state_dir: /var/tmp/pacycle-test
volume_step: 0.1
notifications: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg := newConfigAt(testLogger(), dir)
	require.NoError(t, cfg.Load())

	assert.Equal(t, "/var/tmp/pacycle-test", cfg.StateDir)
	assert.Equal(t, float32(0.1), cfg.VolumeStep)
	assert.True(t, cfg.Notifications)
}

func TestConfigVolumeStepOutOfRangeFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("volume_step: 5\n"), 0o644))

	cfg := newConfigAt(testLogger(), dir)
	require.NoError(t, cfg.Load())

	assert.Equal(t, float32(0.05), cfg.VolumeStep)
}

func TestConfigMalformedFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{{{ not yaml"), 0o644))

	cfg := newConfigAt(testLogger(), dir)

	assert.Error(t, cfg.Load())
}

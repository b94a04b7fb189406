package robot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_SaveLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robot.json")

	cfg := DefaultConfig()
	cfg.Port = "/dev/ttyUSB0"
	small := cfg.Actuators[Small]
	small.RangeMin, small.RangeMax = 1200, 2900
	cfg.Actuators[Small] = small
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.True(t, loaded.IsConfigured())
}

func TestConfig_LoadYAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robot.yaml")
	data := []byte("port: /dev/ttyACM0\nbattery:\n  low_mv: 6800\n  high_mv: 8200\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", cfg.Port)
	assert.Equal(t, 6800, cfg.Battery.LowMillivolts)
	assert.Equal(t, 8200, cfg.Battery.HighMillivolts)
	assert.Equal(t, DefaultDriveSettings(), cfg.Drive)
	assert.Len(t, cfg.Actuators, 4)
}

func TestConfig_LoadErrors(t *testing.T) {
	_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = LoadConfigFrom(path)
	assert.Error(t, err)
}

func TestConfig_SaveError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "robot.json")
	err := DefaultConfig().SaveTo(path)
	assert.ErrorContains(t, err, "write config")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("widths: [2, 4]\nscheduled: true\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, cfg.Widths)
	assert.Equal(t, DefaultConfig().Heights, cfg.Heights)
	assert.Equal(t, DefaultIterations, cfg.Iterations)
	assert.True(t, cfg.Scheduled)
	assert.True(t, cfg.Plot)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("widths: [0]\n"), 0644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "positive")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("widths: {"), 0644))
	_, err = Load(broken)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	cfg := DefaultConfig()
	cfg.Iterations = 7
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPropagate(t *testing.T) {
	for _, scheduled := range []bool{false, true} {
		r := propagate(3, 4, 5, scheduled)
		assert.Equal(t, 3*5, r.effects, "scheduled=%v", scheduled)
		assert.Equal(t, 1+5+4, r.last)
		assert.NotNil(t, r.metrics)
	}
}

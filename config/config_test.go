package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 8*time.Millisecond, cfg.Budget())
	require.Equal(t, 8, cfg.WorkerCount)
	require.InDelta(t, 0.3, cfg.LODTransitionHeight, 1e-6)
	require.False(t, cfg.IndexStandaloneRenderers)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autolod.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_execution_time = "16ms"
worker_count = 2
batcher = "combine"
max_lod = 3
log_level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 16*time.Millisecond, cfg.Budget())
	require.Equal(t, 2, cfg.WorkerCount)
	require.Equal(t, "combine", cfg.Batcher)
	require.Equal(t, 3, cfg.MaxLOD)
	require.Equal(t, "simulated", cfg.MeshSimplifier)
	require.True(t, cfg.HLODEnabled)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autolod.toml")
	cfg := Default()
	cfg.MetricsAddr = ":9090"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadRejectsBadInput(t *testing.T) {
	type spec struct {
		contents string
		invalid  bool
	}
	specs := []spec{
		{`unknown_key = 1`, false},
		{`max_execution_time = "soon"`, false},
		{`worker_count = 0`, true},
		{`max_lod = 8`, true},
		{`lod_transition_height = 0.0`, true},
		{`log_level = "chatty"`, true},
	}

	for index, s := range specs {
		path := filepath.Join(t.TempDir(), "autolod.toml")
		require.NoError(t, os.WriteFile(path, []byte(s.contents), 0o644))

		_, err := Load(path)
		require.Error(t, err, "spec %d", index)
		require.Equal(t, s.invalid, errors.Is(err, ErrInvalidConfig), "spec %d: %v", index, err)
	}
}

// Package config loads the LOD manager configuration from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/achilleasa/autolod/log"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Hard ceiling for generated LOD levels.
const MaxLODLevels = 7

// Duration is a time.Duration that is encoded as a string such as "8ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds the LOD manager settings.
type Config struct {
	// Time budget for queued maintenance work per tick.
	MaxExecutionTime Duration `toml:"max_execution_time"`

	// Number of concurrent background jobs.
	WorkerCount int `toml:"worker_count"`

	HLODEnabled         bool    `toml:"hlod_enabled"`
	LODTransitionHeight float32 `toml:"lod_transition_height"`

	MeshSimplifier string `toml:"mesh_simplifier"`
	Batcher        string `toml:"batcher"`

	// LOD chain generation defaults.
	MaxLOD                 int  `toml:"max_lod"`
	InitialLODMaxPolyCount int  `toml:"initial_lod_max_poly_count"`
	GenerateOnImport       bool `toml:"generate_on_import"`

	// Index renderers that belong to no LOD chain.
	IndexStandaloneRenderers bool `toml:"index_standalone_renderers"`

	LogLevel    string `toml:"log_level"`
	MetricsAddr string `toml:"metrics_addr"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		MaxExecutionTime:       Duration(8 * time.Millisecond),
		WorkerCount:            8,
		HLODEnabled:            true,
		LODTransitionHeight:    0.3,
		MeshSimplifier:         "simulated",
		Batcher:                "material-preserving",
		MaxLOD:                 2,
		InitialLODMaxPolyCount: 500000,
		GenerateOnImport:       true,
		LogLevel:               "notice",
	}
}

// Load reads a TOML file on top of the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	if err = toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unable to decode %q: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration as TOML.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	switch {
	case c.MaxExecutionTime < 0:
		return fmt.Errorf("%w: max_execution_time must not be negative", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be at least 1", ErrInvalidConfig)
	case c.LODTransitionHeight <= 0 || c.LODTransitionHeight > 1:
		return fmt.Errorf("%w: lod_transition_height must be in (0, 1]", ErrInvalidConfig)
	case c.MaxLOD < 0 || c.MaxLOD > MaxLODLevels:
		return fmt.Errorf("%w: max_lod must be in [0, %d]", ErrInvalidConfig, MaxLODLevels)
	case c.InitialLODMaxPolyCount < 0:
		return fmt.Errorf("%w: initial_lod_max_poly_count must not be negative", ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	return nil
}

// Budget returns the per-tick time budget.
func (c Config) Budget() time.Duration {
	return time.Duration(c.MaxExecutionTime)
}

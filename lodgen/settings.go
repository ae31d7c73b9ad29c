// Package lodgen builds traditional per-asset LOD chains by simplifying the
// meshes of an imported object.
package lodgen

import "github.com/achilleasa/autolod/config"

// The hard ceiling for the number of generated levels.
const MaxLOD = config.MaxLODLevels

// ImportSettings control LOD chain generation for an asset.
type ImportSettings struct {
	GenerateOnImport       bool   `yaml:"generate_on_import"`
	MeshSimplifier         string `yaml:"mesh_simplifier"`
	Batcher                string `yaml:"batcher"`
	MaxLODGenerated        int    `yaml:"max_lod_generated"`
	InitialLODMaxPolyCount int    `yaml:"initial_lod_max_poly_count"`
}

// SettingsFromConfig returns the project wide import settings.
func SettingsFromConfig(cfg config.Config) ImportSettings {
	return ImportSettings{
		GenerateOnImport:       cfg.GenerateOnImport,
		MeshSimplifier:         cfg.MeshSimplifier,
		Batcher:                cfg.Batcher,
		MaxLODGenerated:        cfg.MaxLOD,
		InitialLODMaxPolyCount: cfg.InitialLODMaxPolyCount,
	}
}

// Clamped returns a copy with MaxLODGenerated in [0, MaxLOD] and a non
// negative poly count limit.
func (s ImportSettings) Clamped() ImportSettings {
	s.MaxLODGenerated = max(0, min(MaxLOD, s.MaxLODGenerated))
	s.InitialLODMaxPolyCount = max(0, s.InitialLODMaxPolyCount)
	return s
}

// LODData is the per-asset record kept by the override store. Levels lists
// the names of the renderers of every generated level.
type LODData struct {
	OverrideDefaults bool                 `yaml:"override_defaults"`
	ImportSettings   ImportSettings       `yaml:"import_settings"`
	Levels           [MaxLOD + 1][]string `yaml:"levels"`
}

// Effective returns the settings that apply to the asset.
func (d LODData) Effective(defaults ImportSettings) ImportSettings {
	if d.OverrideDefaults {
		return d.ImportSettings.Clamped()
	}
	return defaults.Clamped()
}

// Package config loads procflow settings from defaults, a YAML file,
// PROCFLOW_* environment variables and command-line flags.
package config

import (
	"time"

	"procflow/internal/diagram"
	"procflow/internal/grid"
)

const (
	DefaultConfigFile = "procflow.yaml"
	DefaultStatePath  = "procflow.db"
	DefaultStorageKey = "process_flow_state"
	EnvPrefix         = "PROCFLOW_"

	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Grid        GridConfig      `koanf:"grid"`
	Placement   PlacementConfig `koanf:"placement"`
	Storage     StorageConfig   `koanf:"storage"`
	Log         LogConfig       `koanf:"log"`
	View        ViewConfig      `koanf:"view"`
	CatalogFile string          `koanf:"catalog_file"`
	ExportDir   string          `koanf:"export_dir"`
}

type GridConfig struct {
	LargeCell float64 `koanf:"large_cell"`
	Gutter    float64 `koanf:"gutter"`
}

func (g GridConfig) Grid() grid.Grid {
	return grid.Grid{LargeCell: g.LargeCell, Gutter: g.Gutter}
}

type PlacementConfig struct {
	Columns  int `koanf:"columns"`
	Rows     int `koanf:"rows"`
	Attempts int `koanf:"attempts"`
}

func (p PlacementConfig) Placement() diagram.Placement {
	return diagram.Placement{Columns: p.Columns, Rows: p.Rows, Attempts: p.Attempts}
}

type StorageConfig struct {
	Backend string        `koanf:"backend"`
	Path    string        `koanf:"path"`
	Key     string        `koanf:"key"`
	TTL     time.Duration `koanf:"ttl"`
	MaxAge  time.Duration `koanf:"max_age"`
}

type LogConfig struct {
	File   string `koanf:"file"`
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ViewConfig sets how many world units one terminal cell covers.
type ViewConfig struct {
	UnitsPerColumn float64 `koanf:"units_per_column"`
	UnitsPerRow    float64 `koanf:"units_per_row"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"grid.large_cell":       grid.DefaultLargeCell,
		"grid.gutter":           grid.DefaultGutter,
		"placement.columns":     10,
		"placement.rows":        10,
		"placement.attempts":    100,
		"storage.backend":       BackendSQLite,
		"storage.path":          DefaultStatePath,
		"storage.key":           DefaultStorageKey,
		"storage.ttl":           "720h",
		"storage.max_age":       "168h",
		"log.file":              "",
		"log.level":             "info",
		"log.format":            "text",
		"view.units_per_column": 10,
		"view.units_per_row":    20,
		"catalog_file":          "",
		"export_dir":            ".",
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json", "pretty"}
)

// Validate checks the loaded values are usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Grid.LargeCell <= 0 {
		errs = append(errs, fmt.Errorf("grid.large_cell must be positive, got %v", c.Grid.LargeCell))
	}
	if c.Grid.Gutter < 0 {
		errs = append(errs, fmt.Errorf("grid.gutter must not be negative, got %v", c.Grid.Gutter))
	}
	if c.Placement.Columns <= 0 || c.Placement.Rows <= 0 {
		errs = append(errs, fmt.Errorf("placement grid must be at least 1x1, got %dx%d", c.Placement.Columns, c.Placement.Rows))
	}
	if c.Placement.Attempts < 0 {
		errs = append(errs, fmt.Errorf("placement.attempts must not be negative, got %d", c.Placement.Attempts))
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for the sqlite backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q (want %s or %s)", c.Storage.Backend, BackendSQLite, BackendMemory))
	}
	if c.Storage.Key == "" {
		errs = append(errs, errors.New("storage.key is required"))
	}
	if c.Storage.TTL <= 0 || c.Storage.MaxAge <= 0 {
		errs = append(errs, errors.New("storage.ttl and storage.max_age must be positive"))
	}

	if !contains(validLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("unknown log.level %q (want one of %s)", c.Log.Level, strings.Join(validLevels, ", ")))
	}
	if !contains(validFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("unknown log.format %q (want one of %s)", c.Log.Format, strings.Join(validFormats, ", ")))
	}
	if c.View.UnitsPerColumn <= 0 || c.View.UnitsPerRow <= 0 {
		errs = append(errs, errors.New("view units per column and row must be positive"))
	}

	return errors.Join(errs...)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

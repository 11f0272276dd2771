package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procflow/internal/grid"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("storage", BackendSQLite, "")
	fs.String("storage-path", DefaultStatePath, "")
	fs.String("log-level", "info", "")
	fs.String("catalog", "", "")
	fs.Bool("verbose", false, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	l := &Loader{}
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Empty(t, l.FileUsed())
	assert.Equal(t, grid.Default(), cfg.Grid.Grid())
	assert.Equal(t, 10, cfg.Placement.Columns)
	assert.Equal(t, 100, cfg.Placement.Attempts)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, DefaultStorageKey, cfg.Storage.Key)
	assert.Equal(t, 30*24*time.Hour, cfg.Storage.TTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Storage.MaxAge)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(DefaultConfigFile, []byte(`
grid:
  large_cell: 100
  gutter: 10
storage:
  backend: memory
  max_age: 24h
log:
  level: warn
`), 0o644))

	t.Run("file", func(t *testing.T) {
		l := &Loader{}
		cfg, err := l.Load()
		require.NoError(t, err)

		assert.Equal(t, DefaultConfigFile, l.FileUsed())
		assert.Equal(t, 110.0, cfg.Grid.Grid().Pitch())
		assert.Equal(t, BackendMemory, cfg.Storage.Backend)
		assert.Equal(t, 24*time.Hour, cfg.Storage.MaxAge)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("PROCFLOW_LOG__LEVEL", "error")
		t.Setenv("PROCFLOW_STORAGE__MAX_AGE", "48h")

		cfg, err := (&Loader{}).Load()
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Log.Level)
		assert.Equal(t, 48*time.Hour, cfg.Storage.MaxAge)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("PROCFLOW_LOG__LEVEL", "error")

		fs := newFlags()
		require.NoError(t, fs.Parse([]string{"--log-level=debug", "--storage=sqlite", "--storage-path=" + filepath.Join(dir, "x.db")}))

		cfg, err := (&Loader{Flags: fs}).Load()
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
		assert.Equal(t, filepath.Join(dir, "x.db"), cfg.Storage.Path)
	})

	t.Run("unchanged flags do not override", func(t *testing.T) {
		cfg, err := (&Loader{Flags: newFlags()}).Load()
		require.NoError(t, err)
		assert.Equal(t, BackendMemory, cfg.Storage.Backend)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("verbose", func(t *testing.T) {
		fs := newFlags()
		require.NoError(t, fs.Parse([]string{"--verbose"}))

		cfg, err := (&Loader{Flags: fs}).Load()
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
	})
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("PROCFLOW_LOG__FORMAT=json\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("PROCFLOW_LOG__FORMAT") })

	cfg, err := (&Loader{EnvFile: ".env"}).Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)

	_, err = (&Loader{EnvFile: "missing.env"}).Load()
	assert.NoError(t, err)
}

func TestLoadExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := (&Loader{File: "nope.yaml"}).Load()
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export_dir: out\n"), 0o644))
	l := &Loader{File: path}
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.ExportDir)
	assert.Equal(t, path, l.FileUsed())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Grid:      GridConfig{LargeCell: 200, Gutter: 20},
			Placement: PlacementConfig{Columns: 10, Rows: 10, Attempts: 100},
			Storage:   StorageConfig{Backend: BackendSQLite, Path: "x.db", Key: "k", TTL: time.Hour, MaxAge: time.Hour},
			Log:       LogConfig{Level: "info", Format: "text"},
			View:      ViewConfig{UnitsPerColumn: 10, UnitsPerRow: 20},
		}
	}

	c := valid()
	require.NoError(t, c.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cell", func(c *Config) { c.Grid.LargeCell = 0 }},
		{"negative gutter", func(c *Config) { c.Grid.Gutter = -1 }},
		{"empty placement", func(c *Config) { c.Placement.Rows = 0 }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }},
		{"sqlite without path", func(c *Config) { c.Storage.Path = "" }},
		{"no key", func(c *Config) { c.Storage.Key = "" }},
		{"zero ttl", func(c *Config) { c.Storage.TTL = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero view", func(c *Config) { c.View.UnitsPerRow = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	t.Run("memory needs no path", func(t *testing.T) {
		c := valid()
		c.Storage.Backend = BackendMemory
		c.Storage.Path = ""
		assert.NoError(t, c.Validate())
	})
}

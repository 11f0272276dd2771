package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"procflow/internal/catalog"
	"procflow/internal/config"
	"procflow/internal/diagram"
	"procflow/internal/logging"
	"procflow/internal/persist"
)

type configKey struct{}

func loadConfig(cmd *cobra.Command, cfgFile string) error {
	loader := &config.Loader{
		File:    cfgFile,
		EnvFile: ".env",
		Flags:   cmd.Root().PersistentFlags(),
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
	return nil
}

func getConfig(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return nil
}

// app is everything a command needs: one store bound to the configured
// storage backend.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	store     *diagram.Store
	templates []diagram.Template
	closers   []func() error
}

// newApp wires logging, storage and the store, then restores any saved
// diagram. logOut receives logs when no log file is configured.
func newApp(cfg *config.Config, logOut io.Writer) (*app, error) {
	a := &app{cfg: cfg}

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Writer: logOut,
	})
	if err != nil {
		return nil, err
	}
	a.log = logger
	a.closers = append(a.closers, closeLog)

	templates, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.templates = templates

	kv, err := a.openKV()
	if err != nil {
		a.Close()
		return nil, err
	}

	adapter := persist.NewAdapter(kv, persist.Options{
		Key:    cfg.Storage.Key,
		TTL:    cfg.Storage.TTL,
		MaxAge: cfg.Storage.MaxAge,
		Logger: logger.With("component", "persist"),
	})
	a.store = diagram.NewStore(
		diagram.WithPersister(adapter),
		diagram.WithGrid(cfg.Grid.Grid()),
		diagram.WithPlacement(cfg.Placement.Placement()),
		diagram.WithLogger(logger.With("component", "store")),
	)
	a.store.Restore()
	return a, nil
}

func (a *app) openKV() (persist.KV, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendMemory:
		a.log.Debug("using in-memory storage")
		return persist.NewMemoryKV(), nil
	case config.BackendSQLite:
		if dir := filepath.Dir(a.cfg.Storage.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create storage directory: %w", err)
			}
		}
		kv, err := persist.OpenSQLite(a.cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		a.log.Debug("opened sqlite storage", "path", a.cfg.Storage.Path)
		a.closers = append(a.closers, kv.Close)
		return kv, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// exportPath places bare filenames in dir.
func exportPath(dir, filename string) string {
	if filepath.IsAbs(filename) || filepath.Dir(filename) != "." || dir == "" {
		return filename
	}
	os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, filename)
}

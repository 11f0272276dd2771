package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"storage":      "storage.backend",
	"storage-path": "storage.path",
	"storage-key":  "storage.key",
	"log-file":     "log.file",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"catalog":      "catalog_file",
	"export-dir":   "export_dir",
}

// Loader resolves a Config. The zero value is ready to use.
type Loader struct {
	// File is an explicit config path. When empty, ./procflow.yaml is used
	// if it exists.
	File string
	// EnvFile is loaded into the process environment before reading
	// PROCFLOW_* variables. A missing file is not an error.
	EnvFile string
	Flags   *pflag.FlagSet

	used string
}

// Load applies, lowest to highest priority: defaults, config file,
// environment, flags.
func (l *Loader) Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	l.used = l.findConfigFile()
	if l.used != "" {
		if err := k.Load(file.Provider(l.used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", l.used, err)
		}
	}

	if l.EnvFile != "" {
		if err := godotenv.Load(l.EnvFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load env file %s: %w", l.EnvFile, err)
		}
	}

	// PROCFLOW_STORAGE__MAX_AGE -> storage.max_age
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if l.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(l.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(l.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if l.Flags != nil {
		if verbose, err := l.Flags.GetBool("verbose"); err == nil && verbose {
			cfg.Log.Level = "debug"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FileUsed reports the config file read by the last Load, if any.
func (l *Loader) FileUsed() string {
	return l.used
}

func (l *Loader) findConfigFile() string {
	if l.File != "" {
		return l.File
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

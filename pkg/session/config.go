package session

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// ConfigFile is the name FindConfig looks for.
const ConfigFile = "lambdabox.toml"

// DefaultLimit bounds reductions when no limit is configured.
const DefaultLimit = 100000

// Config holds the host-supplied settings of an evaluation.
type Config struct {
	// Limit is the maximum number of reduction steps; negative means unlimited.
	Limit int `toml:"limit"`
	// ShowSteps reports every intermediate term of Normalize.
	ShowSteps bool `toml:"show_steps"`
	// NamedOutput prints subterms equal to a definition by name.
	NamedOutput bool `toml:"named_output"`
}

func DefaultConfig() Config {
	return Config{Limit: DefaultLimit}
}

// LoadConfig loads a lambdabox.toml file. Unset keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, nil
}

// FindConfig searches for lambdabox.toml starting from dir and walking up to
// parent directories. Returns ("", DefaultConfig(), nil) if none is found.
func FindConfig(dir string) (string, Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", Config{}, err
	}
	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			cfg, err := LoadConfig(path)
			if err != nil {
				return "", Config{}, err
			}
			return path, cfg, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", DefaultConfig(), nil
		}
		dir = parent
	}
}

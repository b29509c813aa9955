// Package config loads TOML configuration files into typed structs with
// defaults passthrough and optional self-validation.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Validatable is an optional interface config structs can implement to
// validate themselves after loading.
type Validatable interface {
	Validate() error
}

// Load reads a TOML file into a struct of type T. A missing file is not an
// error; the provided defaults are returned unchanged.
func Load[T any](path string, defaults *T) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := new(T)
	if defaults != nil {
		*cfg = *defaults
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if v, ok := any(cfg).(Validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("validating config %s: %w", path, err)
		}
	}

	return cfg, nil
}

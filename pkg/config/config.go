// Package config provides YAML-based configuration loading with
// environment variable expansion.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load loads configuration from a YAML file with environment variable
// expansion, then validates the target when it implements Validator.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}

// LoadIfExists loads configuration when the file is present; a missing
// file leaves the target (typically pre-filled with defaults) as is,
// validating it in place.
func LoadIfExists[T any](filename string, target *T) error {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		if v, ok := any(target).(Validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}
		}
		return nil
	}
	return Load(filename, target)
}

// Package environment provides utilities for managing environment variables
// and configuration loading with support for namespacing and defaults.
package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from the given .env files. With no
// paths it looks for .env in the working directory. Variables already set in
// the process environment win over file values.
//
// Example:
//
//	// Load from .env in current directory
//	if err := LoadEnv(); err != nil {
//	    log.Printf("Warning: .env file not found: %v", err)
//	}
//
//	// Load from specific path
//	LoadEnv("/config/.env.production")
func LoadEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// LoadEnvIfPresent behaves like LoadEnv but ignores missing files.
func LoadEnvIfPresent(paths ...string) error {
	err := LoadEnv(paths...)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// LoadTOML decodes the TOML file at path into cfg. Keys map onto struct
// fields through their `toml` tags.
func LoadTOML(path string, cfg any) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("decode toml %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	return nil
}

// Load fills cfg in layers: the TOML file at path (skipped when path is
// empty), then environment variables and tag defaults via ParseEnvTags.
func Load(prefix, path string, cfg any) error {
	if path != "" {
		if err := LoadTOML(path, cfg); err != nil {
			return err
		}
	}
	return ParseEnvTags(prefix, cfg)
}

// GetEnvOrDefault retrieves an environment variable value, returning a fallback
// value if the variable is not set.
//
// Example:
//
//	port := GetEnvOrDefault("PORT", "8080")
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvKeyPrefix constructs a namespaced environment variable key by
// combining a namespace prefix with the actual key name using an underscore.
// If no namespace is provided, it returns the key unchanged.
//
// Example:
//
//	key := GetEnvKeyPrefix("TODOKEEPER", "DATABASE_URL")
//	// Returns: "TODOKEEPER_DATABASE_URL"
func GetEnvKeyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

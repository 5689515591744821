// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the layered PassForge configuration: defaults, then
// the YAML config file, then environment variables, then CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DatabaseConfig holds the database backend selection and DSN.
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

// WordlistConfig holds the default word list location and fetch source.
type WordlistConfig struct {
	Path      string `mapstructure:"path" yaml:"path"`
	SourceURI string `mapstructure:"source_uri" yaml:"source_uri"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Wordlist WordlistConfig `mapstructure:"wordlist" yaml:"wordlist"`
	Language string         `mapstructure:"language" yaml:"language"`
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		// System-wide configuration paths
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "PassForge")
		default: // Linux, macOS, etc.
			configDir = "/etc/passforge"
		}
	} else {
		// User-specific configuration paths
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "passforge")
	}

	return filepath.Join(configDir, "passforge.yaml"), nil
}

// LoadConfig builds the configuration from defaults, the config file search
// path (or an explicit --config path), environment variables with the
// PASSFORGE_ prefix, and the command's flags, in ascending precedence.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("passforge")
	v.SetConfigType("yaml")

	// An explicit config file path from the --config flag has the highest
	// precedence for file-based configuration.
	if additionalConfigFilePath != nil {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	// Standard config locations
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".") // Look for passforge.yaml in current dir

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the file is not found, but other errors are fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	// For backward compatibility, merge `.passforge.yaml` from the current
	// directory when present.
	mergeLegacyConfig(v)

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("passforge")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// mergeLegacyConfig checks for a `.passforge.yaml` file in the current
// directory and merges it into the viper configuration if found.
func mergeLegacyConfig(v *viper.Viper) {
	legacyConfigFile := ".passforge.yaml"
	if _, err := os.Stat(legacyConfigFile); err == nil {
		v.SetConfigFile(legacyConfigFile)
		// MergeInConfig errors on a malformed file, which is the desired
		// behavior, but we keep startup working on defaults regardless.
		_ = v.MergeInConfig()
		v.SetConfigFile("")
	}
}

// WriteConfigFile marshals c to YAML and writes it to the user (or system)
// config path, creating the directory as needed.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the config may carry a DSN with credentials.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}

	return nil
}

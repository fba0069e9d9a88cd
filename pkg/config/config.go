/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppName names the per-user config and cache directories.
const AppName = "mcmodbuild"

// Config represents the mcmodbuild configuration
type Config struct {
	CacheDir string  `yaml:"cache_dir"`
	Port     int     `yaml:"port"`
	Bind     string  `yaml:"bind"`
	Logging  Logging `yaml:"logging"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheDir: DefaultCacheDir(),
		Port:     8080,
		Bind:     "127.0.0.1",
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultCacheDir is where checkouts and the build index live unless
// configured otherwise.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", ".cache", AppName)
	}
	return filepath.Join(base, AppName)
}

// LoadConfig loads configuration from the specified path. Keys missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes a default configuration, using cacheDir when it is
// not empty.
func BootstrapConfig(configPath string, cacheDir string) (*Config, error) {
	config := DefaultConfig()
	if cacheDir != "" {
		config.CacheDir = cacheDir
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./" + AppName + ".yaml"
	}

	// ~/.config/mcmodbuild/config.yaml
	configDir := filepath.Join(homeDir, ".config", AppName)
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}

// Resolve loads configPath when it exists and falls back to the defaults
// otherwise. An empty path means the default location.
func Resolve(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = GetDefaultConfigPath()
	}
	if !ConfigExists(configPath) {
		return DefaultConfig(), nil
	}
	return LoadConfig(configPath)
}

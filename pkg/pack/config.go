package pack

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// DefaultConfig is the pack.yml written by Init.
func DefaultConfig() *PackConfig {
	return &PackConfig{
		ID:      "my-pack",
		Name:    "My Pack",
		Author:  "",
		Version: "0.1.0",
		Mods:    []Mod{},
	}
}

// LoadConfig reads a pack.yml.
func LoadConfig(path string) (*PackConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg PackConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse pack config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes cfg as YAML.
func SaveConfig(cfg *PackConfig, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal pack config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pack config: %w", err)
	}
	return nil
}

// CheckVersion reports whether v is a full semantic version such as
// 1.2.3 or 1.2.3-rc.1+build. The v prefix and shorthand forms like 1.2
// are rejected.
func CheckVersion(v string) bool {
	if strings.HasPrefix(v, "v") {
		return false
	}
	sv := "v" + v
	if !semver.IsValid(sv) {
		return false
	}
	return semver.Canonical(sv) == strings.TrimSuffix(sv, semver.Build(sv))
}

// Validate checks the pack before it is built.
func (c *PackConfig) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidConfig)
	}
	if !CheckVersion(c.Version) {
		return fmt.Errorf("%w: version %q must be valid semver", ErrInvalidConfig, c.Version)
	}

	seen := make(map[string]bool, len(c.Mods))
	for i, m := range c.Mods {
		if m.ID == "" {
			return fmt.Errorf("%w: mod %d: id is required", ErrInvalidConfig, i)
		}
		if _, err := ParseModSource(uint8(m.Source)); err != nil {
			return fmt.Errorf("%w: mod %s: %v", ErrInvalidConfig, m.ID, err)
		}
		if _, err := ParseModEnv(uint8(m.Env)); err != nil {
			return fmt.Errorf("%w: mod %s: %v", ErrInvalidConfig, m.ID, err)
		}
		key := m.Source.String() + "/" + m.ID
		if seen[key] {
			return fmt.Errorf("%w: mod %s listed twice", ErrInvalidConfig, key)
		}
		seen[key] = true
	}
	return nil
}

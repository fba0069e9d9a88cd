// Package pack assembles a rilipak modpack: the pack.yml description, the
// mod build recipes under include/ and a zip of everything else.
package pack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ssargent/rilipak/pkg/modbuild"
	"github.com/ssargent/rilipak/pkg/oxfmt"
)

//go:generate go run github.com/ssargent/rilipak/cmd/oxfmtgen

const (
	// Extension is the file suffix of a built pack.
	Extension = ".rilipak"
	// ConfigFile is the pack description inside a pack directory.
	ConfigFile = "pack.yml"
	// IgnoreFile lists extra paths left out of the archive.
	IgnoreFile = ".packignore"
	// IncludeDir holds the serialized mod builds shipped with the pack.
	IncludeDir = "include"
)

var (
	ErrInvalidConfig = errors.New("invalid pack config")
	ErrInvalidBuild  = errors.New("invalid mod build in include")
)

// ModSource is where a mod is downloaded from.
//
//oxfmt:enum
type ModSource uint8

const (
	ModSourceCurseforge ModSource = 0
	ModSourceModrinth   ModSource = 1
	ModSourceGithub     ModSource = 2
)

// ModEnv is the side a mod runs on.
//
//oxfmt:enum
type ModEnv uint8

const (
	ModEnvServer ModEnv = 0
	ModEnvClient ModEnv = 1
	ModEnvCommon ModEnv = 2
)

// PackConfig is the content of pack.yml.
//
//oxfmt:record
type PackConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Author  string `yaml:"author"`
	Version string `yaml:"version"`
	Mods    []Mod  `yaml:"mods"`
}

//oxfmt:record
type Mod struct {
	Source ModSource `yaml:"source"`
	ID     string    `yaml:"id"`
	Env    ModEnv    `yaml:"env"`
}

// PackMeta carries the config and the raw .mcmodbuild buffers.
//
//oxfmt:record
type PackMeta struct {
	Config    PackConfig
	ModBuilds [][]byte
}

// Pack is the serialized .rilipak file. Include is a zip archive of the
// pack directory.
//
//oxfmt:record header=rilipak version=1
type Pack struct {
	Meta    PackMeta
	Include []byte
}

// FileName is the default output name for a pack with the given ID.
func FileName(id string) string {
	return id + Extension
}

// Encode serializes p.
func (p *Pack) Encode(opts ...oxfmt.BuilderOption) ([]byte, error) {
	return oxfmt.Marshal(p, opts...)
}

// ReadFile deserializes the .rilipak file at path.
func ReadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	p, err := oxfmt.Decode[Pack](data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &p, nil
}

// Builds decodes the mod builds embedded in the pack.
func (p *Pack) Builds() ([]*modbuild.ModBuild, error) {
	out := make([]*modbuild.ModBuild, 0, len(p.Meta.ModBuilds))
	for i, raw := range p.Meta.ModBuilds {
		b, err := modbuild.DecodeBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidBuild, i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// Init lays out a new pack directory at dir.
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create pack directory: %w", err)
	}
	if err := os.Mkdir(filepath.Join(dir, IncludeDir), 0755); err != nil {
		return fmt.Errorf("failed to create include directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, IgnoreFile), []byte(defaultIgnore), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", IgnoreFile, err)
	}
	return SaveConfig(DefaultConfig(), filepath.Join(dir, ConfigFile))
}

// Build validates the pack directory at dir and assembles the Pack.
func Build(dir string) (*Pack, error) {
	cfg, err := LoadConfig(filepath.Join(dir, ConfigFile))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	builds, err := readIncludes(filepath.Join(dir, IncludeDir))
	if err != nil {
		return nil, err
	}

	exclude, err := ReadExclude(dir)
	if err != nil {
		return nil, err
	}
	archive, err := ZipDir(dir, exclude)
	if err != nil {
		return nil, err
	}

	return &Pack{
		Meta:    PackMeta{Config: *cfg, ModBuilds: builds},
		Include: archive,
	}, nil
}

// readIncludes returns every regular file in dir after checking that it
// decodes as a mod build.
func readIncludes(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IncludeDir, err)
	}

	var builds [][]byte
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		if _, err := modbuild.DecodeBytes(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidBuild, e.Name(), err)
		}
		builds = append(builds, data)
	}
	return builds, nil
}

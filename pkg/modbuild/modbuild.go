// Package modbuild describes how a mod is fetched and built from source,
// and the .mcmodbuild file that carries such a description.
package modbuild

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ssargent/rilipak/pkg/oxfmt"
	"gopkg.in/yaml.v3"
)

//go:generate go run github.com/ssargent/rilipak/cmd/oxfmtgen

// Extension is the file suffix of a serialized ModBuild.
const Extension = ".mcmodbuild"

// Output prefixes. A file output names the artifact itself, a directory
// output names the folder the build drops it in.
const (
	OutFile = "file:"
	OutDir  = "dir:"
)

// ErrInvalidBuild is wrapped by every Validate failure.
var ErrInvalidBuild = errors.New("invalid mod build")

// BuildType selects how the checkout is built.
//
//oxfmt:enum
type BuildType uint8

const (
	BuildCmd BuildType = 0 // run Cmd
	BuildStd BuildType = 1 // run ./gradlew build
)

// ExcludeType selects how an ExcludePair matches a file name.
//
//oxfmt:enum
type ExcludeType uint8

const (
	ExcludeEnds     ExcludeType = 0
	ExcludeStarts   ExcludeType = 1
	ExcludeContains ExcludeType = 2
)

// ModBuild is the recipe for one mod.
//
//oxfmt:record header=mcmodbuild version=1
type ModBuild struct {
	ID      string        `json:"id" yaml:"id"`
	Name    string        `json:"name" yaml:"name"`
	Git     string        `json:"git" yaml:"git"`
	Branch  string        `json:"branch" yaml:"branch"`
	Build   BuildType     `json:"build" yaml:"build"`
	Cmd     *string       `json:"cmd,omitempty" yaml:"cmd,omitempty" oxfmt:"when=Build:BuildCmd"`
	Out     string        `json:"out" yaml:"out"`
	Exclude []ExcludePair `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// ExcludePair drops build outputs whose name matches Value.
//
//oxfmt:record
type ExcludePair struct {
	Type  ExcludeType `json:"type" yaml:"type"`
	Value string      `json:"value" yaml:"value"`
}

// Load reads a YAML recipe and validates it.
func Load(path string) (*ModBuild, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mod build: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var b ModBuild
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to parse mod build: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the fields a build cannot run without.
func (b *ModBuild) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"id", b.ID},
		{"name", b.Name},
		{"git", b.Git},
		{"branch", b.Branch},
		{"out", b.Out},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidBuild, f.name)
		}
	}

	if _, err := ParseBuildType(uint8(b.Build)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBuild, err)
	}
	switch {
	case b.Build == BuildCmd && (b.Cmd == nil || strings.TrimSpace(*b.Cmd) == ""):
		return fmt.Errorf("%w: build type cmd needs a cmd", ErrInvalidBuild)
	case b.Build != BuildCmd && b.Cmd != nil:
		return fmt.Errorf("%w: cmd is only allowed with build type cmd", ErrInvalidBuild)
	}

	if !strings.HasPrefix(b.Out, OutFile) && !strings.HasPrefix(b.Out, OutDir) {
		return fmt.Errorf("%w: out must start with %q or %q", ErrInvalidBuild, OutFile, OutDir)
	}

	for i, p := range b.Exclude {
		if _, err := ParseExcludeType(uint8(p.Type)); err != nil {
			return fmt.Errorf("%w: exclude %d: %v", ErrInvalidBuild, i, err)
		}
		if p.Value == "" {
			return fmt.Errorf("%w: exclude %d: value is required", ErrInvalidBuild, i)
		}
	}
	return nil
}

// Encode validates b and serializes it.
func (b *ModBuild) Encode(opts ...oxfmt.BuilderOption) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return oxfmt.Marshal(b, opts...)
}

// DecodeBytes deserializes a .mcmodbuild buffer.
func DecodeBytes(data []byte) (*ModBuild, error) {
	b, err := oxfmt.Decode[ModBuild](data)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ReadFile deserializes the .mcmodbuild file at path.
func ReadFile(path string) (*ModBuild, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	b, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return b, nil
}

// FileName is the default name of the serialized recipe.
func (b *ModBuild) FileName() string {
	return b.ID + Extension
}

// CheckoutName names the cached checkout of the recipe's branch.
func (b *ModBuild) CheckoutName() string {
	return b.ID + "-" + b.Branch
}

// JarName is the default name of the installed artifact.
func (b *ModBuild) JarName() string {
	return b.CheckoutName() + ".jar"
}

package pack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ssargent/rilipak/pkg/modbuild"
	"github.com/ssargent/rilipak/pkg/oxfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func encodedBuild(t *testing.T, id string) []byte {
	t.Helper()
	b := &modbuild.ModBuild{
		ID:     id,
		Name:   id,
		Git:    "https://github.com/example/" + id,
		Branch: "main",
		Build:  modbuild.BuildStd,
		Out:    "dir:@/build/libs",
	}
	data, err := b.Encode()
	require.NoError(t, err)
	return data
}

func TestPack_RoundTrip(t *testing.T) {
	p := &Pack{
		Meta: PackMeta{
			Config: PackConfig{
				ID:      "skyblock",
				Name:    "Skyblock",
				Author:  "someone",
				Version: "1.0.0",
				Mods: []Mod{
					{Source: ModSourceModrinth, ID: "sodium", Env: ModEnvClient},
					{Source: ModSourceGithub, ID: "lithium", Env: ModEnvCommon},
				},
			},
			ModBuilds: [][]byte{encodedBuild(t, "a"), encodedBuild(t, "b")},
		},
		Include: []byte("PK\x05\x06"),
	}

	for _, arch := range []oxfmt.Arch{oxfmt.Arch32, oxfmt.Arch64} {
		data, err := p.Encode(oxfmt.WithArch(arch))
		require.NoError(t, err)
		assert.Equal(t, "rilipak", string(data[:7]))

		got, err := oxfmt.Decode[Pack](data)
		require.NoError(t, err)
		assert.Equal(t, *p, got)

		builds, err := got.Builds()
		require.NoError(t, err)
		require.Len(t, builds, 2)
		assert.Equal(t, "b", builds[1].ID)
	}
}

func TestPack_BuildsRejectsGarbage(t *testing.T) {
	p := &Pack{Meta: PackMeta{ModBuilds: [][]byte{[]byte("nope")}}}
	_, err := p.Builds()
	assert.ErrorIs(t, err, ErrInvalidBuild)
	assert.ErrorIs(t, err, oxfmt.ErrInvalidHeader)
}

func TestModEnum_Text(t *testing.T) {
	var s ModSource
	require.NoError(t, s.UnmarshalText([]byte("Curseforge")))
	assert.Equal(t, ModSourceCurseforge, s)
	assert.Equal(t, "modrinth", ModSourceModrinth.String())

	var e ModEnv
	assert.ErrorIs(t, e.UnmarshalText([]byte("both")), oxfmt.ErrInvalidDiscriminant)
	_, err := ModEnv(9).MarshalText()
	assert.ErrorIs(t, err, oxfmt.ErrInvalidDiscriminant)
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pack")
	require.NoError(t, Init(dir))

	assert.DirExists(t, filepath.Join(dir, IncludeDir))
	ignore, err := os.ReadFile(filepath.Join(dir, IgnoreFile))
	require.NoError(t, err)
	assert.Contains(t, string(ignore), "crash-reports/")

	cfg, err := LoadConfig(filepath.Join(dir, ConfigFile))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().ID, cfg.ID)
	assert.NoError(t, cfg.Validate())

	// include/ already exists
	assert.Error(t, Init(dir))
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	writeFile(t, filepath.Join(dir, IncludeDir, "a.mcmodbuild"), encodedBuild(t, "a"))
	writeFile(t, filepath.Join(dir, "config", "options.txt"), []byte("fov:90"))
	writeFile(t, filepath.Join(dir, "logs", "latest.log"), []byte("noise"))
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), []byte("ref: refs/heads/main"))
	writeFile(t, filepath.Join(dir, "README.md"), []byte("hello"))

	p, err := Build(dir)
	require.NoError(t, err)
	assert.Equal(t, "my-pack", p.Meta.Config.ID)
	require.Len(t, p.Meta.ModBuilds, 1)

	files, err := p.Files()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"README.md", "config/options.txt"}, files)

	data, err := p.Encode()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), FileName(p.Meta.Config.ID))
	require.NoError(t, os.WriteFile(path, data, 0644))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, p.Meta.ModBuilds, got.Meta.ModBuilds)
	assert.Equal(t, p.Include, got.Include)
}

func TestBuild_Errors(t *testing.T) {
	t.Run("invalid version", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, Init(dir))
		cfg := DefaultConfig()
		cfg.Version = "one"
		require.NoError(t, SaveConfig(cfg, filepath.Join(dir, ConfigFile)))

		_, err := Build(dir)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("bad include", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, Init(dir))
		writeFile(t, filepath.Join(dir, IncludeDir, "junk.mcmodbuild"), []byte("mcmodbuild"))

		_, err := Build(dir)
		assert.ErrorIs(t, err, ErrInvalidBuild)
		assert.Contains(t, err.Error(), "junk.mcmodbuild")
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := Build(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("missing include", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, SaveConfig(DefaultConfig(), filepath.Join(dir, ConfigFile)))
		_, err := Build(dir)
		assert.Error(t, err)
	})
}

func TestReadFile_Errors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.rilipak"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "wrong.rilipak")
	writeFile(t, path, encodedBuild(t, "x"))
	_, err = ReadFile(path)
	assert.ErrorIs(t, err, oxfmt.ErrInvalidHeader)
}

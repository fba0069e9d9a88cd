package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ssargent/rilipak/pkg/modbuild"
	"github.com/ssargent/rilipak/pkg/pack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initPack(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, pack.Init(dir))

	b := &modbuild.ModBuild{
		ID:     "lithium",
		Name:   "Lithium",
		Git:    "https://github.com/CaffeineMC/lithium",
		Branch: "main",
		Build:  modbuild.BuildStd,
		Out:    "file:@/build/libs/lithium.jar",
	}
	data, err := b.Encode()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, pack.IncludeDir, b.FileName()), data, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "lithium.properties"), []byte("x=1"), 0644))
	return dir
}

func TestCheckPack(t *testing.T) {
	dir := initPack(t)
	assert.NoError(t, checkPack(dir))

	cfg := pack.DefaultConfig()
	cfg.Version = "latest"
	require.NoError(t, pack.SaveConfig(cfg, filepath.Join(dir, pack.ConfigFile)))
	assert.ErrorIs(t, checkPack(dir), pack.ErrInvalidConfig)

	assert.Error(t, checkPack(t.TempDir()))
}

func TestBuildAndInspect(t *testing.T) {
	dir := initPack(t)
	out := t.TempDir()

	path, err := buildPack(dir, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "my-pack.rilipak"), path)

	var buf bytes.Buffer
	require.NoError(t, inspectPack(&buf, path))
	assert.Contains(t, buf.String(), "id: my-pack")
	assert.Contains(t, buf.String(), "lithium (https://github.com/CaffeineMC/lithium@main)")
	assert.Contains(t, buf.String(), "config/lithium.properties")
	assert.NotContains(t, buf.String(), "pack.yml")
}

func TestBuildPack_ExplicitFile(t *testing.T) {
	dir := initPack(t)
	dest := filepath.Join(t.TempDir(), "custom.bin")

	path, err := buildPack(dir, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, path)
	assert.FileExists(t, dest)
}

func TestInspectPack_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.rilipak")
	require.NoError(t, os.WriteFile(path, []byte("rilipak"), 0644))
	assert.Error(t, inspectPack(&bytes.Buffer{}, path))
}

func TestRootCommand_Structure(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"init", "build", "check", "inspect"} {
		assert.True(t, names[want], want)
	}
}

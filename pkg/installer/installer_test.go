package installer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/ssargent/rilipak/pkg/modbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func newInstaller(t *testing.T, b *modbuild.ModBuild) *Installer {
	t.Helper()
	return New(b, t.TempDir(), zap.NewNop())
}

func TestNew_BuildPath(t *testing.T) {
	b := &modbuild.ModBuild{ID: "sodium", Branch: "dev"}
	i := New(b, "/var/cache/mcmodbuild", zap.NewNop())
	assert.Equal(t, "/var/cache/mcmodbuild/sodium-dev", i.BuildPath())
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name    string
		build   modbuild.BuildType
		cmd     *string
		program string
		args    []string
		wantErr error
	}{
		{name: "std", build: modbuild.BuildStd, program: "./gradlew", args: []string{"build"}},
		{name: "custom", build: modbuild.BuildCmd, cmd: strPtr("make  jar -j4"), program: "make", args: []string{"jar", "-j4"}},
		{name: "single word", build: modbuild.BuildCmd, cmd: strPtr("just"), program: "just", args: []string{}},
		{name: "blank", build: modbuild.BuildCmd, cmd: strPtr("   "), wantErr: ErrNoCommand},
		{name: "missing", build: modbuild.BuildCmd, wantErr: ErrNoCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := newInstaller(t, &modbuild.ModBuild{ID: "m", Branch: "main", Build: tt.build, Cmd: tt.cmd})
			program, args, err := i.Command()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.program, program)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBuiltFile(t *testing.T) {
	setup := func(t *testing.T, out string, exclude []modbuild.ExcludePair, files ...string) *Installer {
		t.Helper()
		i := newInstaller(t, &modbuild.ModBuild{ID: "m", Branch: "main", Out: out, Exclude: exclude})
		libs := filepath.Join(i.BuildPath(), "build", "libs")
		require.NoError(t, os.MkdirAll(libs, 0755))
		for _, f := range files {
			require.NoError(t, os.WriteFile(filepath.Join(libs, f), []byte(f), 0644))
		}
		return i
	}

	t.Run("file output", func(t *testing.T) {
		i := setup(t, "file:@/build/libs/mod.jar", nil)
		path, err := i.BuiltFile()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(i.BuildPath(), "build", "libs", "mod.jar"), path)
	})

	t.Run("dir output with excludes", func(t *testing.T) {
		i := setup(t, "dir:@/build/libs",
			[]modbuild.ExcludePair{
				{Type: modbuild.ExcludeEnds, Value: "-sources.jar"},
				{Type: modbuild.ExcludeStarts, Value: "dev-"},
			},
			"mod-1.0.jar", "mod-1.0-sources.jar", "dev-mod.jar")
		path, err := i.BuiltFile()
		require.NoError(t, err)
		assert.Equal(t, "mod-1.0.jar", filepath.Base(path))
	})

	t.Run("dir output ambiguous", func(t *testing.T) {
		i := setup(t, "dir:@/build/libs", nil, "a.jar", "b.jar")
		_, err := i.BuiltFile()
		assert.ErrorIs(t, err, ErrAmbiguousOutput)
	})

	t.Run("dir output all excluded", func(t *testing.T) {
		i := setup(t, "dir:@/build/libs",
			[]modbuild.ExcludePair{{Type: modbuild.ExcludeContains, Value: "jar"}},
			"a.jar")
		_, err := i.BuiltFile()
		assert.ErrorIs(t, err, ErrAmbiguousOutput)
	})

	t.Run("missing dir", func(t *testing.T) {
		i := newInstaller(t, &modbuild.ModBuild{ID: "m", Branch: "main", Out: "dir:@/nowhere"})
		_, err := i.BuiltFile()
		assert.Error(t, err)
	})

	t.Run("unknown prefix", func(t *testing.T) {
		i := newInstaller(t, &modbuild.ModBuild{ID: "m", Branch: "main", Out: "jar:@/x"})
		_, err := i.BuiltFile()
		assert.ErrorIs(t, err, modbuild.ErrInvalidBuild)
	})
}

func TestBuildProject(t *testing.T) {
	if _, err := exec.LookPath("touch"); err != nil {
		t.Skip("touch not available")
	}

	i := newInstaller(t, &modbuild.ModBuild{
		ID: "m", Branch: "main",
		Build: modbuild.BuildCmd, Cmd: strPtr("touch built.jar"),
	})
	require.NoError(t, os.MkdirAll(i.BuildPath(), 0755))

	require.NoError(t, i.BuildProject(context.Background()))
	assert.FileExists(t, filepath.Join(i.BuildPath(), "built.jar"))
}

func TestBuildProject_Failure(t *testing.T) {
	i := newInstaller(t, &modbuild.ModBuild{
		ID: "m", Branch: "main",
		Build: modbuild.BuildCmd, Cmd: strPtr("definitely-not-a-real-program-xyz"),
	})
	require.NoError(t, os.MkdirAll(i.BuildPath(), 0755))

	assert.Error(t, i.BuildProject(context.Background()))
}

func TestDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mod.jar")
	content := []byte("not really a jar")
	require.NoError(t, os.WriteFile(path, content, 0644))

	got, err := Digest(path)
	require.NoError(t, err)

	want := blake3.Sum256(content)
	assert.Equal(t, want[:], got)

	_, err = Digest(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

// initRepo creates a repository with one commit on master holding mod.txt.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mod.txt"), []byte("mod contents"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("mod.txt")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestInstall_LocalRepository(t *testing.T) {
	for _, bin := range []string{"git", "cp"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not available", bin)
		}
	}

	b := &modbuild.ModBuild{
		ID:     "local",
		Name:   "Local",
		Git:    initRepo(t),
		Branch: "master",
		Build:  modbuild.BuildCmd,
		Cmd:    strPtr("cp mod.txt mod.jar"),
		Out:    "file:@/mod.jar",
	}
	i := newInstaller(t, b)
	dest := filepath.Join(t.TempDir(), "mods", b.JarName())
	ctx := context.Background()

	require.NoError(t, i.Install(ctx, dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "mod contents", string(data))

	// A second run pulls the existing checkout.
	built, err := i.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(i.BuildPath(), "mod.jar"), built)
}

func TestInstall_CloneFailure(t *testing.T) {
	b := &modbuild.ModBuild{
		ID:     "broken",
		Git:    filepath.Join(t.TempDir(), "no-such-repo"),
		Branch: "main",
		Build:  modbuild.BuildStd,
		Out:    "file:@/x.jar",
	}
	i := newInstaller(t, b)
	err := i.Install(context.Background(), filepath.Join(t.TempDir(), "x.jar"))
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(i.BuildPath(), "x.jar"))
}

func TestCloneDepth(t *testing.T) {
	assert.Equal(t, 1, cloneDepth("https://github.com/example/mod.git"))
	assert.Equal(t, 1, cloneDepth("git@github.com:example/mod.git"))
	assert.Equal(t, 0, cloneDepth("/srv/git/mod"))
	assert.Equal(t, 0, cloneDepth("file:///srv/git/mod"))
}

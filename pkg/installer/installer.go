// Package installer fetches a mod's repository, builds it and copies the
// resulting artifact into place.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/ssargent/rilipak/pkg/modbuild"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

// StdCommand is what a BuildStd recipe runs inside the checkout.
const StdCommand = "./gradlew build"

// Steps is the number of stages Install reports progress for.
const Steps = 4

var (
	// ErrNoCommand is returned when a recipe resolves to an empty command.
	ErrNoCommand = errors.New("no build command")
	// ErrAmbiguousOutput is returned when a dir: output does not hold
	// exactly one file after exclusions.
	ErrAmbiguousOutput = errors.New("build output must match exactly one file")
)

type Installer struct {
	build     *modbuild.ModBuild
	cacheDir  string
	buildPath string
	out       io.Writer
	sugar     *zap.SugaredLogger
}

// Option configures an Installer.
type Option func(*Installer)

// WithOutput sends git progress and build output to w.
func WithOutput(w io.Writer) Option {
	return func(i *Installer) {
		i.out = w
	}
}

// New prepares an installer that checks build out below cacheDir.
func New(build *modbuild.ModBuild, cacheDir string, logger *zap.Logger, opts ...Option) *Installer {
	i := &Installer{
		build:     build,
		cacheDir:  cacheDir,
		buildPath: filepath.Join(cacheDir, build.CheckoutName()),
		out:       io.Discard,
		sugar:     logger.Sugar().With("build", build.ID),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// BuildPath is the checkout directory of the recipe's branch.
func (i *Installer) BuildPath() string {
	return i.buildPath
}

func (i *Installer) EnsureCacheDirectory() error {
	if err := os.MkdirAll(i.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// CloneOrUpdate clones the recipe's branch into the checkout directory, or
// pulls it when a checkout already exists.
func (i *Installer) CloneOrUpdate(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(i.buildPath, ".git")); err == nil {
		return i.update(ctx)
	}
	return i.clone(ctx)
}

func (i *Installer) clone(ctx context.Context) error {
	if err := os.RemoveAll(i.buildPath); err != nil {
		return fmt.Errorf("failed to remove stale checkout: %w", err)
	}

	opts := &git.CloneOptions{
		URL:           i.build.Git,
		ReferenceName: plumbing.NewBranchReferenceName(i.build.Branch),
		SingleBranch:  true,
		Depth:         cloneDepth(i.build.Git),
		Progress:      i.out,
	}

	i.sugar.Debugw("cloning repository", "url", i.build.Git, "branch", i.build.Branch, "path", i.buildPath)
	repo, err := git.PlainCloneContext(ctx, i.buildPath, false, opts)
	if err != nil {
		return fmt.Errorf("failed to clone repository %s: %w", i.build.Git, err)
	}

	if ref, err := repo.Head(); err == nil {
		i.sugar.Infow("repository cloned", "commit", ref.Hash().String()[:8])
	}
	return nil
}

func (i *Installer) update(ctx context.Context) error {
	repo, err := git.PlainOpen(i.buildPath)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{
		RemoteName:    "origin",
		ReferenceName: plumbing.NewBranchReferenceName(i.build.Branch),
		SingleBranch:  true,
		Progress:      i.out,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		i.sugar.Infow("repository already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to pull repository %s: %w", i.build.Git, err)
	}

	if ref, err := repo.Head(); err == nil {
		i.sugar.Infow("repository updated", "commit", ref.Hash().String()[:8])
	}
	return nil
}

// cloneDepth keeps remote clones shallow. Local repositories are cloned
// in full since the file transport gains nothing from a shallow fetch.
func cloneDepth(url string) int {
	if strings.HasPrefix(url, "file://") || filepath.IsAbs(url) {
		return 0
	}
	return 1
}

// Command returns the program and arguments the recipe builds with.
func (i *Installer) Command() (string, []string, error) {
	line := StdCommand
	if i.build.Build == modbuild.BuildCmd {
		if i.build.Cmd == nil {
			return "", nil, ErrNoCommand
		}
		line = *i.build.Cmd
	}
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil, ErrNoCommand
	}
	return parts[0], parts[1:], nil
}

// BuildProject runs the build command inside the checkout.
func (i *Installer) BuildProject(ctx context.Context) error {
	program, args, err := i.Command()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = i.buildPath
	cmd.Stdout = i.out
	cmd.Stderr = i.out

	i.sugar.Debugw("running build", "program", program, "args", args)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w", program, err)
	}
	return nil
}

// BuiltFile resolves the recipe's output to a single artifact path.
func (i *Installer) BuiltFile() (string, error) {
	out := strings.ReplaceAll(i.build.Out, "@", i.buildPath)

	if path, ok := strings.CutPrefix(out, modbuild.OutFile); ok {
		return path, nil
	}
	dir, ok := strings.CutPrefix(out, modbuild.OutDir)
	if !ok {
		return "", fmt.Errorf("%w: unknown output %q", modbuild.ErrInvalidBuild, i.build.Out)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list build output: %w", err)
	}
	var matches []string
	for _, e := range entries {
		if modbuild.Excluded(e.Name(), i.build.Exclude) {
			continue
		}
		matches = append(matches, filepath.Join(dir, e.Name()))
	}
	if len(matches) != 1 {
		return "", fmt.Errorf("%w: found %d in %s", ErrAmbiguousOutput, len(matches), dir)
	}
	return matches[0], nil
}

type step struct {
	msg string
	run func(context.Context) error
}

func (i *Installer) steps() []step {
	return []step{
		{"preparing cache", func(context.Context) error { return i.EnsureCacheDirectory() }},
		{"updating repository", i.CloneOrUpdate},
		{"building mod", i.BuildProject},
	}
}

// Build syncs and builds the checkout and returns the artifact path.
func (i *Installer) Build(ctx context.Context) (string, error) {
	for n, s := range i.steps() {
		if err := i.runStep(ctx, n+1, s); err != nil {
			return "", err
		}
	}
	return i.BuiltFile()
}

// Install builds the mod and copies the artifact to dest.
func (i *Installer) Install(ctx context.Context, dest string) error {
	var built string
	all := append(i.steps(), step{"copying files", func(context.Context) error {
		var err error
		if built, err = i.BuiltFile(); err != nil {
			return err
		}
		return copyFile(built, dest)
	}})

	i.sugar.Infow("starting installation", "dest", dest)
	for n, s := range all {
		if err := i.runStep(ctx, n+1, s); err != nil {
			return err
		}
	}
	i.sugar.Infow("installation complete", "artifact", built, "dest", dest)
	return nil
}

func (i *Installer) runStep(ctx context.Context, n int, s step) error {
	i.sugar.Infof("[%d/%d] %s", n, Steps, s.msg)
	if err := s.run(ctx); err != nil {
		i.sugar.Errorw("step failed", "step", n, "error", err)
		return err
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer in.Close()

	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create destination: %w", err)
		}
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy artifact: %w", err)
	}
	return out.Close()
}

// Digest returns the BLAKE3-256 digest of the file at path.
func Digest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return h.Sum(nil), nil
}

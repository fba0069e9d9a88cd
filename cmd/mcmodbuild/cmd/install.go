/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/cache"
	"github.com/ssargent/rilipak/pkg/installer"
	"github.com/ssargent/rilipak/pkg/modbuild"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install <file.mcmodbuild>",
	Short: "Clone, build and install a mod",
	Long: `Install a mod from a .mcmodbuild file.

The repository is cloned (or pulled) into the cache directory, built with
the recipe's command and the resulting jar is copied to the destination.
The installed build is recorded in the build index.

Examples:
  mcmodbuild install sodium.mcmodbuild
  mcmodbuild install sodium.mcmodbuild -d ~/.minecraft/mods`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}
		dest, _ := cmd.Flags().GetString("destination")

		id, path, err := installFile(cmd.Context(), rt, cmd, args[0], dest)
		if err != nil {
			return err
		}
		cmd.Printf("Installed %s (%s)\n", path, id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().StringP("destination", "d", "", "Output file or directory (default ./<id>-<branch>.jar)")
}

func installFile(ctx context.Context, rt *runtime, cmd *cobra.Command, src, dest string) (ksuid.KSUID, string, error) {
	b, err := modbuild.ReadFile(src)
	if err != nil {
		return ksuid.Nil, "", err
	}

	path, err := filepath.Abs(resolveDest(dest, b.JarName()))
	if err != nil {
		return ksuid.Nil, "", fmt.Errorf("invalid destination: %w", err)
	}

	inst := container.GetInstallerFactory()(b, rt.cfg.CacheDir, cmd.ErrOrStderr(), rt.logger)
	if err := inst.Install(ctx, path); err != nil {
		return ksuid.Nil, "", err
	}

	digest, err := installer.Digest(path)
	if err != nil {
		return ksuid.Nil, "", err
	}

	bc, err := container.GetCacheOpener()(rt.cfg.CacheDir, rt.logger)
	if err != nil {
		return ksuid.Nil, "", err
	}
	defer bc.Close()

	id, err := bc.Put(&cache.Entry{
		Build:       *b,
		Artifact:    path,
		Digest:      digest,
		InstalledAt: uint64(time.Now().Unix()),
	})
	if err != nil {
		return ksuid.Nil, "", err
	}
	return id, path, nil
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/pack"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the modpack into a .rilipak file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("pack-dir")
		dest, _ := cmd.Flags().GetString("destination")

		path, err := buildPack(dir, dest)
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("destination", "d", "", "Output file (default ./<id>.rilipak)")
}

func buildPack(dir, dest string) (string, error) {
	p, err := pack.Build(dir)
	if err != nil {
		return "", err
	}
	logger.Sugar().Infow("pack assembled",
		"id", p.Meta.Config.ID,
		"builds", len(p.Meta.ModBuilds),
		"archive_bytes", len(p.Include))

	data, err := p.Encode()
	if err != nil {
		return "", err
	}

	if dest == "" {
		dest = pack.FileName(p.Meta.Config.ID)
	} else if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, pack.FileName(p.Meta.Config.ID))
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return dest, nil
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/modbuild"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build <modbuild.yml>",
	Short: "Compile a YAML recipe into a .mcmodbuild file",
	Long: `Read a YAML mod recipe, validate it and write its binary form.

Examples:
  mcmodbuild build sodium.yml
  mcmodbuild build sodium.yml -d ./include`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}
		dest, _ := cmd.Flags().GetString("destination")

		path, err := compileRecipe(args[0], dest)
		if err != nil {
			return err
		}
		rt.logger.Debug("recipe compiled")
		cmd.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("destination", "d", "", "Output file or directory (default ./<id>.mcmodbuild)")
}

// resolveDest picks the output path: dest itself, or name inside dest when
// dest is an existing directory, or name in the working directory.
func resolveDest(dest, name string) string {
	if dest == "" {
		return name
	}
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return filepath.Join(dest, name)
	}
	return dest
}

func compileRecipe(src, dest string) (string, error) {
	b, err := modbuild.Load(src)
	if err != nil {
		return "", err
	}
	data, err := b.Encode()
	if err != nil {
		return "", err
	}

	path := resolveDest(dest, b.FileName())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

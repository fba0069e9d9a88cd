/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/pack"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a new modpack directory",
	Long: `Create include/, a default .packignore and pack.yml in path (or the
current directory).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if err := pack.Init(dir); err != nil {
			return fmt.Errorf("failed to create files: %w", err)
		}
		abs, _ := filepath.Abs(dir)
		cmd.Printf("Successfully initialized modpack at %s\n", abs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/pack"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate pack.yml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("pack-dir")
		if err := checkPack(dir); err != nil {
			return err
		}
		cmd.Println("pack.yml is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkPack(dir string) error {
	cfg, err := pack.LoadConfig(filepath.Join(dir, pack.ConfigFile))
	if err != nil {
		return err
	}
	return cfg.Validate()
}

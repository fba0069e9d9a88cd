/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the mcmodbuild configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cacheDir, _ := cmd.Flags().GetString("cache-dir")
		force, _ := cmd.Flags().GetBool("force")

		path, err := writeConfig(configPath, cacheDir, force)
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
}

func writeConfig(configPath, cacheDir string, force bool) (string, error) {
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}
	if config.ConfigExists(configPath) && !force {
		return "", fmt.Errorf("config already exists at %s, use --force to overwrite", configPath)
	}
	if _, err := config.BootstrapConfig(configPath, cacheDir); err != nil {
		return "", err
	}
	return configPath, nil
}

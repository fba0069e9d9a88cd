/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/config"
	"github.com/ssargent/rilipak/pkg/logging"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rilipak",
	Short: "Package Minecraft modpacks",
	Long: `rilipak bundles a modpack directory into a single .rilipak file: the
pack.yml description, the .mcmodbuild recipes under include/ and a zip of
every other file not listed in .packignore.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		l, err := logging.New(config.Logging{Level: level, Format: "console"})
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("pack-dir", "C", ".", "Pack directory")
}

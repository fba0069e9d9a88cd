/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/config"
	"github.com/ssargent/rilipak/pkg/di"
	"github.com/ssargent/rilipak/pkg/logging"
	"go.uber.org/zap"
)

var container *di.Container

// SetContainer injects the dependencies the commands use.
func SetContainer(c *di.Container) {
	container = c
}

type runtimeKey struct{}

// runtime is what PersistentPreRunE resolves for every command.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
}

func runtimeFrom(cmd *cobra.Command) (*runtime, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtime)
	if !ok {
		return nil, errors.New("runtime not initialized")
	}
	if container == nil {
		return nil, errors.New("dependency container not initialized")
	}
	return rt, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcmodbuild",
	Short: "Build Minecraft mods from source",
	Long: `mcmodbuild turns a YAML recipe into a compact .mcmodbuild file and
installs mods from such files by cloning, building and copying the result.

Installed builds are indexed in the cache directory and can be served
read-only over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		logLevel, _ := cmd.Flags().GetString("log-level")
		cacheDir, _ := cmd.Flags().GetString("cache-dir")

		cfg, err := config.Resolve(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if cacheDir != "" {
			cfg.CacheDir = cacheDir
		}

		logger, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}

		cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey{}, &runtime{cfg: cfg, logger: logger}))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rt, ok := cmd.Context().Value(runtimeKey{}).(*runtime); ok {
			_ = rt.logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/mcmodbuild/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("cache-dir", "", "Directory for checkouts and the build index")
}

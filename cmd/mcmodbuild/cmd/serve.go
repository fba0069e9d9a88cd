/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/ssargent/rilipak/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the build index over HTTP",
	Long: `Start the read-only registry API over the build index.

Examples:
  mcmodbuild serve
  mcmodbuild serve --port 9000 --bind 0.0.0.0 --api-key mysecretkey`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}

		config := api.ServerConfig{
			Port: rt.cfg.Port,
			Bind: rt.cfg.Bind,
		}
		if cmd.Flags().Changed("port") {
			config.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			config.Bind, _ = cmd.Flags().GetString("bind")
		}
		config.APIKey, _ = cmd.Flags().GetString("api-key")
		config.AllowedOrigins, _ = cmd.Flags().GetStringSlice("allowed-origin")

		bc, err := container.GetCacheOpener()(rt.cfg.CacheDir, rt.logger)
		if err != nil {
			return err
		}
		defer bc.Close()

		cmd.Printf("Serving %s on http://%s\n", rt.cfg.CacheDir, api.Addr(config))
		return container.GetServerFactory().CreateServerStarter(rt.logger).StartServer(cmd.Context(), bc, config)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind (overrides config)")
	serveCmd.Flags().String("api-key", "", "Require this X-API-Key on build routes")
	serveCmd.Flags().StringSlice("allowed-origin", nil, "CORS origins allowed to call the API")
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/frukit/pkg/api"
	"github.com/ssargent/frukit/pkg/config"
	"github.com/ssargent/frukit/pkg/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the frukit REST API server",
	Long: `Start the REST API server: decode/encode endpoints, the image
inventory, and Prometheus metrics.

Example:
  frukit serve
  frukit serve --config ./frukit.yaml --port 9200`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" && config.ConfigExists(config.GetDefaultConfigPath()) {
			configPath = config.GetDefaultConfigPath()
		}
		if configPath != "" {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
		}
		if cmd.Flags().Changed("strict") {
			cfg.Strict, _ = cmd.Flags().GetBool("strict")
		}

		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}
		inv, err := store.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer inv.Close()

		return api.StartServer(inv, api.ServerConfig{
			Bind:   cfg.Bind,
			Port:   cfg.Port,
			Strict: cfg.Strict,
		})
	},
}

func init() {
	serveCmd.Flags().String("config", "", "Path to configuration file")
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().StringP("data-dir", "d", "./data", "Data directory for the inventory")
	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/bookmarks/internal/config"
	"github.com/joestump/bookmarks/internal/logger"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "bookmarks",
		Short:         "A bookmarks CRUD API",
		Long:          "bookmarks stores titled, rated links and serves them over a JSON API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./bookmarks.yaml if present)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and builds the process logger from it.
func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/bookmarks/internal/db"
	"github.com/joestump/bookmarks/internal/logger"
	"github.com/joestump/bookmarks/internal/seed"
	"github.com/joestump/bookmarks/internal/store"
)

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert bookmarks from a YAML fixtures file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			items, err := seed.Parse(f)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			n, err := seed.Apply(cmd.Context(), store.NewBookmarkStore(database), items)
			if err != nil {
				return err
			}
			log.Info("seed complete", logger.String("file", file), logger.Int("inserted", n))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "fixtures.yaml", "YAML fixtures file")
	return cmd
}

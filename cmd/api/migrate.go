package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/shop-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/shop-booking/internal/db"
	"github.com/BruksfildServices01/shop-booking/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	var importLegacy bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.IsProduction(), cfg.LogFile)
			defer func() { _ = log.Sync() }()

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}

			if err := dbpkg.Migrate(db); err != nil {
				return err
			}
			log.Info("schema up to date")

			if importLegacy {
				n, err := dbpkg.ImportLegacySlots(db)
				if err != nil {
					return err
				}
				log.Info("legacy slots imported", zap.Int("slots", n))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&importLegacy, "import-legacy", false, "convert rows of legacy_time_slots into time_slots")
	return cmd
}

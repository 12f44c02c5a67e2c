package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/pkg/database"
)

func newMigrateCmd(logger *zap.SugaredLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and seed the role catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := database.ConfigFromEnv()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.EnsureSchema(cmd.Context(), db); err != nil {
				return err
			}
			logger.Info("schema ensured")
			return nil
		},
	}
}

package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/configs"
	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/seed"
	"github.com/randy-rebucas/localpro-backend/pkg/database"
)

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load fixture documents into Firestore",
		Long:  "Load fixture documents into Firestore. Intended for the emulator and development projects.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fixtures, err := configs.LoadFixtures(file)
			if err != nil {
				return err
			}
			logger, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()

			store := database.NewFirestoreService(db.GetFirestoreClient())
			defer store.Close()

			n, err := seed.Apply(cmd.Context(), store, fixtures, time.Now().UTC(), logger)
			if err != nil {
				return err
			}
			logger.Info("Fixtures loaded", zap.Int("documents", n))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "fixtures YAML file (default $PATH_FIXTURES or configs/fixtures.yaml)")
	return cmd
}

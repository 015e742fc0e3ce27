package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/models"
	"github.com/randy-rebucas/localpro-backend/pkg/database"
)

func newPromoteCmd() *cobra.Command {
	var uid string
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Grant the admin role to a user",
		Long:  "Sets the role custom claim on the Firebase Auth user and mirrors it on the profile document. The user must sign in again for the claim to reach new ID tokens.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if uid == "" {
				return errors.New("--uid is required")
			}
			logger, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer logger.Sync()

			authClient := db.GetFirebaseAuthClient()
			claims := map[string]interface{}{"role": string(models.RoleAdmin)}
			if err := authClient.SetCustomUserClaims(cmd.Context(), uid, claims); err != nil {
				return fmt.Errorf("failed to set custom claims for %s: %w", uid, err)
			}

			store := database.NewFirestoreService(db.GetFirestoreClient())
			defer store.Close()
			if err := store.Update(cmd.Context(), "users", uid, map[string]interface{}{"role": string(models.RoleAdmin)}); err != nil {
				// The claim is what authorizes; the profile field is informational.
				logger.Warn("Claim set but profile role not updated", zap.String("uid", uid), zap.Error(err))
				return nil
			}
			logger.Info("User promoted to admin", zap.String("uid", uid))
			return nil
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "", "Firebase Auth UID to promote")
	return cmd
}

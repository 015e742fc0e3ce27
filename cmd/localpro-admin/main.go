// Command localpro-admin holds operator tasks: seeding fixture data and granting the admin role.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/config"
	"github.com/randy-rebucas/localpro-backend/internal/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "localpro-admin",
		Short:         "Operator tasks for the LocalPro backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSeedCmd(), newPromoteCmd())
	return root
}

// connect loads configuration and initializes Firebase for a single command run.
func connect(ctx context.Context) (*zap.Logger, error) {
	appConfig, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}
	return logger, nil
}

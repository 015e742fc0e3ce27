package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/config"
	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/notifier"
	"github.com/randy-rebucas/localpro-backend/pkg/mailer"
	"github.com/randy-rebucas/localpro-backend/pkg/messagequeue"
)

// notifier consumes the notifications queue and emails each recipient.
func main() {
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}
	if appConfig.RabbitMQURL == "" {
		log.Fatal("CRITICAL_ERROR: RABBITMQ_URL is required for the notifier")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	initCtx, cancelInit := context.WithTimeout(ctx, 15*time.Second)
	defer cancelInit()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore", zap.Error(err))
	}
	defer db.CloseFirestore()

	mq, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL}, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer mq.Close()

	mail := mailer.New(mailer.Config{
		Host:     appConfig.SMTPHost,
		Port:     appConfig.SMTPPort,
		Username: appConfig.SMTPUser,
		Password: appConfig.SMTPPass,
		Sender:   appConfig.MailSender,
	})
	n := notifier.New(db.NewFirestoreUserRepository(db.GetFirestoreClient()), mail, zapLogger)

	zapLogger.Info("Notifier consuming", zap.String("queue", appConfig.NotificationsQueue))
	err = mq.Consume(ctx, appConfig.NotificationsQueue, n.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		zapLogger.Error("Notifier stopped", zap.Error(err))
		return
	}
	zapLogger.Info("Notifier exiting gracefully.")
}

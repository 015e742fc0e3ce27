package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/api"
	"github.com/randy-rebucas/localpro-backend/internal/config"
	"github.com/randy-rebucas/localpro-backend/internal/core"
	"github.com/randy-rebucas/localpro-backend/internal/crypto"
	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/middleware"
	"github.com/randy-rebucas/localpro-backend/internal/realtime"
	"github.com/randy-rebucas/localpro-backend/pkg/cache"
	"github.com/randy-rebucas/localpro-backend/pkg/messagequeue"
)

func main() {
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	zapLogger, err := newLogger(appConfig)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- Firebase Admin SDK (Firestore and Auth) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore and Firebase Admin SDK", zap.Error(err))
	}
	defer db.CloseFirestore()

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firestoreClient == nil || firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore or Firebase Auth client is nil after initialization.")
	}

	sealer, err := crypto.NewSealerFromBase64(appConfig.EncryptionKey)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Invalid ENCRYPTION_KEY", zap.Error(err))
	}

	// --- Optional infrastructure ---
	var publisher core.EventPublisher
	if appConfig.RabbitMQURL != "" {
		mq, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL}, zapLogger)
		if err != nil {
			zapLogger.Warn("RabbitMQ unavailable; notification emails disabled", zap.Error(err))
		} else {
			defer mq.Close()
			publisher = mq
		}
	} else {
		zapLogger.Info("RABBITMQ_URL not set; notification emails disabled")
	}

	var cartService core.CartService
	redisCache, err := cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
		Address:  appConfig.RedisAddr,
		Password: appConfig.RedisPassword,
		DB:       appConfig.RedisDB,
	}, zapLogger)
	if err != nil {
		zapLogger.Warn("Redis unavailable; cart endpoints disabled", zap.Error(err), zap.String("address", appConfig.RedisAddr))
	} else {
		defer redisCache.Close()
		cartService = core.NewCartService(redisCache, appConfig.CartTTL)
	}

	// --- Repositories ---
	jobRepo := db.NewFirestoreJobRepository(firestoreClient)
	bookingRepo := db.NewFirestoreBookingRepository(firestoreClient)
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	reviewRepo := db.NewFirestoreReviewRepository(firestoreClient)
	auditRepo := db.NewFirestoreAuditRepository(firestoreClient)
	notificationRepo := db.NewFirestoreNotificationRepository(firestoreClient)
	txnRepo := db.NewFirestoreTransactionRepository(firestoreClient)
	inviteRepo := db.NewFirestoreInviteRepository(firestoreClient)

	// --- Services ---
	auditService := core.NewAuditService(auditRepo)
	notificationService := core.NewNotificationService(notificationRepo, publisher, appConfig.NotificationsQueue, zapLogger)
	services := api.Services{
		User:         core.NewUserService(userRepo),
		Job:          core.NewJobService(jobRepo, userRepo, zapLogger),
		Award:        core.NewAwardService(jobRepo, userRepo, notificationService, zapLogger),
		AdminJob:     core.NewAdminJobService(jobRepo, auditService, zapLogger),
		Applicant:    core.NewApplicantService(jobRepo, userRepo, reviewRepo),
		Booking:      core.NewBookingService(bookingRepo),
		Payment:      core.NewPaymentService(txnRepo, sealer, auditService, notificationService, zapLogger),
		Invite:       core.NewInviteService(inviteRepo, userRepo, notificationService, zapLogger),
		Notification: notificationService,
		Cart:         cartService,
	}

	// --- Realtime feed ---
	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()
	hub := realtime.NewHub(jobRepo, zapLogger)
	services.Feed = hub
	go func() {
		if err := hub.Run(feedCtx); err != nil {
			zapLogger.Error("Open jobs feed exited", zap.Error(err))
		}
	}()

	// --- HTTP ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))

	api.SetupRoutes(router, appConfig, zapLogger, firebaseAuthClient, services)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Closing the feed ends open WebSocket streams; Shutdown does not track hijacked connections.
	stopFeed()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}

func newLogger(appConfig *config.Config) (*zap.Logger, error) {
	if appConfig.IsRelease() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/config"
	"github.com/randy-rebucas/localpro-backend/internal/core"
	"github.com/randy-rebucas/localpro-backend/internal/middleware"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// Services bundles what the HTTP layer calls into. Cart may be nil when no cache is configured.
type Services struct {
	User         core.UserService
	Job          core.JobService
	Award        core.AwardService
	AdminJob     core.AdminJobService
	Applicant    core.ApplicantService
	Booking      core.BookingService
	Payment      core.PaymentService
	Invite       core.InviteService
	Notification core.NotificationService
	Cart         core.CartService
	Feed         JobFeed
}

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (logging, recovery, CORS) is expected to be applied to router by the caller.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	verifier middleware.TokenVerifier,
	services Services,
) {
	authMW := middleware.NewAuthMiddleware(verifier, logger)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	authHandler := NewAuthHandler(services.User, logger)
	userHandler := NewUserHandler(services.User, logger)
	jobHandler := NewJobHandler(services.Job, services.Award, services.Applicant, logger)
	bookingHandler := NewBookingHandler(services.Booking, services.Payment, logger)
	adminHandler := NewAdminHandler(services.AdminJob, services.Payment, logger)
	inviteHandler := NewInviteHandler(services.Invite, logger)
	notificationHandler := NewNotificationHandler(services.Notification, logger)
	streamHandler := NewStreamHandler(services.Feed, appConfig.ClientOrigins(), logger)

	apiV1 := router.Group("/api/v1", authMW.VerifyToken())
	{
		users := apiV1.Group("/users")
		{
			users.POST("/initialize", authHandler.InitializeUserProfile)
			users.GET("/me", userHandler.GetCurrentUserProfile)
		}

		jobs := apiV1.Group("/jobs")
		{
			jobs.GET("", jobHandler.ListJobs)
			jobs.POST("", jobHandler.CreateJob)
			jobs.GET("/stream", streamHandler.StreamOpenJobs)
			jobs.GET("/mine", jobHandler.ListMyJobs)
			jobs.GET("/applied", jobHandler.ListAppliedJobs)
			jobs.GET("/stats", jobHandler.GetStats)
			jobs.GET("/:jobId", jobHandler.GetJob)
			jobs.POST("/:jobId/apply", jobHandler.Apply)
			jobs.PATCH("/:jobId/status", jobHandler.UpdateStatus)
			jobs.GET("/:jobId/applicants", jobHandler.ListApplicants)
			jobs.POST("/:jobId/award", jobHandler.Award)
		}

		bookings := apiV1.Group("/bookings")
		{
			bookings.GET("", bookingHandler.ListBookings)
			bookings.POST("/:bookingId/payments", bookingHandler.SubmitPayment)
		}

		invites := apiV1.Group("/invites")
		{
			invites.GET("", inviteHandler.ListReceived)
			invites.POST("", inviteHandler.InviteProvider)
			invites.GET("/sent", inviteHandler.ListSent)
			invites.POST("/:inviteId/accept", inviteHandler.Accept)
			invites.POST("/:inviteId/decline", inviteHandler.Decline)
			invites.DELETE("/:inviteId", inviteHandler.Cancel)
		}

		notifications := apiV1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("/:notificationId/read", notificationHandler.MarkRead)
		}

		admin := apiV1.Group("/admin", requireAdmin)
		{
			admin.GET("/jobs", adminHandler.ListJobs)
			admin.PATCH("/jobs/:jobId/status", adminHandler.UpdateJobStatus)
			admin.DELETE("/jobs/:jobId", adminHandler.DeleteJob)
			admin.GET("/payments", adminHandler.ListPendingPayments)
			admin.POST("/payments/:transactionId/approve", adminHandler.ApprovePayment)
			admin.POST("/payments/:transactionId/reject", adminHandler.RejectPayment)
			admin.GET("/payments/:transactionId/reference", adminHandler.RevealReference)
		}
	}

	cart := router.Group("/api/marketplace/cart", authMW.VerifyToken())
	if services.Cart != nil {
		cartHandler := NewCartHandler(services.Cart, logger)
		cart.GET("", cartHandler.GetCart)
		cart.POST("", cartHandler.UpdateCart)
	} else {
		logger.Warn("Cart service not configured; cart endpoints will answer 503")
		unavailable := func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, ActionResult{Success: false, Error: "Cart is temporarily unavailable"})
		}
		cart.GET("", unavailable)
		cart.POST("", unavailable)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "LocalPro backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1, /api/marketplace and /health.")
}

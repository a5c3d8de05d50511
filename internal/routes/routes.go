package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/skilloop/skilloop-api/internal/audit"
	"github.com/skilloop/skilloop-api/internal/config"
	"github.com/skilloop/skilloop-api/internal/currency"
	"github.com/skilloop/skilloop-api/internal/handlers"
	infraRepo "github.com/skilloop/skilloop-api/internal/infra/repository"
	"github.com/skilloop/skilloop-api/internal/middleware"
	"github.com/skilloop/skilloop-api/internal/notification"
	"github.com/skilloop/skilloop-api/internal/otp"
	"github.com/skilloop/skilloop-api/internal/payment/bmc"
	"github.com/skilloop/skilloop-api/internal/payment/paypal"
	"github.com/skilloop/skilloop-api/internal/storage"
	ucAgreement "github.com/skilloop/skilloop-api/internal/usecase/agreement"
	ucBooking "github.com/skilloop/skilloop-api/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	broker := notification.NewRedisBroker(rdb)
	notificationService := notification.NewService(db, broker)

	paypalClient := paypal.New(cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalEnv)
	bmcClient := bmc.New(cfg.BMCAccessToken)

	otpService := otp.NewService(rdb, cfg.SMSGatewayURL, cfg.SMSGatewayKey)
	uploader := storage.NewUploader(cfg)
	detector := currency.NewDetector()

	// ======================================================
	// USE CASES
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		notificationService,
		auditDispatcher,
	)

	cancelBookingUC := ucBooking.NewCancelBooking(
		bookingRepo,
		notificationService,
		auditDispatcher,
	)

	completeBookingUC := ucBooking.NewCompleteBooking(
		bookingRepo,
		notificationService,
		auditDispatcher,
	)

	checkConflictsUC := ucBooking.NewCheckConflicts(bookingRepo)

	createAgreementUC := ucAgreement.NewCreateAgreement(
		bookingRepo,
		bookingRepo,
		auditDispatcher,
	)

	signAgreementUC := ucAgreement.NewSignAgreement(
		bookingRepo,
		bookingRepo,
		notificationService,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	otpHandler := handlers.NewOTPHandler(otpService)
	meHandler := handlers.NewMeHandler(db, uploader)
	currencyHandler := handlers.NewCurrencyHandler(db, detector)
	trainerHandler := handlers.NewTrainerHandler(db, notificationService, auditDispatcher)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		cancelBookingUC,
		completeBookingUC,
		checkConflictsUC,
		bookingRepo,
	)

	agreementHandler := handlers.NewAgreementHandler(
		createAgreementUC,
		signAgreementUC,
		bookingRepo,
	)

	paymentHandler := handlers.NewPaymentHandler(
		db,
		paypalClient,
		bmcClient,
		notificationService,
		auditDispatcher,
	)

	notificationHandler := handlers.NewNotificationHandler(notificationService, broker)
	reviewHandler := handlers.NewReviewHandler(db, notificationService)
	trainingRequestHandler := handlers.NewTrainingRequestHandler(db, notificationService)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/trainers", trainerHandler.List)
		api.GET("/trainers/:id", trainerHandler.Get)
		api.GET("/trainers/:id/reviews", reviewHandler.ListForTrainer)

		api.GET("/currencies", currencyHandler.List)
		api.GET("/currency/detect", middleware.OptionalAuth(cfg), currencyHandler.Detect)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/send-sms-otp", otpHandler.Send)
		api.POST("/auth/verify-sms-otp", otpHandler.Verify)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PUT("/me/currency", meHandler.UpdateCurrency)
			secured.POST("/me/avatar", meHandler.UploadAvatar)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/bookings", bookingHandler.Create)
			secured.POST("/bookings/check-conflicts", bookingHandler.CheckConflicts)
			secured.GET("/me/bookings", bookingHandler.ListMine)
			secured.GET("/trainer/bookings", bookingHandler.ListAsTrainer)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)

			// ------------------------------
			// AGREEMENTS
			// ------------------------------
			secured.POST("/bookings/:id/agreement", agreementHandler.Create)
			secured.GET("/bookings/:id/agreement", agreementHandler.GetForBooking)
			secured.POST("/agreements/:id/sign", agreementHandler.Sign)

			// ------------------------------
			// PAYMENTS
			// ------------------------------
			secured.POST("/payments/create-paypal-order", paymentHandler.CreatePayPalOrder)
			secured.POST("/payments/capture-paypal-payment", paymentHandler.CapturePayPalPayment)
			secured.POST("/payments/verify-bmc-payment", paymentHandler.VerifyBMCPayment)

			// ------------------------------
			// NOTIFICATIONS
			// ------------------------------
			secured.GET("/notifications", notificationHandler.List)
			secured.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			secured.GET("/notifications/stream", notificationHandler.Stream)
			secured.POST("/notifications/mark-read", notificationHandler.MarkRead)
			secured.POST("/notifications/mark-all-read", notificationHandler.MarkAllRead)

			// ------------------------------
			// TRAINING REQUESTS
			// ------------------------------
			secured.POST("/training-requests", trainingRequestHandler.Create)
			secured.GET("/training-requests", trainingRequestHandler.ListOpen)
			secured.POST("/training-requests/:id/apply", trainingRequestHandler.Apply)
			secured.PATCH("/applications/:id/accept", trainingRequestHandler.Accept)
			secured.PATCH("/applications/:id/reject", trainingRequestHandler.Reject)

			// ------------------------------
			// REVIEWS
			// ------------------------------
			secured.POST("/bookings/:id/review", reviewHandler.Create)

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(middleware.RoleAdmin))
			{
				admin.PATCH("/trainers/:id/approve", trainerHandler.Approve)
				admin.PATCH("/trainers/:id/reject", trainerHandler.Reject)
				admin.PATCH("/bookings/:id/complete", bookingHandler.Complete)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}

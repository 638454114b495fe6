package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stayhub/booking-backend/internal/config"
	"github.com/stayhub/booking-backend/internal/database"
	"github.com/stayhub/booking-backend/internal/handlers"
	"github.com/stayhub/booking-backend/internal/middleware"
	"github.com/stayhub/booking-backend/internal/services"
	"github.com/stayhub/booking-backend/pkg/checkout"
	"github.com/stayhub/booking-backend/pkg/jwt"
	"github.com/stayhub/booking-backend/pkg/mailer"
)

var version = "1.0.0"

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	userRepo := database.NewUserRepository(db)
	propertyRepo := database.NewPropertyRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	transactionRepo := database.NewTransactionRepository(db)
	reviewRepo := database.NewReviewRepository(db)
	auditRepo := database.NewPaymentAuditRepository(db)

	// External clients
	jwtService := jwt.NewService(
		cfg.JWT.Secret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	gateway := checkout.NewClient(
		cfg.Checkout.APIURL, cfg.Checkout.APIKey, cfg.Checkout.WebhookSecret,
		cfg.Checkout.Timeout, logger)
	notifier := mailer.New(cfg.SMTP, logger)

	// Services
	availabilityService := services.NewAvailabilityService(bookingRepo, logger)
	authService := services.NewAuthService(userRepo, jwtService, notifier, cfg.Security.BcryptCost, logger)
	propertyService := services.NewPropertyService(propertyRepo, logger)
	bookingService := services.NewBookingService(bookingRepo, propertyRepo, userRepo, availabilityService, notifier, logger)
	paymentService := services.NewPaymentService(bookingRepo, transactionRepo, auditRepo, userRepo, gateway, notifier, cfg.Checkout.Currency, logger)
	reviewService := services.NewReviewService(reviewRepo, bookingRepo, propertyRepo, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	propertyHandler := handlers.NewPropertyHandler(propertyService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	reviewHandler := handlers.NewReviewHandler(reviewService, authService, logger)
	authMw := middleware.NewAuthMiddleware(jwtService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"service": "stayhub-booking-backend", "version": version})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", authMw.RequireAuth(), authHandler.Me)
		}

		properties := api.Group("/properties")
		{
			properties.GET("", propertyHandler.List)
			properties.GET("/:id", propertyHandler.Get)
			properties.POST("", authMw.RequireAuth(), authMw.RequireAdmin(), propertyHandler.Create)
			properties.PUT("/:id", authMw.RequireAuth(), authMw.RequireAdmin(), propertyHandler.Update)
			properties.DELETE("/:id", authMw.RequireAuth(), authMw.RequireAdmin(), propertyHandler.Delete)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("/property/:id/availability", bookingHandler.CheckAvailability)
			bookings.POST("", authMw.RequireAuth(), bookingHandler.Create)
			bookings.GET("/my", authMw.RequireAuth(), bookingHandler.ListMine)
			bookings.GET("/all", authMw.RequireAuth(), authMw.RequireAdmin(), bookingHandler.ListAll)
			bookings.GET("/:id", authMw.RequireAuth(), bookingHandler.Get)
			bookings.POST("/:id/cancel", authMw.RequireAuth(), bookingHandler.Cancel)
		}

		payment := api.Group("/payment", authMw.RequireAuth())
		{
			payment.POST("/checkout/session", paymentHandler.CreateCheckoutSession)
			payment.GET("/checkout/status/:session_id", paymentHandler.GetCheckoutStatus)
		}

		reviews := api.Group("/reviews")
		{
			reviews.GET("/property/:id", reviewHandler.ListByProperty)
			reviews.POST("", authMw.RequireAuth(), reviewHandler.Create)
		}

		// Webhook is unauthenticated; the signature header is verified instead
		api.POST("/webhook/checkout", paymentHandler.Webhook)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}

	logger.Info("Server stopped")
}

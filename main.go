package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"

	"medibook/config"
	"medibook/cron"
	"medibook/database"
	availabilityRepo "medibook/database/repository/availability"
	bookingRepo "medibook/database/repository/booking"
	directoryRepo "medibook/database/repository/directory"
	patientRepo "medibook/database/repository/patient"
	userRepo "medibook/database/repository/user"
	"medibook/handlers"
	"medibook/middleware"
	"medibook/routes"
	"medibook/services/booking"
	"medibook/services/identity"
	"medibook/services/notification"
	"medibook/services/payment"
	"medibook/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	templateRepo := availabilityRepo.NewMongoTemplateRepo()
	bookings := bookingRepo.NewMongoBookingRepo()
	users := userRepo.NewMongoUserRepo()
	patients := patientRepo.NewMongoPatientRepo()
	directory := directoryRepo.NewMongoDirectoryRepo()

	for name, ensure := range map[string]func() error{
		"templates": templateRepo.EnsureIndexes,
		"bookings":  bookings.EnsureIndexes,
		"users":     users.EnsureIndexes,
		"patients":  patients.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// services.
	identityProvider := identity.NewJWTProvider(config.AppConfig.JWTSecret)
	queueClient := cron.NewQueueClient()

	reservationService := &booking.DefaultReservationService{
		Templates:  templateRepo,
		Bookings:   bookings,
		Users:      users,
		Patients:   patients,
		Directory:  directory,
		Gateway:    payment.NewStripeGateway(),
		Queue:      queueClient,
		SuccessURL: config.AppConfig.CheckoutSuccessURL,
		CancelURL:  config.AppConfig.CheckoutCancelURL,
		Currency:   config.AppConfig.DefaultCurrency,
		SessionTTL: time.Duration(config.AppConfig.CheckoutTTLMin) * time.Minute,
	}

	notificationService := &notification.DefaultNotificationService{Sender: notification.LogSender{}}
	cron.InitBookingWorker(notificationService)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// handlers.
	handlerSet := &routes.Handlers{
		Booking:  handlers.NewBookingHandler(reservationService, logger),
		Template: handlers.NewTemplateHandler(templateRepo, logger),
		Identity: identityProvider,
	}
	routes.RegisterRoutes(router, handlerSet)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := queueClient.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close queue client: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

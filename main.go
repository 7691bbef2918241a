// File: coolserve/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coolserve/config"
	"coolserve/cron"
	"coolserve/database"
	"coolserve/database/repository"
	"coolserve/handlers"
	"coolserve/middleware"
	"coolserve/models"
	"coolserve/routes"
	"coolserve/services/booking"
	"coolserve/services/geo"
	"coolserve/services/notification"
	"coolserve/services/payment"
	"coolserve/services/tasks"
	"coolserve/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRegionCache()
	utils.InitBookingCache()
	utils.FirebaseInit()

	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookingRepo := repository.NewGormBookingRepo()
	paymentRepo := repository.NewGormPaymentRepo()
	serviceRepo := repository.NewGormServiceRepo()
	userRepo := repository.NewGormUserRepo()

	// geo: geocoder + region resolver with a redis-backed 1h cache.
	geocoder := geo.NewGoogleGeocoder(config.AppConfig.GoogleAPIKey, config.AppConfig.GeocodeTimeout)
	regionCache := geo.NewRedisCache(utils.GetRegionCacheClient())
	resolver := geo.NewRegionResolver(geocoder, regionCache, geo.ResolverConfig{
		Depot:           models.GeoPoint{Lat: config.AppConfig.DepotLat, Lng: config.AppConfig.DepotLng},
		NearRadiusKm:    config.AppConfig.NearRadiusKm,
		MidRadiusKm:     config.AppConfig.MidRadiusKm,
		ServiceRadiusKm: config.AppConfig.ServiceRadiusKm,
		CacheTTL:        config.AppConfig.RegionCacheTTL,
	}, logger)

	optimizer := booking.NewLocationOptimizer(resolver, booking.FilterConfig{
		ServiceRadiusKm:    config.AppConfig.ServiceRadiusKm,
		AMCServiceRadiusKm: config.AppConfig.AMCServiceRadiusKm,
	}, logger)
	optimizer.RetryAttempts = config.AppConfig.MaxBookingAttempts
	optimizer.RetryBaseDelay = config.AppConfig.RetryBaseDelay

	notificationService, err := notification.NewDefaultNotificationService(userRepo, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()
	reminderScheduler := &tasks.AsynqReminderScheduler{Client: asynqClient}
	cron.InitReminderWorker(notificationService)

	bookingService := &booking.DefaultBookingService{
		BookingRepo: bookingRepo,
		ServiceRepo: serviceRepo,
		UserRepo:    userRepo,
		Optimizer:   optimizer,
		Lock:        &booking.RedisSessionLock{Client: utils.GetBookingCacheClient()},
		Attempts:    &booking.RedisAttemptTracker{Client: utils.GetBookingCacheClient(), TTL: config.AppConfig.BookingAttemptTTL},
		Notifier:    notificationService,
		Reminders:   reminderScheduler,
		Cfg: booking.Config{
			MaxAttempts:     config.AppConfig.MaxBookingAttempts,
			MaxActive:       config.AppConfig.MaxActiveBookings,
			LockTTL:         config.AppConfig.BookingLockTTL,
			ReminderLead:    config.AppConfig.ReminderLead,
			RetryBaseDelay:  config.AppConfig.RetryBaseDelay,
			DefaultCurrency: "sgd",
		},
		Logger: logger,
	}

	paymentService := &payment.DefaultPaymentService{
		PaymentRepo:   paymentRepo,
		Bookings:      bookingService,
		Events:        &payment.RedisEventStore{Client: utils.GetBookingCacheClient()},
		WebhookSecret: config.AppConfig.StripeWebhookSecret,
		Logger:        logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Auth:    handlers.NewAuthHandler(userRepo),
		Booking: handlers.NewBookingHandler(bookingService, logger),
		Payment: handlers.NewPaymentHandler(paymentService, logger),
		Service: handlers.NewServiceHandler(serviceRepo),
	}

	routes.RegisterRoutes(router, handlerBundle)

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

	logger.Sugar().Info("main: server stopped gracefully")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"herbimmortal/config"
	"herbimmortal/cron"
	"herbimmortal/database"
	"herbimmortal/database/repository"
	"herbimmortal/handlers"
	"herbimmortal/middleware"
	"herbimmortal/routes"
	"herbimmortal/services/availability"
	"herbimmortal/services/booking"
	"herbimmortal/services/calendar"
	"herbimmortal/services/notification"
	"herbimmortal/services/practitioner"
	"herbimmortal/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if config.AppConfig.StorageDriver != "memory" {
		database.InitDB()
	}
	utils.InitRedis()

	repos, err := repository.ForDriver(config.AppConfig.StorageDriver)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 15*time.Second)
	if err := repos.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
	}
	cancelIndexes()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := utils.NewBookingMetrics(registry)
	httpMetrics := utils.NewHTTPMetrics(registry)

	// Cross-instance locking and background events need redis; without it the
	// service runs single-instance.
	var (
		locker      booking.SlotLocker
		publisher   booking.EventPublisher = booking.NoopPublisher{}
		asynqClient *asynq.Client
	)
	if lockClient := utils.GetLockClient(); lockClient != nil {
		locker = booking.NewRedisSlotLocker(lockClient, config.AppConfig.BookingLockTTL, config.AppConfig.BookingLockWait, logger)
		asynqClient = asynq.NewClient(cron.QueueRedisOpt())
		publisher = booking.NewTaskPublisher(asynqClient)
	} else {
		logger.Warn("Redis disabled: using in-process slot locks and dropping booking events")
		locker = booking.NewLocalSlotLocker(config.AppConfig.BookingLockWait)
	}

	// services.
	availabilityStore := availability.NewStore(repos.Practitioners, logger)
	bookingService := booking.NewBookingService(booking.Deps{
		Bookings:     repos.Bookings,
		Availability: availabilityStore,
		Locker:       locker,
		Publisher:    publisher,
		Clock:        booking.SystemClock{},
		Location:     config.Location(),
		Metrics:      bookingMetrics,
		Logger:       logger,
	})
	calendarService := calendar.NewService(bookingService, booking.SystemClock{}, config.Location())
	practitionerService, err := practitioner.NewDefaultPractitionerService(repos.Practitioners, availabilityStore, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	notificationService, err := notification.NewDefaultNotificationService(repos.Notifications, repos.Practitioners, bookingService, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	var worker *asynq.Server
	if asynqClient != nil {
		worker, err = cron.InitBookingWorker(notificationService, logger)
		if err != nil {
			logger.Error("Booking worker unavailable; events will queue until it runs", zap.Error(err))
		}
	}

	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	utils.StartHealthMonitor(healthCtx, utils.RedisClients(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	if len(config.AppConfig.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(config.AppConfig.TrustedProxies); err != nil {
			logger.Sugar().Fatalf("main: invalid TRUSTED_PROXIES: %v", err)
		}
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(httpMetrics.Middleware())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := &handlers.HandlerBundle{
		Bookings:      handlers.NewBookingHandler(bookingService, calendarService),
		Practitioners: handlers.NewPractitionerHandler(practitionerService, availabilityStore),
		Notifications: &handlers.NotificationHandler{Service: notificationService},
		AuthCache:     utils.GetAuthCacheClient(),
		Metrics:       registry,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server",
		zap.String("addr", srv.Addr),
		zap.String("storage", config.AppConfig.StorageDriver),
		zap.String("timezone", config.Location().String()),
	)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if asynqClient != nil {
		_ = asynqClient.Close()
	}
	database.Disconnect(ctx)

	logger.Info("main: server stopped gracefully")
}

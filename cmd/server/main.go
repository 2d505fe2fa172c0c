package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hotelhub/service-booking/internal/application"
	"github.com/hotelhub/service-booking/internal/common/auth"
	"github.com/hotelhub/service-booking/internal/common/database"
	"github.com/hotelhub/service-booking/internal/common/health"
	"github.com/hotelhub/service-booking/internal/common/kafka"
	"github.com/hotelhub/service-booking/internal/common/logger"
	"github.com/hotelhub/service-booking/internal/common/middleware"
	"github.com/hotelhub/service-booking/internal/config"
	bookingDomain "github.com/hotelhub/service-booking/internal/domain/booking"
	bookingEvents "github.com/hotelhub/service-booking/internal/events"
	"github.com/hotelhub/service-booking/internal/handler"
	"github.com/hotelhub/service-booking/internal/repository"
	"github.com/hotelhub/service-booking/migrations"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, config.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("timezone", cfg.Location.String()),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Versioned migrations carry the overlap exclusion constraint.
	if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), migrations.FS, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	customerRepo := repository.NewGormCustomerRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		roomRepo,
		customerRepo,
		bookingDomain.NewStandardPricingStrategy(),
		kafkaProducer,
		log,
	)
	roomService := application.NewRoomService(roomRepo, bookingRepo, cfg.Location, log)
	customerService := application.NewCustomerService(customerRepo, bookingRepo, log)
	paymentService := application.NewPaymentService(paymentRepo, bookingRepo, log)
	exportService := application.NewExportService(bookingRepo, roomRepo, customerRepo, cfg.Location, log)

	// Initialize and start payment event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	paymentConsumer := bookingEvents.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		paymentService,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins...))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, config.ServiceName)
	healthHandler.RegisterRoutes(router)

	// Register routes
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewPaymentHandler(paymentService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewRoomHandler(roomService, bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewCustomerHandler(customerService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminBookingHandler(bookingService, exportService, cfg.Location).RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}

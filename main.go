package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rajkumarpatel02/car-rental-backend/cache"
	"github.com/rajkumarpatel02/car-rental-backend/config"
	"github.com/rajkumarpatel02/car-rental-backend/database"
	bookingRepo "github.com/rajkumarpatel02/car-rental-backend/database/repository/booking"
	carRepo "github.com/rajkumarpatel02/car-rental-backend/database/repository/car"
	userRepoPkg "github.com/rajkumarpatel02/car-rental-backend/database/repository/user"
	"github.com/rajkumarpatel02/car-rental-backend/handlers"
	"github.com/rajkumarpatel02/car-rental-backend/messaging"
	"github.com/rajkumarpatel02/car-rental-backend/routes"
	"github.com/rajkumarpatel02/car-rental-backend/services/booking"
	"github.com/rajkumarpatel02/car-rental-backend/services/car"
	"github.com/rajkumarpatel02/car-rental-backend/services/user"
	"github.com/rajkumarpatel02/car-rental-backend/utils"
	"github.com/rajkumarpatel02/car-rental-backend/worker"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	cacheStore := cache.NewRedisStore(utils.GetCacheClient())
	bus := messaging.NewRabbitBus(config.AppConfig.RabbitMQURL)
	dedup := messaging.NewDedup(cacheStore)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	bkRepo := bookingRepo.NewMongoBookingRepo()
	crRepo := carRepo.NewMongoCarRepo()
	usRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo: usRepo,
		Bus:  bus,
	}
	carService := &car.DefaultCarService{
		Repo:  crRepo,
		Cache: cacheStore,
		Bus:   bus,
	}
	bookingService := &booking.DefaultBookingService{
		Repo:  bkRepo,
		Cache: cacheStore,
		Bus:   bus,
	}

	// saga event subscriptions.
	if err := booking.SetupEventHandlers(bus, dedup, bookingService); err != nil {
		logger.Sugar().Fatalf("main: failed to setup booking event handlers: %v", err)
	}
	if err := car.SetupEventHandlers(bus, dedup, carService); err != nil {
		logger.Sugar().Fatalf("main: failed to setup car event handlers: %v", err)
	}

	// downstream reactors and the email job worker.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	notifProcessor := &worker.NotificationProcessor{Cache: cacheStore}
	emailProcessor := &worker.EmailProcessor{Jobs: &worker.AsynqEnqueuer{Client: asynqClient}}
	if err := worker.SetupEventHandlers(bus, dedup, notifProcessor, emailProcessor); err != nil {
		logger.Sugar().Fatalf("main: failed to setup worker event handlers: %v", err)
	}
	worker.InitEmailWorker()

	// handlers and routes.
	userHandler := handlers.NewUserHandler(userService)
	carHandler := handlers.NewCarHandler(carService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	routes.RegisterRoutes(router, userHandler, carHandler, bookingHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient, bus, port)

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
	if err := bus.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close message bus: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

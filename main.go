// File: appointmint/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appointmint/config"
	"appointmint/cron"
	"appointmint/database"
	reservationRepoPkg "appointmint/database/repository/reservation"
	restaurantRepoPkg "appointmint/database/repository/restaurant"
	tableRepoPkg "appointmint/database/repository/table"
	"appointmint/handlers"
	"appointmint/routes"
	"appointmint/services/assistant"
	"appointmint/services/booking"
	"appointmint/services/notification"
	"appointmint/services/staff"
	"appointmint/services/tasks"
	"appointmint/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitStateCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	restaurantRepo := restaurantRepoPkg.NewMongoRestaurantRepo()
	tableRepo := tableRepoPkg.NewMongoTableRepo()
	reservationRepo := reservationRepoPkg.NewMongoReservationRepo()

	// services.
	notificationService, err := notification.NewDefaultNotificationService(restaurantRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	bookingService := &booking.DefaultBookingService{
		Tables:              tableRepo,
		Reservations:        reservationRepo,
		Restaurants:         restaurantRepo,
		Reminders:           tasks.NewAsynqReminderScheduler(),
		Notifier:            notificationService,
		Logger:              logger,
		TurnoverBufferMins:  config.AppConfig.TurnoverBufferMins,
		DefaultDurationMins: config.AppConfig.DefaultDurationMins,
	}

	staffService := &staff.DefaultStaffService{
		Reservations: reservationRepo,
		Restaurants:  restaurantRepo,
		Tables:       tableRepo,
		Logger:       logger,
	}

	stateStore := assistant.NewRedisConversationStore(
		utils.GetStateCacheClient(),
		time.Duration(config.AppConfig.ConversationTTLMins)*time.Minute,
	)
	extractor := &assistant.GeminiSlotExtractor{
		NLU:    assistant.NewGeminiClient(config.AppConfig.GeminiAPIKey),
		Logger: logger,
	}
	assistantService := &assistant.DefaultAssistantService{
		Store:             stateStore,
		Extractor:         extractor,
		BookingSvc:        bookingService,
		RestaurantRepo:    restaurantRepo,
		Notifier:          notificationService,
		Logger:            logger,
		MaxSelfServeParty: config.AppConfig.SelfServeMaxParty,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Chat endpoints.
		ChatHandler:      handlers.ChatHandler(assistantService),
		VoiceChatHandler: handlers.VoiceChatHandler(assistantService),

		// Chatwoot webhook endpoints.
		ChatwootWebhookHandler:     handlers.ChatwootWebhookHandler(assistantService, restaurantRepo),
		ChatwootWebhookTestHandler: handlers.ChatwootWebhookTestHandler(restaurantRepo),

		// Reservation endpoints.
		CheckAvailabilityHandler:       handlers.CheckAvailabilityHandler(bookingService),
		CreateReservationHandler:       handlers.CreateReservationHandler(bookingService),
		GetReservationHandler:          handlers.GetReservationHandler(reservationRepo),
		ListReservationsHandler:        handlers.ListReservationsHandler(reservationRepo),
		CancelReservationHandler:       handlers.CancelReservationHandler(staffService),
		UpdateReservationStatusHandler: handlers.UpdateReservationStatusHandler(staffService),

		// Staff dashboard endpoints.
		TodaysReservationsHandler:   handlers.TodaysReservationsHandler(staffService),
		UpcomingReservationsHandler: handlers.UpcomingReservationsHandler(staffService),
		TodaysStatsHandler:          handlers.TodaysStatsHandler(staffService),
		PendingBookingsHandler:      handlers.PendingBookingsHandler(staffService),

		// Table endpoints.
		ListTablesHandler:     handlers.ListTablesHandler(tableRepo),
		CreateTableHandler:    handlers.CreateTableHandler(tableRepo),
		SetTableStatusHandler: handlers.SetTableStatusHandler(tableRepo),
		WidgetConfigHandler:   handlers.WidgetConfigHandler(restaurantRepo),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background reminder worker and health monitor.
	cron.InitReminderWorker(notificationService, reservationRepo)
	utils.StartHealthMonitor(utils.GetCacheClient(), utils.GetStateCacheClient(), database.MongoClient)

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

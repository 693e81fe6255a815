package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"

	"github.com/Josuegarciaaa/Rifa-frigo/pkg/api"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/cache"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/clients/pocketbase"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/clients/whatsapp"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/config"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/middleware"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/services"
	"github.com/Josuegarciaaa/Rifa-frigo/pkg/storage"
)

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("error loading configuration", "error", err)
		os.Exit(1)
	}

	// Initialize API clients
	ledger := pocketbase.NewClient(cfg.PocketBaseURL, cfg.PocketBaseCollection, logger)
	notifier := whatsapp.NewClient(cfg.WhatsAppPhone)

	// Initialize services
	snapshot := cache.NewSnapshot(cfg.CacheTTL)
	localStore := storage.NewLocalStore(cfg.SelectionStorePath)
	reservations := services.NewReservationService(ledger, notifier, snapshot, logger, cfg)
	selections := services.NewSelectionService(localStore, logger, cfg)

	// Create a new Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Initialize handlers
	handlers := api.NewHandlers(reservations, selections)

	// Register routes
	router.GET("/health", handlers.HealthCheck)
	router.POST("/api/reservations", handlers.CreateReservation)
	router.GET("/api/tickets", handlers.ListTickets)
	router.POST("/api/tickets", handlers.AddClaim)
	router.PATCH("/api/tickets/:id", handlers.UpdateClaim)
	router.DELETE("/api/tickets/:id", handlers.DeleteClaim)
	router.GET("/api/selection", handlers.GetSelection)
	router.POST("/api/selection", handlers.SelectNumber)
	router.POST("/api/selection/toggle", handlers.ToggleNumber)
	router.DELETE("/api/selection", handlers.ClearSelection)

	// Start the server
	logger.Info("server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("error starting server", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Misakavorst/drl-quant-trading/internal/api/handlers"
	"github.com/Misakavorst/drl-quant-trading/internal/api/middleware"
	"github.com/Misakavorst/drl-quant-trading/internal/telemetry"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	production := os.Getenv("API_ENV") == "production"

	var log *zap.Logger
	var err error
	if production {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))

	// Progress events from running backtests stream over a websocket hub.
	hub := telemetry.NewHub(log.Named("telemetry"))
	go hub.Run()

	backtestHandler := handlers.NewBacktestHandler(log.Named("backtest"), hub)
	policyHandler := handlers.NewPolicyHandler()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/backtest", backtestHandler.RunBacktest)

		api.GET("/policies", policyHandler.ListPolicies)

		api.GET("/datasets", handlers.ListDatasets)
		api.GET("/datasets/info", handlers.DescribeDataset)

		api.GET("/progress", gin.WrapF(hub.Handler()))
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info("starting API server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

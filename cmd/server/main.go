package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"document-storage-server/internal/config"
	"document-storage-server/internal/db"
	"document-storage-server/internal/document"
	"document-storage-server/internal/logger"
	"document-storage-server/internal/metrics"
	"document-storage-server/internal/middleware"
	"document-storage-server/internal/worker"
	appredis "document-storage-server/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	config.LoadConfig()

	log := logger.New(config.AppConfig.LogLevel, config.AppConfig.Environment)
	zlog.Logger = log

	// Storage backend
	var repo document.Repository
	if config.AppConfig.StorageBackend == "memory" {
		log.Warn().Msg("using in-memory storage; documents will not survive a restart")
		repo = document.NewMemoryRepository()
	} else {
		db.ConnectDb()
		defer db.CloseDb()
		db.Migrate()
		if config.AppConfig.Environment == "development" {
			db.SeedData()
		}
		repo = document.NewRepository(db.AppDb)
	}

	// Redis-backed listing cache (optional)
	cache := appredis.NewCache(appredis.NewClient())

	// Background workers for autosave flushes
	pool := worker.NewPool(config.AppConfig.WorkerPoolSize, 1000)

	// Initialize service and handler
	docService := document.NewService(repo, cache, config.AppConfig.CacheTTL)
	sessions := document.NewSessionManager(config.AppConfig.AutosaveInterval, pool, docService)
	docHandler := document.NewHandler(docService, sessions)

	// Metrics registry
	registry := prometheus.NewRegistry()
	metrics.RegisterCollectors(registry)

	// Initialize Gin router
	if config.AppConfig.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Session-Id", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
	}
	if config.AppConfig.Environment == "development" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	// Document routes
	api := router.Group("/api")
	api.POST("/documents/manage", docHandler.FileOperations)
	api.GET("/documents/:id/content", docHandler.GetContent)
	api.POST("/documents/:id/save", docHandler.Save)
	api.POST("/documents/:id/autosave", docHandler.Autosave)
	api.POST("/documents/exists", docHandler.CheckExistence)
	api.POST("/documents/download", docHandler.Download)
	api.DELETE("/editor/sessions/:sessionId", docHandler.CloseSession)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Server configuration
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.AppConfig.ServerPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Info().Str("port", config.AppConfig.ServerPort).Msg("server listening")
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	// Stop autosave timers, then drain pending flushes
	sessions.Shutdown()
	pool.Shutdown()

	log.Info().Msg("server shutdown complete")
}

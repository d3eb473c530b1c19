package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/audit"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/cardscan"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/events"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/handler"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/parser"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/resolver"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/extraction/service"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/internal/vision"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/config"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/database"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/httputil"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/logger"
	"github.com/CHANDAN2901/Latest-Scan2Card-Backend/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation("scan-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("scan-service", cfg.Server.Environment)
	log.Info().Msg("starting Scan Service")

	// Connect to database for the audit trail. Optional: scans work
	// without it, so a connection failure degrades rather than aborts.
	var auditRepo *audit.Repository
	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.New(&cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("database unavailable, continuing without scan audit trail")
			db = nil
		} else {
			defer db.Close()
			auditRepo = audit.NewRepository(db, log)
		}
	}

	// Connect to RabbitMQ for scan events. Optional for the same reason.
	var publisher *events.ScanEventPublisher
	var rmq *messaging.RabbitMQ
	if cfg.RabbitMQ.Enabled {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, continuing without scan events")
		} else {
			defer rmq.Close()
			publisher, err = events.NewScanEventPublisher(rmq, log)
			if err != nil {
				log.Warn().Err(err).Msg("failed to create event publisher, continuing without scan events")
				publisher = nil
			}
		}
	}

	// Initialize the extraction pipeline. Registration order does not
	// matter for dispatch, each parser claims exactly one payload type.
	registry := parser.NewRegistry(
		parser.NewMailtoParser(),
		parser.NewTelParser(),
		parser.NewVCardParser(),
		resolver.New(&cfg.Crawler, log),
		parser.NewPlainTextParser(),
	)
	scanService := service.New(registry, auditRepo, publisher, log)

	// Initialize the card scanner
	visionClient := vision.NewClient(cfg.OpenAI, log)
	if !visionClient.Configured() {
		log.Warn().Msg("no vision API key configured, card scanning will be rejected")
	}
	scanner := cardscan.NewScanner(visionClient, auditRepo, publisher, log)

	// Initialize handlers
	scanHandler := handler.NewHandler(scanService, scanner, auditRepo, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(90 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{
			"status":  "healthy",
			"service": "scan-service",
		}
		if db != nil {
			health["database"] = db.Health(r.Context())
		}
		if rmq != nil {
			health["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, health)
	})

	// API endpoints
	r.Route("/api/v1", func(r chi.Router) {
		scanHandler.Routes(r)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

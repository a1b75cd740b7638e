package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/teamflowdev/call-coordinator/pkg/validator"

	"github.com/teamflowdev/call-coordinator/internal/adapter/handler"
	"github.com/teamflowdev/call-coordinator/internal/adapter/repository"
	"github.com/teamflowdev/call-coordinator/internal/infrastructure/buffer"
	"github.com/teamflowdev/call-coordinator/internal/infrastructure/cache"
	"github.com/teamflowdev/call-coordinator/internal/infrastructure/database"
	"github.com/teamflowdev/call-coordinator/internal/infrastructure/events"
	"github.com/teamflowdev/call-coordinator/internal/infrastructure/external/directory"
	"github.com/teamflowdev/call-coordinator/internal/infrastructure/external/gateway"
	"github.com/teamflowdev/call-coordinator/internal/infrastructure/external/summarizer"
	httpmw "github.com/teamflowdev/call-coordinator/internal/infrastructure/http/middleware"
	callUsecase "github.com/teamflowdev/call-coordinator/internal/usecase/call"
	transcriptUsecase "github.com/teamflowdev/call-coordinator/internal/usecase/transcript"
	"github.com/teamflowdev/call-coordinator/pkg/config"
	"github.com/teamflowdev/call-coordinator/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply schema migrations only when explicitly enabled in config.
	// Production deployments run sql-migrate from CI/CD instead.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Manage schema with sql-migrate from CI/CD.")
		}
		log.Println("Applying schema migrations...")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	// Initialize Redis
	log.Println("Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	callRepo := repository.NewCallRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)

	// Initialize external clients
	gatewayClient := gateway.NewClient(&cfg.Gateway)
	directoryClient := directory.NewClient(&cfg.Directory)
	summarizerClient := summarizer.NewClient(&cfg.Summarizer)

	// Initialize redis-backed infrastructure
	transcriptBuffer := buffer.NewRedisBuffer(redisClient, logger)
	publisher := events.NewRedisPublisher(redisClient, cfg.Events.Channel, logger)

	// Initialize services
	callService := callUsecase.NewService(
		callRepo,
		participantRepo,
		gatewayClient,
		directoryClient,
		publisher,
		logger,
	)
	transcriptService := transcriptUsecase.NewService(
		transcriptBuffer,
		summarizerClient,
		directoryClient,
		publisher,
		callRepo,
		summaryRepo,
		&cfg.Summarizer,
		logger,
	)

	// Initialize handlers and auth middleware
	callHandler := handler.NewCallHandler(callService, transcriptService)
	authMW := httpmw.NewAuthMiddleware(jwt.NewVerifier(cfg.JWT.AccessSecret))

	// Setup router
	router := handler.NewRouter(cfg, callHandler, authMW)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		log.Printf("Environment: %s", cfg.Server.Environment)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}

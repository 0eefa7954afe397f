// Package main provides the main entry point for the PageReach messaging platform
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pagereach/pagereach/app/handlers"
	"github.com/pagereach/pagereach/app/middleware"
	"github.com/pagereach/pagereach/app/router"
	"github.com/pagereach/pagereach/app/scheduler"
	"github.com/pagereach/pagereach/app/services"
	businessflow "github.com/pagereach/pagereach/business_flow"
	"github.com/pagereach/pagereach/config"
	"github.com/pagereach/pagereach/repository"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting PageReach application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger through a rotated file when configured
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.Backups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	switch cfg.Output {
	case "file":
		log.SetOutput(rotated)
	default:
		log.SetOutput(io.MultiWriter(os.Stdout, rotated))
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeRedis initializes the Redis client and verifies connectivity
func initializeRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.Addr, cfg.DB)
	return rc, nil
}

// startRedisHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startRedisHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeRedis(cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startRedisHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	workspaceRepo := repository.NewWorkspaceRepository(db)
	sessionRepo := repository.NewWorkspaceSessionRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	pageRepo := repository.NewPageRepository(db)
	contactRepo := repository.NewContactRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	campaignRepo := repository.NewSponsoredCampaignRepository(db)

	// Initialize services
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
		rc,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	graphClient := services.NewGraphClient(cfg.Facebook.GraphBaseURL, cfg.Facebook.Timeout)

	// Initialize flows
	authFlow := businessflow.NewAuthFlow(
		workspaceRepo,
		sessionRepo,
		auditRepo,
		tokenService,
		db,
	)

	pageFlow := businessflow.NewPageFlow(
		pageRepo,
		auditRepo,
		graphClient,
		db,
	)

	contactFlow := businessflow.NewContactFlow(
		contactRepo,
		pageRepo,
		db,
	)

	conversationFlow := businessflow.NewConversationFlow(
		conversationRepo,
		messageRepo,
		contactRepo,
		pageRepo,
		auditRepo,
		graphClient,
		db,
	)

	campaignFlow := businessflow.NewSponsoredCampaignFlow(
		campaignRepo,
		pageRepo,
		auditRepo,
		graphClient,
		rc,
		db,
	)

	reportFlow := businessflow.NewReportFlow(
		workspaceRepo,
		pageRepo,
		contactRepo,
		conversationRepo,
		campaignRepo,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authFlow)
	pageHandler := handlers.NewPageHandler(pageFlow)
	contactHandler := handlers.NewContactHandler(contactFlow)
	conversationHandler := handlers.NewConversationHandler(conversationFlow)
	campaignHandler := handlers.NewSponsoredCampaignHandler(campaignFlow)
	adminHandler := handlers.NewAdminHandler(campaignFlow, reportFlow)
	webhookHandler := handlers.NewWebhookHandler(conversationFlow, cfg.Facebook.VerifyToken)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService, workspaceRepo)

	// Initialize router
	appRouter := router.NewFiberRouter(
		authHandler,
		pageHandler,
		contactHandler,
		conversationHandler,
		campaignHandler,
		adminHandler,
		webhookHandler,
		authMiddleware,
		cfg.Security.AllowedOrigins,
	)

	if cfg.Scheduler.Enabled {
		poller := scheduler.NewCampaignPoller(campaignFlow, cfg.Scheduler.PollInterval)
		stopPoller := poller.Start(context.Background())
		stopFuncs = append(stopFuncs, stopPoller)
	}

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

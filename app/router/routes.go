// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pagereach/pagereach/app/dto"
	"github.com/pagereach/pagereach/app/handlers"
	"github.com/pagereach/pagereach/app/middleware"
	"github.com/pagereach/pagereach/utils"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app                 *fiber.App
	authHandler         handlers.AuthHandlerInterface
	pageHandler         handlers.PageHandlerInterface
	contactHandler      handlers.ContactHandlerInterface
	conversationHandler handlers.ConversationHandlerInterface
	campaignHandler     handlers.SponsoredCampaignHandlerInterface
	adminHandler        handlers.AdminHandlerInterface
	webhookHandler      handlers.WebhookHandlerInterface
	authMiddleware      *middleware.AuthMiddleware
	allowedOrigins      []string
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	authHandler handlers.AuthHandlerInterface,
	pageHandler handlers.PageHandlerInterface,
	contactHandler handlers.ContactHandlerInterface,
	conversationHandler handlers.ConversationHandlerInterface,
	campaignHandler handlers.SponsoredCampaignHandlerInterface,
	adminHandler handlers.AdminHandlerInterface,
	webhookHandler handlers.WebhookHandlerInterface,
	authMiddleware *middleware.AuthMiddleware,
	allowedOrigins []string,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "PageReach API",
		ServerHeader: "PageReach",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:                 app,
		authHandler:         authHandler,
		pageHandler:         pageHandler,
		contactHandler:      contactHandler,
		conversationHandler: conversationHandler,
		campaignHandler:     campaignHandler,
		adminHandler:        adminHandler,
		webhookHandler:      webhookHandler,
		authMiddleware:      authMiddleware,
		allowedOrigins:      allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	// Webhook endpoints are called by the messenger platform, not by workspaces
	r.app.Get("/webhooks/facebook", r.webhookHandler.VerifyWebhook)
	r.app.Post("/webhooks/facebook", r.webhookHandler.ReceiveWebhook)

	// Prometheus scrape endpoint
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// General rate limiting for all API routes
	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))

	auth.Post("/signup", r.authHandler.Signup)
	auth.Post("/login", r.authHandler.Login)
	auth.Post("/refresh", r.authHandler.RefreshToken)
	auth.Post("/logout", r.authMiddleware.Authenticate(), r.authHandler.Logout)

	// Workspace-scoped routes
	authed := api.Group("", r.authMiddleware.Authenticate())

	pages := authed.Group("/pages")
	pages.Post("", r.pageHandler.ConnectPage)
	pages.Get("", r.pageHandler.ListPages)
	pages.Get("/:uuid", r.pageHandler.GetPage)
	pages.Patch("/:uuid", r.pageHandler.UpdatePage)
	pages.Post("/:uuid/resubscribe", r.pageHandler.ResubscribePage)
	pages.Get("/:uuid/contacts", r.contactHandler.ListContacts)
	pages.Get("/:uuid/conversations", r.conversationHandler.ListConversations)

	contacts := authed.Group("/contacts")
	contacts.Get("/:uuid", r.contactHandler.GetContact)
	contacts.Patch("/:uuid", r.contactHandler.UpdateContact)

	conversations := authed.Group("/conversations")
	conversations.Get("/:uuid/messages", r.conversationHandler.ListMessages)
	conversations.Post("/:uuid/messages", r.conversationHandler.SendMessage)
	conversations.Post("/:uuid/read", r.conversationHandler.MarkRead)

	campaigns := authed.Group("/campaigns")
	campaigns.Post("", r.campaignHandler.CreateCampaign)
	campaigns.Get("", r.campaignHandler.ListCampaigns)
	campaigns.Get("/stats", r.campaignHandler.GetStats)
	campaigns.Get("/:uuid", r.campaignHandler.GetCampaign)
	campaigns.Patch("/:uuid", r.campaignHandler.UpdateCampaign)
	campaigns.Delete("/:uuid", r.campaignHandler.DeleteCampaign)
	campaigns.Post("/:uuid/submit", r.campaignHandler.SubmitCampaign)
	campaigns.Post("/:uuid/pause", r.campaignHandler.PauseCampaign)
	campaigns.Post("/:uuid/resume", r.campaignHandler.ResumeCampaign)
	campaigns.Get("/:uuid/insights", r.campaignHandler.GetInsights)

	// Operator routes
	admin := api.Group("/admin", r.authMiddleware.Authenticate(), r.authMiddleware.RequireAdmin())
	admin.Get("/campaigns", r.adminHandler.ListCampaigns)
	admin.Post("/campaigns/:uuid/approve", r.adminHandler.ApproveCampaign)
	admin.Post("/campaigns/:uuid/reject", r.adminHandler.RejectCampaign)
	admin.Get("/reports/workspaces", r.adminHandler.WorkspaceReport)
	admin.Get("/reports/workspaces/export", r.adminHandler.ExportWorkspaceReport)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000, // 1 year
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     "default-src 'self'; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.allowedOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Prometheus HTTP metrics
	r.app.Use(middleware.Metrics())

	// Structured request logging
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health" || c.Path() == "/metrics"
		},
	}))

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "pagereach-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	requestID := c.Locals("requestid")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// Package httpapi wires the HTTP transport (Gin) to the booking and thread
// services, middleware, and route handlers. It centralizes cross-cutting
// concerns such as tracing, correlation IDs, access logging with redaction,
// panic recovery, metrics, CORS, security headers, authentication,
// idempotency, and rate limiting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/campus-resource-hub/internal/config"
	"github.com/tbourn/campus-resource-hub/internal/docs"
	"github.com/tbourn/campus-resource-hub/internal/domain"
	"github.com/tbourn/campus-resource-hub/internal/http/handlers"
	"github.com/tbourn/campus-resource-hub/internal/http/middleware"
	"github.com/tbourn/campus-resource-hub/internal/services"
)

// Deps are the process-level collaborators the router needs.
type Deps struct {
	DB *gorm.DB

	// Audit receives moderation entries; nil disables auditing.
	Audit *services.AsyncAuditLog

	// MessagingEnabled is the startup result of repo.MessagingReady.
	MessagingEnabled bool
}

var corsAllowHeaders = []string{
	"Origin", "Content-Type", "Accept", "Authorization",
	"If-None-Match", middleware.HeaderIdempotencyKey,
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. AccessLog: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter, gzip
//  6. Metrics
//  7. CORS and security headers
//
// API routes then run Authenticate → IdempotencyValidator → rate limiter,
// so replays are detected per user before they would consume a token.
func RegisterRoutes(r *gin.Engine, d Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access log with redaction
	r.Use(middleware.AccessLog(middleware.AccessLogOptions{
		MaskHeaders: []string{middleware.HeaderIdempotencyKey},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB) and response compression
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     corsAllowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     corsAllowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "messaging": d.MessagingEnabled})
	})

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db
	var (
		sink   services.AuditSink
		reader handlers.AuditReader
	)
	if d.Audit != nil {
		sink, reader = d.Audit, d.Audit
	}
	identity := &services.IdentityService{DB: d.DB}
	idem := services.NewIdempotencyService(d.DB, cfg.IdempotencyTTL)
	h := handlers.New(handlers.Deps{
		Bookings:     services.NewBookingService(d.DB, sink),
		Threads:      services.NewThreadService(d.DB, d.MessagingEnabled, cfg.MessageMaxRunes),
		Identity:     identity,
		Catalog:      &services.CatalogService{DB: d.DB},
		Idempotency:  idem,
		Audit:        reader,
		JWTSecret:    []byte(cfg.Auth.JWTSecret),
		TokenTTL:     cfg.Auth.TokenTTL,
		PollInterval: cfg.PollInterval,
	})

	principal := func(ctx context.Context, userID string) (string, bool, error) {
		u, err := identity.GetUser(ctx, userID)
		if err != nil {
			return "", false, err
		}
		return u.Role, u.IsActive, nil
	}
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())

	base := groupWithPrefix(r, cfg.APIBasePath)

	// Public: login is limited per client IP.
	base.POST("/auth/login", rl.Handler(), h.Login)

	api := base.Group("",
		middleware.Authenticate([]byte(cfg.Auth.JWTSecret), principal),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idem.Lookup),
		rl.Handler(),
	)
	{
		api.GET("/auth/me", h.Me)

		// Bookings
		api.POST("/resources/:id/bookings", h.CreateBooking)
		api.GET("/resources/:id/bookings", h.ListResourceBookings)
		api.GET("/bookings/mine", h.ListMyBookings)
		api.GET("/bookings/approvals", middleware.RequireRole(domain.RoleStaff), h.ListApprovals)
		api.GET("/bookings/:id", h.GetBooking)
		api.POST("/bookings/:id/approve", h.ApproveBooking)
		api.POST("/bookings/:id/reject", h.RejectBooking)
		api.POST("/bookings/:id/cancel", h.CancelBooking)
		api.POST("/bookings/:id/complete", h.CompleteBooking)

		// Threads
		api.GET("/threads", h.ListThreads)
		api.POST("/threads", h.StartThread)
		api.GET("/threads/:id", h.GetThread)
		api.POST("/threads/:id/messages", h.PostMessage)
		api.GET("/threads/:id/since", h.PollMessages)

		// Admin
		admin := api.Group("/admin", middleware.RequireRole())
		admin.GET("/threads", h.ListAllThreads)
		admin.GET("/audit", h.ListAudit)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

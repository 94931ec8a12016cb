// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, submission replay protection, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
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

	"github.com/localspot/go-directory-backend/internal/config"
	"github.com/localspot/go-directory-backend/internal/domain"
	"github.com/localspot/go-directory-backend/internal/http/handlers"
	"github.com/localspot/go-directory-backend/internal/http/middleware"
	"github.com/localspot/go-directory-backend/internal/match"
	"github.com/localspot/go-directory-backend/internal/notify"
	"github.com/localspot/go-directory-backend/internal/ratelimit"
	"github.com/localspot/go-directory-backend/internal/repo"
	"github.com/localspot/go-directory-backend/internal/services"
)

// businessRepoShim adapts the repository free functions to the
// services.BusinessRepo interface expected by the BusinessService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type businessRepoShim struct{}

func (businessRepoShim) CreateBusiness(ctx context.Context, db *gorm.DB, b *domain.Business) error {
	return repo.CreateBusiness(ctx, db, b)
}

func (businessRepoShim) GetBusiness(ctx context.Context, db *gorm.DB, id string) (*domain.Business, error) {
	return repo.GetBusiness(ctx, db, id)
}

func (businessRepoShim) SlugExists(ctx context.Context, db *gorm.DB, slug, locationID, directoryID, excludeID string) (bool, error) {
	return repo.SlugExists(ctx, db, slug, locationID, directoryID, excludeID)
}

func (businessRepoShim) CountBusinessesByOwner(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	return repo.CountBusinessesByOwner(ctx, db, ownerID)
}

func (businessRepoShim) BusinessNameTaken(ctx context.Context, db *gorm.DB, ownerID, name, locationID string) (bool, error) {
	return repo.BusinessNameTaken(ctx, db, ownerID, name, locationID)
}

func (businessRepoShim) ListDuplicateCandidates(ctx context.Context, db *gorm.DB, locationID, excludeID string) ([]match.Candidate, error) {
	return repo.ListDuplicateCandidates(ctx, db, locationID, excludeID)
}

func (businessRepoShim) ListBusinessesByOwner(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Business, error) {
	return repo.ListBusinessesByOwner(ctx, db, ownerID)
}

func (businessRepoShim) UpdateBusinessFields(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	return repo.UpdateBusinessFields(ctx, db, id, fields)
}

func (businessRepoShim) DeleteBusiness(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteBusiness(ctx, db, id)
}

// moderationRepoShim adapts repo free functions to services.ModerationRepo.
type moderationRepoShim struct{}

func (moderationRepoShim) GetBusiness(ctx context.Context, db *gorm.DB, id string) (*domain.Business, error) {
	return repo.GetBusiness(ctx, db, id)
}

func (moderationRepoShim) UpdateBusinessFields(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	return repo.UpdateBusinessFields(ctx, db, id, fields)
}

func (moderationRepoShim) ListBusinessesByStatusPage(ctx context.Context, db *gorm.DB, status domain.Status, offset, limit int) ([]domain.Business, error) {
	return repo.ListBusinessesByStatusPage(ctx, db, status, offset, limit)
}

func (moderationRepoShim) CountBusinessesByStatus(ctx context.Context, db *gorm.DB, status domain.Status) (int64, error) {
	return repo.CountBusinessesByStatus(ctx, db, status)
}

// catalogRepoShim adapts repo free functions to services.CatalogRepo.
type catalogRepoShim struct{}

func (catalogRepoShim) CreateLocation(ctx context.Context, db *gorm.DB, l *domain.Location) error {
	return repo.CreateLocation(ctx, db, l)
}

func (catalogRepoShim) ListActiveLocations(ctx context.Context, db *gorm.DB) ([]domain.Location, error) {
	return repo.ListActiveLocations(ctx, db)
}

func (catalogRepoShim) GetLocationBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Location, error) {
	return repo.GetLocationBySlug(ctx, db, slug)
}

func (catalogRepoShim) CreateDirectory(ctx context.Context, db *gorm.DB, d *domain.Directory) error {
	return repo.CreateDirectory(ctx, db, d)
}

func (catalogRepoShim) ListDirectories(ctx context.Context, db *gorm.DB, locationID string) ([]domain.Directory, error) {
	return repo.ListDirectories(ctx, db, locationID)
}

func (catalogRepoShim) GetDirectoryBySlug(ctx context.Context, db *gorm.DB, locationID, slug string) (*domain.Directory, error) {
	return repo.GetDirectoryBySlug(ctx, db, locationID, slug)
}

func (catalogRepoShim) CountVisibleBusinesses(ctx context.Context, db *gorm.DB, locationID, directoryID string) (int64, error) {
	return repo.CountVisibleBusinesses(ctx, db, locationID, directoryID)
}

func (catalogRepoShim) ListVisibleBusinessesPage(ctx context.Context, db *gorm.DB, locationID, directoryID string, offset, limit int) ([]domain.Business, error) {
	return repo.ListVisibleBusinessesPage(ctx, db, locationID, directoryID, offset, limit)
}

// receiptStoreShim adapts the receipt repo functions to handlers.ReceiptStore.
type receiptStoreShim struct {
	db *gorm.DB
}

func (s receiptStoreShim) Get(ctx context.Context, ownerID, key string, now time.Time) (*domain.SubmissionReceipt, error) {
	return repo.GetReceipt(ctx, s.db, ownerID, key, now)
}

func (s receiptStoreShim) Create(ctx context.Context, ownerID, key, businessID string, status int, ttl time.Duration) error {
	_, err := repo.CreateReceipt(ctx, s.db, ownerID, key, businessID, status, ttl)
	return err
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), replay protection
// and rate limiting, CORS and security headers, health and metrics endpoints,
// and then mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured request logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Identity: resolve the gateway-supplied user headers
//  8. Receipt validator (before rate limiting so replays bypass quota)
//  9. Edge rate limiter (per user/IP, bypass on replay)
//  10. CORS, security headers, gzip
//
// Per-route throttles (fixed windows) sit on the write endpoints after the
// global chain.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured request logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Resolve the gateway-authenticated identity headers
	r.Use(middleware.Identity())

	// 8) Submission replay validation (before rate limiting)
	r.Use(middleware.ReceiptValidator(
		middleware.ReceiptOptions{MaxLen: 200},
		func(ctx context.Context, ownerID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetReceipt(ctx, db, ownerID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Edge token-bucket rate limiter per user/IP
	edge := middleware.NewEdgeLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, middleware.KeyByUserOrIP())
	r.Use(edge.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{
				"Origin", "Content-Type", "Accept", "Authorization",
				middleware.HeaderUserID, middleware.HeaderUserRole,
				middleware.HeaderUserEmail, middleware.HeaderUserName,
				middleware.HeaderIdempotencyKey,
			},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag", "X-RateLimit-Remaining"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
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
			AllowOrigins: cfg.CORS.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{
				"Origin", "Content-Type", "Accept", "Authorization",
				middleware.HeaderUserID, middleware.HeaderUserRole,
				middleware.HeaderUserEmail, middleware.HeaderUserName,
				middleware.HeaderIdempotencyKey,
			},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag", "X-RateLimit-Remaining"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Compress JSON responses for browse-heavy traffic
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db
	bizSvc := services.NewBusinessService(db, businessRepoShim{})
	bizSvc.MaxPerOwner = cfg.Moderation.MaxBusinessesPerOwner
	bizSvc.Threshold = cfg.Moderation.DuplicateThreshold
	bizSvc.RegressOnNoopEdit = cfg.Moderation.RegressOnNoopEdit

	modSvc := services.NewModerationService(db, moderationRepoShim{}, notify.New(cfg.SMTP))
	catSvc := services.NewCatalogService(db, catalogRepoShim{})

	h := handlers.New(
		bizSvc, modSvc, catSvc,
		receiptStoreShim{db: db}, cfg.ReceiptTTL,
		func(ctx context.Context, locationID, directoryID string) (int64, *time.Time, error) {
			return repo.VisibleBusinessStats(ctx, db, locationID, directoryID)
		},
	)

	// Per-operation fixed windows for sensitive endpoints
	windows := ratelimit.New(map[ratelimit.Op]ratelimit.Policy{
		ratelimit.OpAuth:          {Window: cfg.RateLimit.Auth.Window, MaxRequests: cfg.RateLimit.Auth.Max},
		ratelimit.OpPasswordReset: {Window: cfg.RateLimit.PasswordReset.Window, MaxRequests: cfg.RateLimit.PasswordReset.Max},
		ratelimit.OpRegistration:  {Window: cfg.RateLimit.Registration.Window, MaxRequests: cfg.RateLimit.Registration.Max},
		ratelimit.OpUpload:        {Window: cfg.RateLimit.Upload.Window, MaxRequests: cfg.RateLimit.Upload.Max},
		ratelimit.OpAPI:           {Window: cfg.RateLimit.API.Window, MaxRequests: cfg.RateLimit.API.Max},
	})

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Catalog (public reads)
		api.GET("/locations", h.ListLocations)
		api.GET("/locations/:loc/directories", h.ListDirectories)
		api.GET("/locations/:loc/directories/:dir/businesses", h.BrowseBusinesses)

		// Businesses
		api.GET("/businesses/:id", h.GetBusiness)
		api.POST("/businesses/check-duplicates",
			middleware.Throttle(windows, ratelimit.OpAPI), h.CheckDuplicates)

		owner := api.Group("", middleware.RequireUser())
		{
			owner.POST("/businesses",
				middleware.Throttle(windows, ratelimit.OpRegistration), h.CreateBusiness)
			owner.GET("/businesses/mine", h.MyBusinesses)
			owner.PUT("/businesses/:id",
				middleware.Throttle(windows, ratelimit.OpAPI), h.UpdateBusiness)
			owner.DELETE("/businesses/:id",
				middleware.Throttle(windows, ratelimit.OpAPI), h.DeleteBusiness)
		}

		// Moderation (admin only)
		admin := api.Group("/admin", middleware.RequireAdmin())
		{
			admin.GET("/businesses", h.ModerationQueue)
			admin.PUT("/businesses/:id/status", h.UpdateStatus)
			admin.PUT("/businesses/:id/active", h.SetActive)
			admin.PUT("/businesses/:id/duplicate", h.FlagDuplicate)
			admin.DELETE("/businesses/:id/duplicate", h.ClearDuplicate)

			admin.POST("/locations", h.CreateLocation)
			admin.POST("/locations/:loc/directories", h.CreateDirectory)
		}
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

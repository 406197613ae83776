package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/config"
	"github.com/stemsi/admission-backend/internal/handler"
	"github.com/stemsi/admission-backend/internal/metrics"
	"github.com/stemsi/admission-backend/internal/middleware"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/response"
)

// catalogMaxAge matches the university list cache TTL.
const catalogMaxAge = 300

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth             *handler.AuthHandler
	Catalog          *handler.CatalogHandler
	Application      *handler.ApplicationHandler
	AdminApplication *handler.AdminApplicationHandler
	Document         *handler.DocumentHandler
	Profile          *handler.ProfileHandler
	Notification     *handler.NotificationHandler
	WS               *handler.WSHandler
	Health           *handler.HealthHandler
}

// Deps carries the cross-cutting pieces the routes need besides handlers.
type Deps struct {
	Auth          middleware.TokenValidator
	Metrics       *metrics.Metrics
	SubmitLimiter *middleware.RateLimiter
	Log           zerolog.Logger
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, deps Deps, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the logger and every envelope carry it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(deps.Metrics.Middleware())
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper: func(c *gin.Context) bool {
			return strings.HasPrefix(c.Request.URL.Path, "/metrics")
		},
	}))

	// ─── Operations ────────────────────────────────────────────────────
	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	requireAuth := middleware.RequireAuth(deps.Auth)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(middleware.NoStore())
	{
		auth.POST("/candidate/register", handlers.Auth.RegisterCandidate)
		auth.POST("/login", handlers.Auth.Login)

		auth.POST("/logout", requireAuth, handlers.Auth.Logout)
		auth.GET("/me", requireAuth, handlers.Auth.Me)
	}

	// ─── 2. Public Catalog ─────────────────────────────────────────────
	catalog := router.Group("/api/v1/catalog")
	catalog.Use(middleware.CacheControl(catalogMaxAge))
	{
		catalog.GET("/universities", handlers.Catalog.ListUniversities)
		catalog.GET("/universities/:id/majors", handlers.Catalog.ListMajors)
		catalog.GET("/admission-methods", handlers.Catalog.ListAdmissionMethods)
		catalog.GET("/subject-groups", handlers.Catalog.ListSubjectGroups)
		catalog.GET("/majors/:id/combinations", handlers.Catalog.ListCombinations)
	}

	// ─── 3. Candidate Group (JWT + role) ───────────────────────────────
	candidateAPI := router.Group("/api/v1/candidate")
	candidateAPI.Use(requireAuth, middleware.RequireRole(model.RoleCandidate), middleware.NoStore())
	{
		submit := []gin.HandlerFunc{handlers.Application.Submit}
		if deps.SubmitLimiter != nil {
			submit = append([]gin.HandlerFunc{deps.SubmitLimiter.Middleware()}, submit...)
		}
		candidateAPI.POST("/applications", submit...)
		candidateAPI.GET("/applications", handlers.Application.ListMine)
		candidateAPI.GET("/applications/:id", handlers.Application.GetMine)

		candidateAPI.POST("/documents", handlers.Document.Upload)
		candidateAPI.GET("/documents", handlers.Document.List)

		candidateAPI.GET("/profile", handlers.Profile.GetMine)
	}

	// ─── 4. Notifications (any signed-in user) ─────────────────────────
	notifications := router.Group("/api/v1/notifications")
	notifications.Use(requireAuth, middleware.NoStore())
	{
		notifications.GET("", handlers.Notification.List)
		notifications.PATCH("/read-all", handlers.Notification.MarkAllRead)
		notifications.PATCH("/:id/read", handlers.Notification.MarkRead)
	}

	// ─── 5. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(deps.Auth))
	{
		ws.GET("/notifications", handlers.WS.NotificationStream)
	}

	// ─── 6. Admin Group (JWT + role) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(requireAuth, middleware.RequireRole(model.RoleAdmin), middleware.NoStore())
	{
		adminAPI.GET("/eligibility-links", handlers.Catalog.ListLinks)
		adminAPI.POST("/eligibility-links", handlers.Catalog.CreateLink)
		adminAPI.PUT("/eligibility-links/:id", handlers.Catalog.UpdateLink)
		adminAPI.PATCH("/catalog/:kind/:id/active", handlers.Catalog.SetActive)

		adminAPI.GET("/applications", handlers.AdminApplication.List)
		adminAPI.GET("/applications/:id", handlers.AdminApplication.Get)
		adminAPI.PATCH("/applications/:id/status", handlers.AdminApplication.UpdateStatus)
	}

	return router
}

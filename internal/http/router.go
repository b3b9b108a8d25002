// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// session auth, idempotency, rate limiting, CORS and security headers.
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
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/rocketmentor/internal/config"
	"github.com/tbourn/rocketmentor/internal/generator"
	"github.com/tbourn/rocketmentor/internal/http/handlers"
	"github.com/tbourn/rocketmentor/internal/http/middleware"
	"github.com/tbourn/rocketmentor/internal/repo"
	"github.com/tbourn/rocketmentor/internal/services"
)

// coachScope is the idempotency scope of POST /coach/messages.
const coachScope = "coach"

// Services bundles the application services the API exposes.
type Services struct {
	Auth       *services.AuthService
	Workspaces *services.Workspaces
	Onboarding *services.OnboardingService
	Weeks      *services.WeekService
	Wins       *services.WinService
	Coach      *services.CoachService
	Profile    *services.ProfileService
}

// NewServices builds the services over db and gen. Cached per-user stores
// follow sign-in, profile and sign-out events of the auth service.
func NewServices(db *gorm.DB, gen *generator.Generator, cfg config.Config) (*Services, error) {
	ws, err := services.NewWorkspaces(db, gen, cfg.WorkspaceCacheSize,
		services.WithStorageNamespace(cfg.StorageNamespace),
		services.WithWorkspaceLogger(log.Logger),
	)
	if err != nil {
		return nil, err
	}
	auth := &services.AuthService{
		DB:         db,
		SessionTTL: cfg.SessionTTL,
		HashCost:   cfg.PasswordHashCost,
	}
	auth.OnSessionChange(ws.HandleSessionEvent)

	return &Services{
		Auth:       auth,
		Workspaces: ws,
		Onboarding: &services.OnboardingService{Workspaces: ws, Auth: auth},
		Weeks:      &services.WeekService{Workspaces: ws, PlanDelay: cfg.PlanDelay, DumpDelay: cfg.DumpDelay},
		Wins:       &services.WinService{Workspaces: ws},
		Coach:      &services.CoachService{Workspaces: ws, DelayMin: cfg.CoachDelayMin, DelayMax: cfg.CoachDelayMax},
		Profile:    &services.ProfileService{Workspaces: ws, Auth: auth},
	}, nil
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), sessions,
// idempotency and rate limiting, CORS and security headers, health and
// metrics endpoints, and then mounts the versioned API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Session (so idempotency and rate limiting see the user)
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, svc *Services, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{middleware.HeaderIdempotencyKey},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Bearer sessions; enforcement happens per group
	r.Use(middleware.Session(
		func(ctx context.Context, token string) (string, error) {
			u, err := svc.Auth.Resolve(ctx, token)
			if err != nil {
				return "", err
			}
			return u.ID, nil
		},
		middleware.SessionOptions{AllowUserHeader: cfg.AllowUserHeader},
	))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
			Scope:  idempotencyScope,
		},
		func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", "X-User-ID", middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", "Content-Disposition", "Idempotency-Replayed"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
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
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
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
		SkipPrefixes: []string{"/swagger/"},
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(handlers.Deps{
		Auth:           svc.Auth,
		Onboarding:     svc.Onboarding,
		Weeks:          svc.Weeks,
		Wins:           svc.Wins,
		Coach:          svc.Coach,
		Profile:        svc.Profile,
		DB:             db,
		IdempotencyTTL: cfg.IdempotencyTTL,
	})

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api/v1"
	api.Use(gzip.Gzip(gzip.DefaultCompression))
	{
		api.POST("/auth/signup", h.Signup)
		api.POST("/auth/login", h.Login)

		// Stateless tools
		api.POST("/tools/parse-week", h.ParseWeek)
		api.POST("/tools/parse-time", h.ParseTime)
	}

	// Signed-in API
	user := api.Group("", middleware.RequireUser())
	{
		user.POST("/auth/logout", h.Logout)
		user.GET("/auth/me", h.Me)

		// State and guided tours
		user.GET("/state", h.GetState)
		user.POST("/profile/tours/:page", h.CompletePageTour)
		user.POST("/profile/getting-started", h.CompleteGettingStarted)

		// Onboarding
		user.GET("/onboarding", h.GetOnboarding)
		user.PATCH("/onboarding", h.PatchOnboarding)
		user.PUT("/onboarding/competencies/:id", h.PutAssessment)
		user.GET("/onboarding/competencies/:id/example", h.GetCompetencyExample)
		user.POST("/onboarding/complete", h.CompleteOnboarding)

		// Promotion path
		user.GET("/path", h.GetPath)
		user.POST("/path/milestones/:id/toggle", h.ToggleMilestone)
		user.POST("/path/milestones/:id/task", h.AddMilestoneTask)

		// Weekly board
		user.GET("/weeks/current", h.GetCurrentWeek)
		user.POST("/weeks/current/dump", h.ImportDump)
		user.POST("/weeks/current/plan", h.GeneratePlan)
		user.POST("/weeks/current/review", h.ReviewWeek)
		user.GET("/weeks/:id", h.GetWeek)

		// Cards
		user.POST("/weeks/:id/cards", h.AddCard)
		user.PUT("/weeks/:id/cards/:cardId", h.UpdateCard)
		user.DELETE("/weeks/:id/cards/:cardId", h.DeleteCard)
		user.POST("/weeks/:id/cards/:cardId/win", h.MarkCardWin)
		user.GET("/weeks/:id/cards/:cardId/subtasks", h.CardSubTasks)

		// Career moves
		user.POST("/weeks/:id/moves/:moveId/commit", h.CommitMove)
		user.POST("/weeks/:id/moves/:moveId/complete", h.CompleteMove)
		user.POST("/weeks/:id/moves/:moveId/regenerate", h.RegenerateMove)

		// Wins
		user.GET("/wins", h.ListWins)
		user.POST("/wins", h.AddWin)
		user.GET("/wins/export", h.ExportWins)
		user.GET("/wins/:id", h.GetWin)
		user.PUT("/wins/:id", h.UpdateWin)
		user.DELETE("/wins/:id", h.DeleteWin)
		user.POST("/wins/:id/regenerate", h.RegenerateWin)

		// Coach
		user.GET("/coach/messages", h.ListCoachMessages)
		user.POST("/coach/messages", h.PostCoachMessage)
		user.DELETE("/coach/messages", h.ClearCoachMessages)
	}
}

// idempotencyScope names the operation whose Idempotency-Key results are
// stored server-side. Only coach messages are replayed.
func idempotencyScope(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && strings.HasSuffix(c.FullPath(), "/coach/messages") {
		return coachScope
	}
	return ""
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

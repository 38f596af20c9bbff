package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/api/http/handlers"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/auth"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/domain"
	apperrors "github.com/ThiccTapeman/statistic.alexanderhellsten.se/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tokens         *handlers.TokenHandler
	Clients        *handlers.ClientsHandler
	Events         *handlers.EventsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        fiber.Handler

	CORSOrigins     []string
	TokenRateLimit  int
	TokenRateWindow time.Duration
	// AdminKey enables POST /auth/clients when non-empty.
	AdminKey string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/token", tokenLimiter(cfg.TokenRateLimit, cfg.TokenRateWindow), cfg.Tokens.Issue)
	authGroup.Get("/token", cfg.Tokens.Introspect)
	if cfg.AdminKey != "" && cfg.Clients != nil {
		authGroup.Post("/clients", auth.RequireAdminKey(cfg.AdminKey), cfg.Clients.Register)
	}

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireClient())
	api.Post("/set/visits", cfg.Events.SetVisit)
	api.Post("/set/click", cfg.Events.SetClick)
	api.Post("/set/scroll", cfg.Events.SetScroll)
	api.Post("/set/path", cfg.Events.SetPath)

	api.Get("/get/visits", cfg.Events.ListByURL(domain.EventKindVisit))
	api.Get("/get/clicks", cfg.Events.ListByURL(domain.EventKindClick))
	api.Get("/get/scroll", cfg.Events.ListByURL(domain.EventKindScroll))
	api.Get("/get/paths", cfg.Events.ListByURL(domain.EventKindPath))
	api.Post("/get/paths", cfg.Events.SessionPaths)
	api.Post("/remove/path", cfg.Events.RemovePath)
	api.Get("/get/:sessionId", cfg.Events.Session)
}

func tokenLimiter(max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(*fiber.Ctx) error {
			return apperrors.NewRateLimited()
		},
	})
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Categories     *handlers.CategoriesHandler
	Settings       *handlers.SettingsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.Middleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/health/metrics", func(c *fiber.Ctx) error {
			requests, errs := cfg.Metrics.Snapshot()
			return c.JSON(fiber.Map{"requests": requests, "errors": errs})
		})
	}

	app.Post("/auth/login", cfg.Users.Login)

	api := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	api.Get("/me", cfg.Users.Me)

	users := api.Group("/users", auth.Require(auth.ActionManageUsers))
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Put("/:id", cfg.Users.Update)

	tickets := api.Group("/tickets")
	tickets.Post("/", auth.Require(auth.ActionCreateTicket), cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", auth.Require(auth.ActionDeleteTicket), cfg.Tickets.Delete)
	tickets.Post("/:id/timeline", auth.Require(auth.ActionComment), cfg.Tickets.AddComment)
	tickets.Post("/:id/internal-comments", auth.Require(auth.ActionInternalComment), cfg.Tickets.AddInternalComment)

	api.Get("/categories", cfg.Categories.List)
	api.Get("/categories/:id", cfg.Categories.Get)
	api.Post("/categories", auth.Require(auth.ActionManageCategory), cfg.Categories.Create)
	api.Put("/categories/:id", auth.Require(auth.ActionManageCategory), cfg.Categories.Update)

	api.Get("/sla-config", auth.Require(auth.ActionViewAllTickets), cfg.Settings.ListSLAConfig)
	api.Put("/sla-config/:id", auth.Require(auth.ActionManageSettings), cfg.Settings.UpdateSLAConfig)

	settings := api.Group("/settings", auth.Require(auth.ActionManageSettings))
	settings.Get("/general", cfg.Settings.GetGeneral)
	settings.Put("/general", cfg.Settings.UpdateGeneral)
	settings.Get("/email", cfg.Settings.GetEmail)
	settings.Put("/email", cfg.Settings.UpdateEmail)

	api.Get("/dashboard/stats", auth.Require(auth.ActionViewDashboard), cfg.Dashboard.Stats)
}

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/classwork-tracker-api/internal/config"
	"github.com/noah-isme/classwork-tracker-api/internal/handler"
	"github.com/noah-isme/classwork-tracker-api/internal/middleware"
	"github.com/noah-isme/classwork-tracker-api/internal/observability"
	"github.com/noah-isme/classwork-tracker-api/internal/session"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Sessions          *session.Manager
	AuthHandler       *handler.AuthHandler
	ClassHandler      *handler.ClassHandler
	AssignmentHandler *handler.AssignmentHandler
	StudentHandler    *handler.StudentHandler
	AdminHandler      *handler.AdminHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Guards attach per route, not per group. A fiber group mounts its extra
	// handlers as prefix-wide middleware, which would let a guard registered
	// for one role intercept every other route under the same prefix.
	loadSession := middleware.LoadSession(deps.Sessions)
	teacherOnly := middleware.RequireTeacher()
	studentOnly := middleware.RequireStudent()

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)
		deps.AuthHandler.RegisterAccountRoutes(auth, loadSession, teacherOnly)
		deps.AuthHandler.RegisterSessionRoutes(api, loadSession)
	}

	if deps.ClassHandler != nil {
		deps.ClassHandler.RegisterJoin(api)

		// The /classes prefix carries teacher routes only, so a prefix-wide
		// guard is safe here.
		classes := api.Group("/classes", loadSession, teacherOnly)
		deps.ClassHandler.Register(classes)

		if deps.AssignmentHandler != nil {
			deps.AssignmentHandler.RegisterClassRoutes(classes)
		}
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments")
		deps.AssignmentHandler.RegisterTeacherRoutes(assignments, loadSession, teacherOnly)
		deps.AssignmentHandler.RegisterStudentRoutes(assignments, loadSession, studentOnly)
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api, loadSession, studentOnly)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", middleware.AdminGate(cfg.AdminSecret))
		deps.AdminHandler.Register(admin)
	}
}

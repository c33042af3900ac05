package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-assessment-api/internal/config"
	"github.com/noah-isme/gema-assessment-api/internal/handler"
	"github.com/noah-isme/gema-assessment-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ExamHandler       *handler.ExamHandler
	SubmissionHandler *handler.SubmissionHandler
	JWTMiddleware     fiber.Handler
	SubmitRateLimit   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	exams := api.Group("/exams", jwtMiddleware)
	if deps.ExamHandler != nil {
		deps.ExamHandler.Register(exams)
	}

	if deps.SubmissionHandler != nil {
		var guards []fiber.Handler
		if deps.SubmitRateLimit != nil {
			guards = append(guards, deps.SubmitRateLimit)
		}
		deps.SubmissionHandler.RegisterSubmit(exams, guards...)
		deps.SubmissionHandler.Register(api.Group("/submissions", jwtMiddleware))
	}
}

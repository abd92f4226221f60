// Package server assembles the Fiber application: middleware, routes and error rendering.
package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "github.com/scriptkid03/audioscript/docs"
	"github.com/scriptkid03/audioscript/handlers"
	"github.com/scriptkid03/audioscript/middleware"
	"github.com/scriptkid03/audioscript/utils"
)

// Options controls the HTTP surface.
type Options struct {
	AllowOrigins string // comma separated
	MaxUploadMB  int
}

// New returns a Fiber app with every route registered.
func New(h *handlers.ApplicationHandler, logger *logrus.Logger, opts Options) *fiber.App {
	bodyLimit := opts.MaxUploadMB * 1024 * 1024
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		AppName:               "AudioScript",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	// Middleware. The request logger wraps recover so panics are logged with their request ID.
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())
	app.Use(cors.New(corsConfig(opts.AllowOrigins)))

	app.Get("/health", h.Health)

	app.Post("/transcribe/file", h.TranscribeFile)
	app.Post("/transcribe/url", h.TranscribeURL)

	// API v1 routes
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/transcriptions", h.ListTranscriptions)
	apiV1.Get("/transcriptions/:id", h.GetTranscription)

	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	return app
}

func corsConfig(allowOrigins string) cors.Config {
	origins := make([]string, 0)
	for _, o := range strings.Split(allowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	joined := strings.Join(origins, ",")
	if joined == "" {
		joined = "*"
	}

	return cors.Config{
		AllowOrigins: joined,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		// Fiber refuses credentials together with a wildcard origin.
		AllowCredentials: !strings.Contains(joined, "*"),
	}
}

// errorHandler renders errors that escaped a handler in the API's error shape.
func errorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			entry := logger.WithError(err)
			if id, ok := c.Locals("requestid").(string); ok {
				entry = entry.WithField("request_id", id)
			}
			entry.Error("Unhandled error")
		}
		return utils.RespondWithError(c, code, message)
	}
}

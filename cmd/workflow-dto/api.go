package main

import (
	"log/slog"
	"strconv"

	"github.com/dukex/workflow-dto/pkg/services"
	"github.com/dukex/workflow-dto/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultPort = 9092

type API struct {
	logger    *slog.Logger
	converter *services.Converter
	registry  *prometheus.Registry
	validate  *validator.Validate
}

// NewAPI creates the HTTP API. registry may be nil, in which case /metrics is not mounted.
func NewAPI(logger *slog.Logger, converter *services.Converter, registry *prometheus.Registry) *API {
	return &API{
		logger:    logger,
		converter: converter,
		registry:  registry,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.converter, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Workflow DTO API")
	})

	app.Post("/convert", handlers.Convert)
	app.Post("/validate", handlers.Validate)
	app.Get("/operations", handlers.Operations)
	app.Get("/schema", handlers.Schema)
	app.Get("/health", handlers.HealthCheck)

	if a.registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	}

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	a.logger.Info("Starting API server", "port", port)

	return app.Listen(":" + strconv.Itoa(port))
}

package handlers

import (
	_ "burningbros/docs" // Swagger docs
	"burningbros/internal/i18n"
	"burningbros/internal/metrics"
	"burningbros/internal/middleware"
	"burningbros/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/sirupsen/logrus"
)

// AppConfig carries everything the HTTP layer depends on.
type AppConfig struct {
	Logger           *logrus.Logger
	Translator       *i18n.Translator
	AuthService      *services.AuthService
	ProductService   *services.ProductService
	CORSAllowOrigins string
	HealthChecks     []HealthCheck
}

// NewApp builds the Fiber app with middleware and all routes mounted.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "burningbros",
		ErrorHandler: ErrorHandler(cfg.Logger, cfg.Translator),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.Language())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language, Authorization",
	}))
	app.Use(metrics.HTTPMetricsMiddleware())
	app.Use(middleware.RequestLogger(cfg.Logger))

	app.Get("/metrics", metrics.PrometheusHandler())
	app.Get("/api-docs/*", swagger.HandlerDefault)
	NewHealthHandler(cfg.HealthChecks...).RegisterRoutes(app)

	auth := middleware.AuthRequired(cfg.AuthService)
	NewAuthHandler(cfg.AuthService).RegisterRoutes(app)
	NewProductHandler(cfg.ProductService).RegisterRoutes(app, auth)

	return app
}

package routes

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/jewa/internal/config"
	"github.com/example/jewa/internal/handlers"
	"github.com/example/jewa/internal/metrics"
	"github.com/example/jewa/internal/middleware"
	"github.com/example/jewa/internal/otp"
	"github.com/example/jewa/internal/services"
)

// Options carries the optional collaborators of Register.
type Options struct {
	Logger *zap.Logger
	// Registry receives the gateway's metrics. A fresh one is used when nil.
	Registry *prometheus.Registry
	// ClientOptions are applied to the community service client.
	ClientOptions []services.ClientOption
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
	}

	upstreamMetrics, err := metrics.NewUpstream(registry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	codes, err := otp.NewGenerator(cfg.OTPLength)
	if err != nil {
		return err
	}

	clientOpts := append([]services.ClientOption{services.WithMetrics(upstreamMetrics)}, opts.ClientOptions...)
	client := services.NewJewaClient(cfg.JewaBaseURL, cfg.UpstreamTimeout, log.Named("upstream"), clientOpts...)

	activityService := services.NewActivityService(db, log)
	presenter := services.NewPresenter(client, log)
	notificationService := services.NewNotificationService(client, log)

	authHandler := handlers.NewAuthHandler(services.NewAuthService(client, cfg.JWTSecret, cfg.TokenExpires, log))
	visitorHandler := handlers.NewVisitorHandler(
		presenter,
		services.NewPreauthService(client, presenter, activityService, cfg.RequireVehicleNumber, log),
		services.NewRevocationService(client, presenter, activityService, log),
		services.NewConfirmationStore(cfg.ConfirmationTTL),
	)
	deliveryHandler := handlers.NewDeliveryHandler(
		presenter,
		services.NewDeliveryService(client, presenter, notificationService, codes, activityService, log),
	)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	alertHandler := handlers.NewAlertHandler(services.NewAlertService(client, activityService, log))
	helpHandler := handlers.NewHelpHandler(services.NewHelpService(db, codes, activityService, log))
	activityHandler := handlers.NewActivityHandler(activityService)
	summaryHandler := handlers.NewSummaryHandler(services.NewSummaryService(presenter, notificationService))

	app.Get("/health", handlers.Health(db))
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(registry)))

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	requireSession := middleware.AuthMiddleware(cfg)

	visitors := api.Group("/visitors", requireSession)
	visitors.Get("/", visitorHandler.List)
	visitors.Post("/", visitorHandler.Create)
	visitors.Post("/:id/revoke", visitorHandler.Revoke)

	deliveries := api.Group("/deliveries", requireSession)
	deliveries.Get("/", deliveryHandler.List)
	deliveries.Post("/:notifId/decision", deliveryHandler.Decide)

	api.Get("/notifications", requireSession, notificationHandler.List)

	alerts := api.Group("/alerts", requireSession)
	alerts.Get("/", alertHandler.List)
	alerts.Post("/", alertHandler.Raise)
	alerts.Put("/:id", alertHandler.Update)

	help := api.Group("/help", requireSession)
	help.Get("/", helpHandler.List)
	help.Post("/", helpHandler.Register)
	help.Post("/:id/check-in", helpHandler.CheckIn)
	help.Post("/:id/check-out", helpHandler.CheckOut)
	help.Post("/:id/passcode", helpHandler.ReissuePasscode)

	api.Get("/activity", requireSession, activityHandler.List)
	api.Get("/summary", requireSession, summaryHandler.Get)

	return nil
}

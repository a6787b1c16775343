package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dealerhub/dealerhub/internal/appointment"
	"github.com/dealerhub/dealerhub/internal/config"
	"github.com/dealerhub/dealerhub/internal/consignment"
	"github.com/dealerhub/dealerhub/internal/creditapp"
	"github.com/dealerhub/dealerhub/internal/financing"
	"github.com/dealerhub/dealerhub/internal/messaging"
	"github.com/dealerhub/dealerhub/internal/middleware"
	"github.com/dealerhub/dealerhub/internal/notification"
	"github.com/dealerhub/dealerhub/internal/verification"
)

// Deps aggregates shared dependencies required to wire routes. Messenger and Notifier
// override the collaborators built from Cfg when set.
type Deps struct {
	Cfg       config.Config
	DB        *pgxpool.Pool
	Cache     *redis.Client
	Logger    *slog.Logger
	Messenger messaging.Messenger
	Notifier  notification.Notifier
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDevelopment() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	messenger := d.Messenger
	if messenger == nil {
		messenger = newMessenger(d.Cfg.Messaging, d.Logger)
	}
	notifier := d.Notifier
	if notifier == nil {
		notifier = newNotifier(d.Cfg, d.Logger)
	}

	var verificationRepo verification.Repository
	var consignmentRepo consignment.Repository
	var appointmentRepo appointment.Repository
	var creditRepo creditapp.Repository
	if d.DB != nil {
		verificationRepo = verification.NewPostgresRepository(d.DB)
		consignmentRepo = consignment.NewPostgresRepository(d.DB)
		appointmentRepo = appointment.NewPostgresRepository(d.DB)
		creditRepo = creditapp.NewPostgresRepository(d.DB)
	} else {
		d.Logger.Warn("no database configured; leads are kept in memory")
		verificationRepo = verification.NewMemoryRepository()
		consignmentRepo = consignment.NewMemoryRepository()
		appointmentRepo = appointment.NewMemoryRepository()
		creditRepo = creditapp.NewMemoryRepository()
	}

	verifier := verification.NewService(verificationRepo, messenger, d.Logger,
		verification.WithDeliveryTimeout(d.Cfg.Messaging.Timeout))
	guard := verification.NewGuard(verifier)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.GetRequestID(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterVerificationRoutes(api, verification.NewHandler(verifier),
		middleware.SendRateLimit(d.Cache, d.Cfg.SendLimit.Max, d.Cfg.SendLimit.Window, d.Logger))

	leads := LeadHandlers{
		Consignments: consignment.NewHandler(consignment.NewService(consignmentRepo, guard, notifier, d.Logger)),
		Appointments: appointment.NewHandler(appointment.NewService(appointmentRepo, guard, notifier, d.Logger)),
		Credit:       creditapp.NewHandler(creditapp.NewService(creditRepo, guard, notifier, d.Logger)),
	}
	RegisterLeadRoutes(api, leads, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))

	RegisterFinancingRoutes(api, financing.NewHandler())

	return nil
}

func newMessenger(cfg config.Messaging, logger *slog.Logger) messaging.Messenger {
	m := messaging.New(messaging.Settings{
		Provider: cfg.Provider,
		GoHighLevel: messaging.GoHighLevelConfig{
			BaseURL:    cfg.GHLBaseURL,
			APIKey:     cfg.GHLAPIKey,
			LocationID: cfg.GHLLocationID,
			Timeout:    cfg.Timeout,
		},
		Twilio: messaging.TwilioConfig{
			AccountSID: cfg.TwilioSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromPhone:  cfg.TwilioFromPhone,
			Timeout:    cfg.Timeout,
		},
	})
	switch m.(type) {
	case *messaging.GoHighLevel:
		logger.Info("sms provider selected", slog.String("provider", messaging.ProviderGoHighLevel))
	case *messaging.Twilio:
		logger.Info("sms provider selected", slog.String("provider", messaging.ProviderTwilio))
	default:
		logger.Warn("no sms provider configured; verification sends will fail")
	}
	return m
}

func newNotifier(cfg config.Config, logger *slog.Logger) notification.Notifier {
	n := cfg.Notifications
	if !n.Enabled() {
		return notification.NewLoggerNotifier(logger)
	}
	return notification.NewSendGridNotifier(notification.SendGridConfig{
		APIKey:    n.SendGridAPIKey,
		FromEmail: n.FromEmail,
		FromName:  n.DealerName,
		ToEmail:   n.ToEmail,
	})
}

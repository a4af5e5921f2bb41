package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arto/mercator-backend/api/controllers"
	webhookcontrollers "github.com/arto/mercator-backend/api/controllers/webhooks"
	"github.com/arto/mercator-backend/api/middleware"
	"github.com/arto/mercator-backend/internal/catalog"
	checkoutsvc "github.com/arto/mercator-backend/internal/checkout"
	"github.com/arto/mercator-backend/pkg/auth/session"
	"github.com/arto/mercator-backend/pkg/config"
	"github.com/arto/mercator-backend/pkg/db"
	"github.com/arto/mercator-backend/pkg/logger"
	"github.com/arto/mercator-backend/pkg/metrics"
	"github.com/arto/mercator-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers. Optional entries
// (redis, sessions, stripe) may be nil; the affected routes degrade rather
// than panic.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Sessions *session.Manager

	Catalog  catalog.Service
	Checkout checkoutsvc.Service
	Webhook  webhookcontrollers.StripeWebhookService

	StripeSigner interface{ SigningSecret() string }

	Metrics  *metrics.StorefrontMetrics
	Registry *prometheus.Registry
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
		middleware.CORS(d.Config.Site.BaseURL),
	)

	secureCookies := d.Config.App.IsProd()

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.DB, d.Redis, d.Logger))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(d.Webhook, d.StripeSigner, d.Metrics, d.Logger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/checkout", controllers.CreateCheckout(d.Checkout, d.Logger))

		r.Get("/maps", controllers.ListMaps(d.Catalog, d.Sessions, d.Logger))
		r.Get("/maps/{slug}", controllers.GetMap(d.Catalog, d.Logger))
		r.With(middleware.Admin(d.Sessions, d.Logger)).Post("/maps", controllers.UpsertMap(d.Catalog, d.Logger))

		r.Get("/chapters", controllers.ListChapters(d.Catalog, d.Logger))
		r.Get("/chapters/{slug}", controllers.GetChapter(d.Catalog, d.Logger))
		r.With(middleware.Admin(d.Sessions, d.Logger)).Post("/chapters", controllers.UpsertChapter(d.Catalog, d.Logger))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AdminLogin(d.Config.Admin, d.Sessions, secureCookies, d.Logger))
		r.Post("/logout", controllers.AdminLogout(secureCookies))
	})

	return r
}

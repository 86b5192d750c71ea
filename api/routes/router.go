package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rahulnair-dev/payflow/api/controllers"
	webhookcontrollers "github.com/rahulnair-dev/payflow/api/controllers/webhooks"
	"github.com/rahulnair-dev/payflow/api/middleware"
	"github.com/rahulnair-dev/payflow/internal/intents"
	"github.com/rahulnair-dev/payflow/pkg/config"
	"github.com/rahulnair-dev/payflow/pkg/logger"
	"github.com/rahulnair-dev/payflow/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	factory *intents.Factory,
	store *intents.Store,
	machine *intents.StateMachine,
	httpMetrics *metrics.HTTPMetrics,
	payMetrics *metrics.PaymentMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/payments", func(r chi.Router) {
		r.Post("/intent", controllers.CreatePaymentIntent(factory, payMetrics, logg))
		r.Post("/webhook", webhookcontrollers.GatewayWebhook(machine, payMetrics, logg))
		r.Get("/{paymentId}", controllers.GetPayment(store, logg))
	})

	return r
}

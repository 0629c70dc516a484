package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/lucasvilela/vendalytics/internal/infra/observability"
	"github.com/lucasvilela/vendalytics/internal/service"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc *service.Analytics, maxUploadBytes int64, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Upload slots: products, buyers, ledger. One file per request;
		// an error in one slot never touches another slot's data.
		r.Post("/uploads/{slot}", uploadHandler(svc, maxUploadBytes, logger))
		r.Delete("/uploads", resetHandler(svc, logger))

		// Products+buyers pipeline.
		r.Get("/analytics/summary", summaryHandler(svc, logger))
		r.Get("/analytics/products", productsHandler(svc, logger))
		r.Get("/analytics/buyers", buyersHandler(svc, logger))
		r.Get("/analytics/export", exportProductsHandler(svc, logger))

		// Ledger pipeline.
		r.Get("/analytics/ledger", ledgerHandler(svc, logger))
		r.Get("/analytics/ledger/rows", ledgerRowsHandler(svc, logger))
		r.Get("/analytics/ledger/export", exportLedgerHandler(svc, logger))

		// Counter snapshot.
		r.Get("/metrics/pipeline", pipelineMetricsHandler(svc))
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

package handler

import (
	"net/http"

	"github.com/araguaina/iptu-portal-bfa/internal/domain"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/observability"
	"github.com/araguaina/iptu-portal-bfa/internal/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the contract the IPTU portal frontend already calls.
func NewRouter(props port.PropertyQuerier, billing port.BillingWorkflow, metrics *observability.Metrics, corsOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RealIP)
	r.Use(observability.CorrelationMiddleware(logger))
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(observability.RecoverMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", observability.CorrelationHeader},
		ExposedHeaders:   []string{observability.CorrelationHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/health", healthHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- Functions consumed by the portal ---
	r.Route("/functions", func(r chi.Router) {

		// =============================================
		// 1. 🏠 Contribuinte e imóveis
		// =============================================
		r.Post("/consultarContribuinte", consultTaxpayerHandler(props, logger))
		r.Post("/consultarDebitos", consultDebtsHandler(props, logger))
		r.Post("/consultarDetalhesImovel", propertyDetailHandler(props, logger))

		// =============================================
		// 2. 🧾 Parcelamento (same workflow as /api/public/boletos,
		// tax id optional)
		// =============================================
		r.Post("/simularParcelamento", uiSimulateHandler(billing, logger))
		r.Post("/emitirDuam", uiGenerateHandler(billing, logger))

		// =============================================
		// 3. 💳 Pagamento online
		// =============================================
		r.Post("/processarPagamentoOnline", notImplementedHandler("Pagamento online não implementado neste backend."))
		r.Post("/consultarStatusPagamentos", notImplementedHandler("Consulta de status não implementada."))

		// =============================================
		// 4. 📊 Métricas
		// =============================================
		r.Post("/getApiMetrics", apiMetricsHandler(metrics))
	})

	// --- Boletos ---
	r.Route("/api/public/boletos", func(r chi.Router) {
		r.Post("/consulta", consultBillingHandler(billing, logger))
		r.Post("/simular", simulateHandler(billing, logger))
		r.Post("/gerar", generateHandler(billing, logger))
		r.Post("/imprimir", printSlipHandler(billing, logger))
		r.Post("/imprimir-virtual", printVirtualSlipHandler(billing, logger))
	})

	return r
}

// ============================================================
// Operational handlers
// ============================================================

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.HealthStatus{Status: "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func apiMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Snapshot())
	}
}

func notImplementedHandler(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotImplemented, msg)
	}
}

package router

import (
	"net/http"

	"kiosk-checkout/internal/config"
	"kiosk-checkout/internal/handler"
	"kiosk-checkout/internal/metrics"
	"kiosk-checkout/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	sessionHandler *handler.SessionHandler,
	apiKey string,
	limits config.RateLimitConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Recovery -> Logging -> Metrics -> CORS -> RateLimit -> APIKeyAuth
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS)
	r.Use(middleware.RateLimit(limits.RequestsPerSecond, limits.Burst, logger))
	r.Use(middleware.APIKeyAuth(apiKey, logger))

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Get("/pickers/{picker}", productHandler.Picker)
		r.Get("/{barcode}", productHandler.GetByBarcode)
	})

	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", sessionHandler.Get)
		r.Post("/scan", sessionHandler.Scan)
		r.Post("/lines/{barcode}/quantity", sessionHandler.ChangeQuantity)
		r.Delete("/lines/{barcode}", sessionHandler.RemoveLine)
		r.Post("/overlays/{overlay}", sessionHandler.OpenOverlay)
		r.Delete("/overlays", sessionHandler.CloseOverlay)
		r.Post("/checkout", sessionHandler.Checkout)
		r.Post("/coupon", sessionHandler.SubmitCoupon)
		r.Post("/coupon/skip", sessionHandler.SkipCoupon)
		r.Get("/coupons", sessionHandler.Coupons)
		r.Post("/points/method", sessionHandler.SelectPointsMethod)
		r.Post("/points/phone", sessionHandler.EnrollPhone)
		r.Post("/points/barcode", sessionHandler.EnrollBarcode)
		r.Post("/points/confirm", sessionHandler.ConfirmPoints)
		r.Post("/points/skip", sessionHandler.SkipPoints)
		r.Post("/payment/tab", sessionHandler.SelectPaymentTab)
		r.Post("/payment", sessionHandler.Pay)
		r.Post("/payment/card", sessionHandler.InsertCard)
		r.Post("/previous", sessionHandler.Previous)
		r.Post("/reset", sessionHandler.NewTransaction)
		r.Get("/receipt", sessionHandler.Receipt)
	})

	return r
}

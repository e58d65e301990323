package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/health"
	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/middleware"
)

// RouterConfig carries the handlers and settings the router needs.
type RouterConfig struct {
	Cart        *CartHandler
	Orders      *OrderHandler
	Health      *health.Handler
	Logger      *slog.Logger
	CORSOrigins []string
	Environment string
}

// NewRouter creates a chi router with all cart engine routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("cart-engine"))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORSOrigins,
		Environment:    cfg.Environment,
	}))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	// Cart API endpoints
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", cfg.Cart.GetCart)
		r.Delete("/", cfg.Cart.ClearCart)
		r.Get("/totals", cfg.Cart.GetTotals)

		r.Post("/items", cfg.Cart.AddItem)
		r.Put("/items/{lineId}", cfg.Cart.UpdateQuantity)
		r.Delete("/items/{lineId}", cfg.Cart.RemoveLine)
	})

	// Checkout finalization
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", cfg.Orders.PlaceOrder)
	})

	return r
}

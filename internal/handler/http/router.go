package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/service"
	"github.com/utafrali/sportsstore/pkg/health"
	"github.com/utafrali/sportsstore/pkg/middleware"
)

const serviceName = "storefront"

// Services are the application services exposed over HTTP.
type Services struct {
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
	Identity *service.IdentityService
}

// RouterConfig holds the transport settings of the router.
type RouterConfig struct {
	Session    SessionConfig
	CORS       middleware.CORSConfig
	PprofCIDRs []string
	// LoginRateLimit throttles credential checks per client IP.
	LoginRateLimit middleware.RateLimitConfig
	// CatalogMaxAge is the public cache lifetime of catalog reads, in seconds.
	CatalogMaxAge int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svc Services,
	validateToken middleware.TokenValidator,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	catalogHandler := NewCatalogHandler(svc.Catalog, logger)
	cartHandler := NewCartHandler(svc.Cart, logger)
	checkoutHandler := NewCheckoutHandler(svc.Cart, svc.Checkout, logger)
	authHandler := NewAuthHandler(svc.Identity, logger)
	adminHandler := NewAdminHandler(svc.Catalog, svc.Orders, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Catalog (public, cacheable)
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(cfg.CatalogMaxAge))

			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{id}", catalogHandler.GetProduct)
			r.Get("/products/{category}/page/{page}", catalogHandler.ListCategoryPage)
			r.Get("/categories", catalogHandler.ListCategories)
		})

		// Session cart and checkout
		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(AllowContentTypes(contentJSON, contentForm))
			r.Use(Sessions(cfg.Session))

			r.Get("/cart", cartHandler.GetCart)
			r.Delete("/cart", cartHandler.ClearCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Delete("/cart/items/{productId}", cartHandler.RemoveItem)

			r.Post("/checkout", checkoutHandler.Checkout)
		})

		r.With(
			middleware.NoStore,
			middleware.RateLimit(cfg.LoginRateLimit, logger),
			AllowContentTypes(contentJSON, contentForm),
		).Post("/auth/login", authHandler.Login)

		// Back office
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(AllowContentTypes(contentJSON))
			r.Use(middleware.Auth(validateToken))
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Get("/products", adminHandler.ListProducts)
			r.Post("/products", adminHandler.CreateProduct)
			r.Get("/products/{id}", adminHandler.GetProduct)
			r.Put("/products/{id}", adminHandler.UpdateProduct)
			r.Delete("/products/{id}", adminHandler.DeleteProduct)
			r.Post("/seed", adminHandler.Seed)

			r.Get("/orders", adminHandler.ListOrders)
			r.Get("/orders/{id}", adminHandler.GetOrder)
			r.Post("/orders/{id}/ship", adminHandler.ShipOrder)
		})
	})

	return r
}

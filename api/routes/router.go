package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	cartsvc "github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// RouterParams groups everything the HTTP surface needs.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Catalog  controllers.CatalogService
	Fetcher  *catalog.Fetcher

	// Snapshots and CatalogPing feed the readiness probe.
	Snapshots   controllers.Pinger
	CatalogPing controllers.Pinger

	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.Snapshots, params.CatalogPing))
	})

	if params.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Get("/ping", controllers.PublicPing())

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(params.Catalog, params.Fetcher, logg))
			r.Get("/categories", controllers.ProductCategories(params.Catalog, logg))
			r.Get("/{productId}", controllers.ProductDetail(params.Catalog, params.Fetcher, logg))
			r.Post("/", controllers.ProductCreate(params.Catalog, logg))
			r.Put("/{productId}", controllers.ProductUpdate(params.Catalog, logg))
			r.Delete("/{productId}", controllers.ProductDelete(params.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(params.Cart, logg))
			r.Delete("/", controllers.CartClear(params.Cart, logg))
			r.Post("/items", controllers.CartAddItem(params.Cart, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateQuantity(params.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(params.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(params.Checkout, logg))
	})

	return r
}

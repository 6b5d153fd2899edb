package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/textilehouse-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/textilehouse-backend/api/controllers/cart"
	"github.com/angelmondragon/textilehouse-backend/api/middleware"
	"github.com/angelmondragon/textilehouse-backend/internal/cart"
	"github.com/angelmondragon/textilehouse-backend/internal/inquiries"
	products "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/internal/quotes"
	"github.com/angelmondragon/textilehouse-backend/pkg/config"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
)

// NewRouter wires every HTTP route. redisP may be nil when carts live in
// process memory; metricsHandler may be nil to leave /metrics unmounted.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	productService products.Service,
	quoteService quotes.Service,
	cartService cart.Service,
	inquiryService inquiries.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	deps := map[string]controllers.Pinger{}
	if dbP != nil {
		deps["db"] = dbP
	}
	if redisP != nil {
		deps["redis"] = redisP
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps, logg))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	price := controllers.PriceQuote(quoteService, logg)
	r.Get("/api/price", price)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/price", price)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Get("/{slug}", controllers.GetProduct(productService, logg))
			r.Get("/{slug}/tiers", controllers.ProductTiers(quoteService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartSession(logg, cfg.App.IsProd()))
			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Delete("/", cartcontrollers.CartClear(cartService, logg))
			r.Post("/items", cartcontrollers.CartAddItem(cartService, logg))
			r.Put("/items/{productId}", cartcontrollers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(cartService, logg))
		})

		r.Post("/inquiries", controllers.SubmitInquiry(inquiryService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminKey(cfg.Admin.APIKey, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(productService, defaultCurrency(cfg), logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(productService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(productService, logg))
		})
		r.Put("/tiers/{slug}/{mode}", controllers.AdminReplaceTiers(productService, logg))

		r.Route("/inquiries", func(r chi.Router) {
			r.Get("/", controllers.AdminListInquiries(inquiryService, logg))
			r.Patch("/{inquiryId}", controllers.AdminUpdateInquiry(inquiryService, logg))
		})
	})

	return r
}

func defaultCurrency(cfg *config.Config) enums.Currency {
	currency, err := enums.ParseCurrency(cfg.Pricing.Currency)
	if err != nil {
		return enums.CurrencyUSD
	}
	return currency
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flamoure/flamoure-backend/api/controllers"
	"github.com/flamoure/flamoure-backend/api/middleware"
	authsvc "github.com/flamoure/flamoure-backend/internal/auth"
	"github.com/flamoure/flamoure-backend/internal/cart"
	checkoutsvc "github.com/flamoure/flamoure-backend/internal/checkout"
	"github.com/flamoure/flamoure-backend/internal/editor"
	"github.com/flamoure/flamoure-backend/internal/orders"
	products "github.com/flamoure/flamoure-backend/internal/products"
	"github.com/flamoure/flamoure-backend/internal/settings"
	"github.com/flamoure/flamoure-backend/internal/uploads"
	"github.com/flamoure/flamoure-backend/pkg/config"
	"github.com/flamoure/flamoure-backend/pkg/db"
	"github.com/flamoure/flamoure-backend/pkg/logger"
	"github.com/flamoure/flamoure-backend/pkg/metrics"
	pkgredis "github.com/flamoure/flamoure-backend/pkg/redis"
	"github.com/flamoure/flamoure-backend/pkg/storage/gcs"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	gcsClient gcs.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	sessions middleware.SessionChecker,
	authService authsvc.Service,
	productService products.Service,
	editorService editor.Service,
	cartService cart.Service,
	uploadService uploads.Service,
	checkoutService checkoutsvc.Service,
	settingsService settings.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(),
	)

	// A typed-nil client must not leak into the middleware interfaces.
	var (
		idemStore pkgredis.IdempotencyStore
		redisP    pkgredis.Pinger
	)
	if redisClient != nil {
		idemStore = redisClient
		redisP = redisClient
	}
	idempotency := middleware.Idempotency(idemStore, logg)

	loginLimiter := passthrough
	if redisClient != nil {
		loginPolicy := middleware.NewAuthRateLimitPolicy(
			"login",
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
			cfg.AuthRateLimit.LoginEmailLimit,
		)
		loginLimiter = middleware.AuthRateLimit(loginPolicy, redisClient, logg)
	}

	maxUploadBytes := int64(cfg.Media.MaxUploadMB) << 20

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP, gcsClient))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", controllers.TemplateList(logg))
			r.Get("/{templateID}", controllers.TemplateGet(logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductCatalog(productService, logg))
			r.Get("/{slug}", controllers.ProductBySlug(productService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionContext(logg))

			r.Route("/editor/sessions", func(r chi.Router) {
				r.Post("/", controllers.EditorCreate(editorService, logg))
				r.Get("/{editorSessionID}", controllers.EditorGet(editorService, logg))
				r.Post("/{editorSessionID}/operations", controllers.EditorApply(editorService, logg))
				r.Post("/{editorSessionID}/finalize", controllers.EditorFinalize(editorService, logg))
				r.Delete("/{editorSessionID}", controllers.EditorDiscard(editorService, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, logg))
				r.Patch("/items/{lineID}", controllers.CartUpdateQuantity(cartService, logg))
				r.Delete("/items/{lineID}", controllers.CartRemoveItem(cartService, logg))
			})

			r.Route("/uploads", func(r chi.Router) {
				r.Post("/", controllers.UploadImage(uploadService, maxUploadBytes, logg))
				r.Post("/sign", controllers.UploadRequest(uploadService, logg))
				r.Get("/{uploadID}", controllers.UploadGet(uploadService, logg))
			})

			r.With(idempotency).Post("/checkout", controllers.CheckoutSubmit(checkoutService, logg))

			r.Route("/settings", func(r chi.Router) {
				r.Get("/theme", controllers.SettingsGetTheme(settingsService, logg))
				r.Put("/theme", controllers.SettingsSetTheme(settingsService, logg))
				r.Get("/last-order", controllers.SettingsLastOrder(settingsService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.With(loginLimiter).Post("/auth/login", controllers.AuthLogin(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))

			r.Post("/auth/logout", controllers.AuthLogout(authService, logg))
			r.Get("/auth/me", controllers.AuthProfile(authService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrderList(orderService, logg))
				r.Get("/summary", controllers.AdminOrderSummary(orderService, logg))
				r.Get("/export.csv", controllers.AdminOrderExportCSV(orderService, logg))
				r.Get("/{orderID}", controllers.AdminOrderGet(orderService, logg))
				r.With(idempotency).Patch("/{orderID}/status", controllers.AdminOrderUpdateStatus(orderService, logg))
				r.Get("/{orderID}/images.zip", controllers.AdminOrderImagesZIP(orderService, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminProductList(productService, logg))
				r.Post("/", controllers.AdminProductCreate(productService, logg))
				r.Get("/{productID}", controllers.AdminProductGet(productService, logg))
				r.Patch("/{productID}", controllers.AdminProductUpdate(productService, logg))
				r.Delete("/{productID}", controllers.AdminProductDelete(productService, logg))
			})
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}

package router

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/stock-sales-tracker/docs"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/http/handlers"
	mw "github.com/rogerio-castellano/stock-sales-tracker/internal/http/middleware"
	rl "github.com/rogerio-castellano/stock-sales-tracker/internal/http/rate_limiter"
)

type Options struct {
	// AllowedOrigins is the CORS allow-list. Empty disables cross-origin
	// requests; a "*" entry allows any origin without credentials.
	AllowedOrigins []string
	// TrustProxy honours X-Forwarded-For and X-Real-IP. Enable it only when
	// the service is reachable solely through a reverse proxy.
	TrustProxy bool
	// LoginLimiter throttles POST /login. Nil disables throttling.
	LoginLimiter *rl.Limiter
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// NewRouter wires every route with its gates. Each group states its own
// middleware; nothing is applied implicitly.
func NewRouter(s *handlers.Server, authn *mw.Authenticator, opts Options) http.Handler {
	r := chi.NewRouter()

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: !slices.Contains(opts.AllowedOrigins, "*"),
		}))
	}
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	if opts.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(authn.Identify)

	r.Get("/health", s.HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// public
	r.Get("/", s.HomeHandler)
	r.Post("/register", s.RegisterHandler)
	r.Post("/logout", s.LogoutHandler)
	r.Get("/logout", s.LogoutHandler)
	r.Group(func(r chi.Router) {
		if opts.LoginLimiter != nil {
			r.Use(opts.LoginLimiter.Middleware)
		}
		r.Post("/login", s.LoginHandler)
	})

	// logged in
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireLogin)

		r.Get("/dashboard", s.DashboardHandler)

		r.Get("/api/products", s.GetProductsHandler)
		r.Get("/api/products/search", s.FilterProductsHandler)
		r.Get("/api/products/{id}", s.GetProductByIDHandler)
		r.Get("/api/stock/alerts", s.StockAlertsHandler)

		r.Get("/api/clients", s.GetClientsHandler)
		r.Post("/api/clients", s.CreateClientHandler)
		r.Get("/api/clients/{id}", s.GetClientByIDHandler)

		r.Get("/api/sales", s.GetSalesHandler)
		r.Post("/api/sales", s.CreateSaleHandler)
		r.Get("/api/sales/export", s.ExportSalesHandler)
		r.Get("/api/charts", s.ChartsHandler)
	})

	// administrators
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAdmin)

		r.Get("/admin", s.AdminHandler)
		r.Post("/api/products", s.CreateProductHandler)
		r.Post("/api/products/import", s.ImportProductsHandler)
		r.Put("/api/products/{id}/quantity", s.UpdateQuantityHandler)
		r.Get("/api/metrics/dashboard", s.GetDashboardMetricsHandler)
	})

	return r
}

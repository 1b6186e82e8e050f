package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"

	"github.com/emporium-commerce/emporium/internal/access"
	"github.com/emporium-commerce/emporium/internal/admin"
	"github.com/emporium-commerce/emporium/internal/api/handler"
	"github.com/emporium-commerce/emporium/internal/api/middleware"
	"github.com/emporium-commerce/emporium/internal/newsletter"
	"github.com/emporium-commerce/emporium/internal/session"
	"github.com/emporium-commerce/emporium/internal/telemetry"
)

// Sessions is the customer session surface the router needs.
type Sessions interface {
	middleware.SessionReader
	handler.SessionIssuer
}

// StaffResolver is the staff identity surface the router needs.
type StaffResolver interface {
	middleware.AdminResolver
	handler.StaffSessionResolver
}

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Routes      access.Table
	DBPinger    handler.Pinger
	CachePinger handler.Pinger
	Version     string
	OpenAPISpec []byte

	Staff       StaffResolver
	AdminRepo   admin.Repository
	Sessions    Sessions
	Customers   handler.CustomerService
	Flags       handler.FlagGate
	Subscribers newsletter.Repository

	LoginPath        string
	AdminLandingPath string
	APIPrefix        string

	Metrics        *middleware.GateMetrics
	MetricsHandler http.Handler

	// Tracing overrides the global tracer provider when set.
	Tracing trace.TracerProvider
}

// NewRouter creates and configures a Chi router with all middleware and routes.
// Every request passes the route gate before reaching its handler.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(telemetry.Middleware(telemetry.WithTracerProvider(deps.Tracing)))
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Gate(middleware.GateConfig{
		Table:     deps.Routes,
		Admins:    deps.Staff,
		Sessions:  deps.Sessions,
		LoginPath: deps.LoginPath,
		APIPrefix: deps.APIPrefix,
		Metrics:   deps.Metrics,
	}))

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.CachePinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	adminSession := handler.NewAdminSessionHandler(deps.Staff)
	r.Get("/api/auth/admin/session", adminSession.ServeHTTP)

	flagHandler := handler.NewFeatureFlagHandler(deps.Flags)
	r.Get("/api/public/feature-flags/{key}", flagHandler.Public)

	newsletterHandler := handler.NewNewsletterHandler(deps.Flags, deps.Subscribers, deps.Customers, deps.Sessions)
	r.Post("/api/newsletter/subscribe", newsletterHandler.Subscribe)

	customerHandler := handler.NewCustomerHandler(deps.Customers, deps.Sessions)
	r.Route("/api/customer", func(r chi.Router) {
		r.Post("/register", customerHandler.Register)
		r.Post("/login", customerHandler.Login)
		r.Get("/session", customerHandler.Session)
		r.Post("/refresh", customerHandler.Refresh)
		r.Post("/logout", customerHandler.Logout)
		r.Get("/profile", customerHandler.GetProfile)
		r.Patch("/profile", customerHandler.UpdateProfile)
	})

	adminUsers := handler.NewAdminUserHandler(deps.AdminRepo)
	r.Route("/api/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdminAPI)
			r.Get("/feature-flags", flagHandler.List)
			r.Put("/feature-flags/{key}", flagHandler.Upsert)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSuperAdminAPI)
			r.Get("/users", adminUsers.List)
			r.Patch("/users/{id}", adminUsers.Update)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminPage(deps.LoginPath))
		r.Get("/admin", handler.AdminShell)
		r.Get("/admin/*", handler.AdminShell)
	})
	r.With(middleware.RequireSuperAdminPage(deps.LoginPath, deps.AdminLandingPath)).
		Get("/admin/users", handler.AdminShell)

	return r
}

var _ Sessions = (*session.Codec)(nil)

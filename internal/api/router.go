package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/daap14/billing/internal/api/handler"
	"github.com/daap14/billing/internal/api/middleware"
	"github.com/daap14/billing/internal/ledger"
	"github.com/daap14/billing/internal/observability"
	"github.com/daap14/billing/internal/plan"
	"github.com/daap14/billing/internal/team"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger      handler.DBPinger
	Version       string
	Catalog       *plan.Catalog
	Authenticator middleware.Authenticator
	Gate          middleware.AdminChecker
	Users         handler.UserProvisioner
	TeamRepo      team.Repository
	LedgerRepo    ledger.Repository
	Metrics       *observability.Metrics
	Gatherer      prometheus.Gatherer
	OpenAPISpec   []byte
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", observability.Handler(deps.Gatherer))
	}

	if deps.Authenticator == nil || deps.Gate == nil {
		return r
	}

	requireAdmin := middleware.RequireAdmin(deps.Gate)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.Authenticator))

		if deps.Catalog != nil {
			planHandler := handler.NewPlanHandler(deps.Catalog)
			r.Route("/plans", func(r chi.Router) {
				r.Get("/", planHandler.List)
				r.Get("/prorated-upgrade-price", planHandler.ProratedUpgradePrice)
				r.Get("/{id}", planHandler.GetByID)
				r.With(requireAdmin).Post("/", planHandler.Create)
				r.With(requireAdmin).Put("/{id}", planHandler.Update)
			})
		}

		if deps.Users != nil {
			userHandler := handler.NewUserHandler(deps.Users)
			r.Route("/users", func(r chi.Router) {
				r.With(requireAdmin).Post("/", userHandler.Create)
				r.Get("/me", userHandler.Me)
			})
		}

		if deps.TeamRepo != nil && deps.LedgerRepo != nil {
			teamHandler := handler.NewTeamHandler(deps.TeamRepo, deps.LedgerRepo, deps.Gate)
			r.Route("/teams", func(r chi.Router) {
				r.Get("/", teamHandler.List)
				r.Get("/{id}/subscriptions", teamHandler.Subscriptions)
			})
		}
	})

	return r
}

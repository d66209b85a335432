package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusdesk/campusdesk/backend/internal/setup"
	"github.com/campusdesk/campusdesk/shared/middleware/metrics"
	"github.com/campusdesk/campusdesk/shared/middleware/ratelimit"
)

// New builds the ops router: probes, Prometheus scrape and invitation
// maintenance.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	h := deps.Handler

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/ops", func(r chi.Router) {
		r.Get("/invitations", h.InvitationStats)
		r.With(ratelimit.Middleware(ratelimit.New(1.0/10, 1, time.Hour))).
			Post("/invitations/sweep", h.SweepInvitations)
	})

	return r
}

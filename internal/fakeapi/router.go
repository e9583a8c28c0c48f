package fakeapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doudou-app/doudou/pkg/health"
	"github.com/doudou-app/doudou/pkg/middleware"
)

const serviceName = "doudou-fakeapi"

// NewRouter creates a chi router serving the backend routes under /api.
func NewRouter(store *Store, registry *health.Registry, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))

	r.Get("/health/live", registry.LivenessHandler())
	r.Get("/health/ready", registry.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	h := NewHandler(store, logger)
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.Root)

		r.Get("/locations", h.ListLocations)
		r.Post("/locations", h.CreateLocation)
		r.Get("/locations/{id}", h.GetLocation)
		r.Delete("/locations/{id}", h.DeleteLocation)

		r.Post("/reviews", h.CreateReview)
		r.Get("/reviews/{id}", h.ListReviews)
		r.Post("/reviews/{id}/helpful", h.MarkHelpful)

		r.Get("/saved", h.ListSaved)
		r.Post("/saved", h.SaveLocation)
		r.Delete("/saved/{id}", h.UnsaveLocation)
		r.Get("/saved/check/{id}", h.CheckSaved)

		r.Post("/seed", h.Seed)
	})

	return r
}

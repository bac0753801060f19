// Package api is the HTTP presentation shell of the route checker
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cubny/farewatch"
)

// Checker is the part of the engine the handlers need
type Checker interface {
	CheckRoute(pickup, dropoff string) (farewatch.CheckResult, error)
	CheckRouteByName(pickupName, dropoffName string) (farewatch.CheckResult, error)
	Zones() *farewatch.ZoneDirectory
	Session() string
}

// NewRouter creates the HTTP router with all routes and middleware
func NewRouter(checker Checker) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &handler{checker: checker, startTime: time.Now()}

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/health", h.health)
		r.Get("/boroughs", h.boroughs)
		r.Route("/zones", func(r chi.Router) {
			r.Get("/", h.zones)
			r.Get("/names", h.zoneNames)
		})
		r.Route("/routes", func(r chi.Router) {
			r.Get("/check", h.checkRoute)
			r.Get("/check-by-name", h.checkRouteByName)
		})
	})

	return r
}

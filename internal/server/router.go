package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/jbweber/homelab/items/internal/logging"
)

const requestTimeout = 30 * time.Second

// Routes is implemented by anything that mounts handlers on a router.
type Routes interface {
	RegisterRoutes(r chi.Router)
}

// NewRouter builds the middleware stack and mounts routes on it. CORS is
// only enabled when origins is non-empty.
func NewRouter(routes Routes, origins []string, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	if len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	routes.RegisterRoutes(r)

	return r
}

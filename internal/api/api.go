package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jbweber/homelab/items/internal/domain"
)

// BasePath is the mount point of the item resource.
const BasePath = "/v1/base"

// ItemService is the domain service the handlers delegate to.
type ItemService interface {
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	FindByID(ctx context.Context, id int64) (domain.Item, error)
	Update(ctx context.Context, changes domain.Item) (domain.Item, error)
	Delete(ctx context.Context, id int64) error
}

// Pinger reports datastore health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// API holds the handler dependencies
type API struct {
	items  ItemService
	health Pinger
	logger zerolog.Logger
}

// NewAPI creates a new API instance. health may be nil, in which case
// /healthz always reports ok.
func NewAPI(items ItemService, health Pinger, logger zerolog.Logger) *API {
	return &API{
		items:  items,
		health: health,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// RegisterRoutes registers all API endpoints to the given chi router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", a.healthzHandler)

	r.Route(BasePath, func(r chi.Router) {
		r.Post("/", a.createItemHandler)
		r.Get("/{id}", a.getItemHandler)
		r.Put("/{id}", a.updateItemHandler)
		r.Delete("/{id}", a.deleteItemHandler)
	})
}

func (a *API) healthzHandler(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		if err := a.health.Ping(r.Context()); err != nil {
			a.logger.Error().Err(err).Msg("health check failed")
			writeJSON(w, a.logger, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, a.logger, http.StatusOK, map[string]string{"status": "ok"})
}

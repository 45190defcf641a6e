package http

import (
	"net/http"

	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.Route("/api", func(r chi.Router) {
		// routes without authorization
		r.Get("/health", h.health)
		r.Get("/version", h.getServerVersion)
		r.Post("/auth/refresh", h.refresh)
		r.Group(func(r chi.Router) {
			r.Use(h.withBodyHash)
			r.Post("/auth/register", h.register)
			r.Post("/auth/login", h.login)
		})

		// entity resources
		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			for _, entity := range models.SyncOrder {
				r.Route("/"+entity.Path(), func(r chi.Router) {
					r.Use(withEntity(entity))
					r.Get("/", h.listRecords)
					r.With(h.withBodyHash).Post("/", h.createRecord)
					r.With(h.withBodyHash).Put("/{id}", h.updateRecord)
					r.Delete("/{id}", h.archiveRecord)
				})
			}
		})
	})

	router.NotFound(notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// withEntity binds a record route to the entity type it serves.
func withEntity(entity models.EntityType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(utils.WithEntity(r.Context(), entity)))
		})
	}
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, models.ErrorResponse{Message: http.StatusText(http.StatusNotFound)}, http.StatusNotFound)
}

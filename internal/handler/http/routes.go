package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/identity/assume", h.assumeIdentity)
		r.Post("/api/identity/unauthenticated", h.unauthenticated)
		r.Get("/api/version", h.getServerVersion)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/api/datasets/{dataset}/records", h.listRecords)
		r.With(h.patchHashing).Post("/api/datasets/{dataset}/records/patch", h.updateRecords)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

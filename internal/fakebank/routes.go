package fakebank

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)
	// event streams are left uncompressed so every frame can be flushed
	router.Use(middleware.Compress(5, "application/json"))

	// routes without authorization
	router.Post("/api/auth/refresh", h.refresh)

	router.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Route("/api/banking", func(r chi.Router) {
			r.Get("/banks/{blz}", h.lookupBank)
			r.Post("/tan-methods", h.tanMethods)
			r.Post("/credentials", h.storeCredentials)
			r.Post("/accounts/discover", h.discoverAccounts)
			r.Post("/accounts/import", h.importAccounts)
			r.Get("/sync/recommendation", h.syncRecommendation)
			r.Post("/sync/stream", h.syncStream)
		})
		r.Post("/api/models/pull/stream", h.pullModel)
	})

	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method "+r.Method+" not allowed", http.StatusMethodNotAllowed)
	})

	return router
}

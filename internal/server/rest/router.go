package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router builds the HTTP route tree. allowedOrigins feeds the CORS policy.
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		JSONResponse(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Get("/config", h.authConfig)
		r.Get("/google/callback", h.googleCallback)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/me", h.me)
			r.Delete("/delete-account", h.deleteAccount)
		})
	})

	r.Route("/entries", func(r chi.Router) {
		r.Get("/guest", h.guestEntries)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/", h.listEntries)
			r.Post("/", h.saveEntries)
			r.Delete("/{id}", h.deleteEntry)
		})
	})

	r.Route("/community-entries", func(r chi.Router) {
		r.Get("/", h.listCommunity)
		r.Post("/", h.submitCommunity)
		r.Put("/update-category", h.renameCategory)
		r.Put("/{id}", h.renameCapability)
		r.Delete("/category/{name}", h.deleteCategory)
		r.Delete("/{id}", h.deleteCommunity)
	})

	return r
}

package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/nivkatz/toystore/internal/auth"
	"github.com/nivkatz/toystore/internal/handlers"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	toyHandler *handlers.ToyHandler,
	userHandler *handlers.UserHandler,
	validator auth.SessionValidator,
) {
	// Session claims are resolved once per request; guards compose below.
	router.Use(auth.WithSession(validator))

	// Credential endpoints are rate limited per client IP.
	authRateLimit := httprate.LimitByIP(10, 1*time.Minute)

	router.Route("/api/auth", func(r chi.Router) {
		r.With(authRateLimit).Post("/login", authHandler.Login)
		r.With(authRateLimit).Post("/signup", authHandler.Signup)
		r.Post("/logout", authHandler.Logout)
	})

	router.Route("/api/toy", func(r chi.Router) {
		r.Get("/", toyHandler.ListToys)
		r.Get("/{id}", toyHandler.GetToy)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Post("/", toyHandler.CreateToy)
			r.Put("/{id}", toyHandler.UpdateToy)
			r.Post("/{id}/msg", toyHandler.AddMsg)

			// Admin-only mutations; auth is checked first, so anonymous
			// callers get 401 rather than 403.
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)

				r.Delete("/{id}", toyHandler.DeleteToy)
				r.Delete("/{id}/msg/{msgId}", toyHandler.RemoveMsg)
			})
		})
	})

	router.Route("/api/user", func(r chi.Router) {
		r.Get("/", userHandler.ListUsers)
		r.Get("/{id}", userHandler.GetUser)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Put("/{id}", userHandler.UpdateUser)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)

				r.Delete("/{id}", userHandler.DeleteUser)
			})
		})
	})
}

package auth

import (
	"net/http"

	"github.com/InkwellLabs/Inkwell-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the auth endpoints. Login sits outside the bearer
// middleware; everything else requires a valid session.
func SetupRoutes(svc *Service, loginLimit func(http.Handler) http.Handler) http.Handler {
	h := NewHandlers(svc)
	r := chi.NewRouter()

	r.With(loginLimit).Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(svc))
		r.Get("/me", h.Me)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
		r.Post("/password", h.UpdatePassword)

		r.With(middleware.RequireAdmin).Post("/users", h.CreateUser)
	})

	return r
}

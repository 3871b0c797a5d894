package content

import (
	"github.com/InkwellLabs/Inkwell-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts CRUD endpoints for every registered resource on the
// parent router, all behind the bearer middleware.
func RegisterRoutes(r chi.Router, validator middleware.TokenValidator) {
	for _, d := range Resources {
		c := NewController(d)
		r.Route("/"+d.Path, func(sr chi.Router) {
			sr.Use(middleware.BearerAuth(validator))
			sr.Get("/", c.List)
			sr.Post("/", c.Create)
			sr.Get("/{idOrSlug}", c.Get)
			sr.Put("/{idOrSlug}", c.Update)
			sr.Delete("/{idOrSlug}", c.Delete)
		})
	}
}

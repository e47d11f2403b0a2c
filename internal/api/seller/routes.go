package seller

import (
	"net/http"

	dbseller "com.martdev.sellerhub/internal/database/seller"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/seller", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/activation", h.activation)
		r.Post("/signin", h.signin)

		r.Get("/update-access-token", h.RefreshAccessToken(http.HandlerFunc(h.me)).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticated)
			r.Use(h.RestrictTo(dbseller.RoleSeller))
			r.Post("/logout", h.logout)
			r.Get("/me", h.me)
		})
	})
}

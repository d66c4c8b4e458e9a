package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler, resolver IdentityResolver) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.Health)

		r.Group(func(r chi.Router) {
			r.Use(ResolveIdentity(resolver))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", handler.GetCart)
				r.Post("/add", handler.AddToCart)
				r.Put("/update", handler.UpdateCartItem)
				r.Delete("/remove", handler.RemoveCartItem)
				r.Delete("/clear", handler.ClearCart)
				r.Post("/merge", handler.MergeCart)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Use(RequireAccount)

				r.Post("/checkout", handler.Checkout)
				r.Get("/my-orders", handler.MyOrders)
				r.Get("/{id}", handler.GetOrderByID)
			})
		})
	})

	return r
}

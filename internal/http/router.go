package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the full HTTP surface.
func NewRouter(cart *CartHandler, products *ProductHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Backend is running"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cart.GetCart)
		r.Post("/add", cart.AddItem)
		r.Post("/remove", cart.RemoveItem)
		r.Post("/clear", cart.ClearCart)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", products.ListProducts)
		r.Get("/{id}", products.GetProduct)
		r.Post("/", products.CreateProduct)
	})

	return r
}

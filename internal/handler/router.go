package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	custommiddleware "github.com/mmeshcher/printshop-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса фотосалона.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/products", h.GetProducts)
			r.Post("/products", h.ReplaceProducts)
			r.Post("/products/new", h.CreateProduct)
			r.Patch("/products/{id}", h.UpdateProduct)
			r.Delete("/products/{id}", h.DeleteProduct)

			r.Get("/orders", h.GetOrders)
			r.Post("/orders", h.ReplaceOrders)
			r.Post("/orders/new", h.PlaceOrder)
			r.Post("/orders/{id}/settle", h.SettleOrder)
			r.Delete("/orders/{id}", h.DeleteOrder)

			r.Get("/stats", h.GetStats)
			r.Get("/export/orders.csv", h.ExportOrdersCSV)

			r.Post("/send-sms", h.SendSMS)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}

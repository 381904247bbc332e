// Package handler exposes the POS core over a JSON HTTP API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deltabyte/ristora/internal/domain/discount"
	"github.com/deltabyte/ristora/internal/domain/menu"
	"github.com/deltabyte/ristora/internal/domain/order"
	"github.com/deltabyte/ristora/internal/session"
)

// Handler carries the dependencies for all API routes.
type Handler struct {
	menu      menu.Repository
	vouchers  discount.VoucherRepository
	loyals    discount.LoyalRepository
	orders    order.Repository
	sessions  *session.Store
	finalizer *order.Finalizer
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	menuRepo menu.Repository,
	vouchers discount.VoucherRepository,
	loyals discount.LoyalRepository,
	orders order.Repository,
	sessions *session.Store,
	finalizer *order.Finalizer,
) *Handler {
	return &Handler{
		menu:      menuRepo,
		vouchers:  vouchers,
		loyals:    loyals,
		orders:    orders,
		sessions:  sessions,
		finalizer: finalizer,
	}
}

// Routes builds the API router. The caller mounts it under /api. Middlewares
// passed here run inside the router and can see the matched route pattern.
func (h *Handler) Routes(mws ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	for _, mw := range mws {
		r.Use(mw)
	}

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", h.listMenu)
		r.Post("/", h.createMenuItem)
		r.Get("/{id}", h.getMenuItem)
		r.Put("/{id}", h.updateMenuItem)
		r.Delete("/{id}", h.deleteMenuItem)
	})

	r.Route("/carts", func(r chi.Router) {
		r.Post("/", h.createCart)
		r.Route("/{cartID}", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Delete("/", h.clearCart)
			r.Post("/items", h.addItem)
			r.Put("/items/{menuItemID}", h.setQuantity)
			r.Delete("/items/{menuItemID}", h.removeItem)
			r.Put("/customer", h.setCustomer)
			r.Post("/loyal-check", h.checkLoyal)
			r.Post("/voucher", h.applyVoucher)
			r.Delete("/voucher", h.removeVoucher)
			r.Post("/manual-discount", h.applyManual)
			r.Delete("/manual-discount", h.removeManual)
			r.Post("/checkout", h.checkout)
		})
	})

	r.Get("/orders", h.listOrders)

	r.Get("/vouchers", h.listVouchers)
	r.Post("/vouchers", h.createVoucher)
	r.Get("/loyal-discounts", h.listLoyalDiscounts)
	r.Post("/loyal-discounts", h.createLoyalDiscount)

	return r
}

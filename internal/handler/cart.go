package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/deltabyte/ristora/internal/domain/cart"
	"github.com/deltabyte/ristora/internal/domain/discount"
	"github.com/deltabyte/ristora/internal/domain/menu"
	"github.com/deltabyte/ristora/internal/domain/order"
	"github.com/deltabyte/ristora/internal/domain/pricing"
)

type lineItemResponse struct {
	MenuItemID string `json:"id"`
	Name       string `json:"name"`
	UnitPrice  string `json:"unitPrice"`
	Quantity   int    `json:"quantity"`
}

type cartResponse struct {
	ID             string             `json:"id"`
	Items          []lineItemResponse `json:"items"`
	Subtotal       string             `json:"subtotal"`
	DiscountAmount string             `json:"discountAmount"`
	Total          string             `json:"total"`
	Variant        string             `json:"discountVariant"`
	VoucherCode    string             `json:"voucherCode,omitempty"`
	LoyalMobile    string             `json:"loyalMobile,omitempty"`
	ManualType     string             `json:"manualDiscountType,omitempty"`
	ManualValue    string             `json:"manualDiscountValue,omitempty"`
	CustomerName   string             `json:"customerName,omitempty"`
	CustomerMobile string             `json:"customerMobile,omitempty"`
	// Notice carries a non-fatal outcome of the triggering operation, e.g. a
	// voucher rejection reason or a stale-lookup discard.
	Notice string `json:"notice,omitempty"`
}

func toCartResponse(id string, snap cart.Snapshot, notice string) cartResponse {
	items := make([]lineItemResponse, len(snap.Items))
	for i, it := range snap.Items {
		items[i] = lineItemResponse{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			UnitPrice:  it.UnitPrice.StringFixed(2),
			Quantity:   it.Quantity,
		}
	}

	resp := cartResponse{
		ID:             id,
		Items:          items,
		Subtotal:       snap.Totals.Subtotal.StringFixed(2),
		DiscountAmount: snap.Totals.Discount.StringFixed(2),
		Total:          snap.Totals.Total.StringFixed(2),
		Variant:        string(snap.Active.Variant()),
		CustomerName:   snap.CustomerName,
		CustomerMobile: snap.CustomerMobile,
		Notice:         notice,
	}
	switch snap.Active.Variant() {
	case pricing.VariantLoyal:
		resp.LoyalMobile = snap.Active.Loyal.Mobile
	case pricing.VariantVoucher:
		resp.VoucherCode = snap.Active.Voucher.Code
	case pricing.VariantManual:
		resp.ManualType = string(snap.Active.Manual.Type)
		resp.ManualValue = snap.Active.Manual.Value.StringFixed(2)
	}
	return resp
}

// session resolves the cart session from the URL, writing 404 when it is
// unknown or already swept.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, *cart.Session, bool) {
	id := chi.URLParam(r, "cartID")
	sess, ok := h.sessions.Get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "cart not found")
	}
	return id, sess, ok
}

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	id, sess := h.sessions.Create()
	writeJSON(w, r, http.StatusCreated, toCartResponse(id, sess.Snapshot(), ""))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, toCartResponse(id, sess.Snapshot(), ""))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Clear()
	writeJSON(w, r, http.StatusOK, toCartResponse(id, sess.Snapshot(), ""))
}

type addItemRequest struct {
	MenuItemID string `json:"menuItemId"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.menu.GetByID(r.Context(), req.MenuItemID)
	if err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			writeError(w, r, http.StatusUnprocessableEntity, "menu item not found")
			return
		}
		writeUpstreamError(w, r, err)
		return
	}

	sess.AddItem(*item)
	writeJSON(w, r, http.StatusOK, toCartResponse(id, sess.Snapshot(), ""))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req setQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess.SetQuantity(chi.URLParam(r, "menuItemID"), req.Quantity)
	writeJSON(w, r, http.StatusOK, toCartResponse(id, sess.Snapshot(), ""))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.RemoveItem(chi.URLParam(r, "menuItemID"))
	writeJSON(w, r, http.StatusOK, toCartResponse(id, sess.Snapshot(), ""))
}

type customerRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

func (h *Handler) setCustomer(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req customerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess.SetCustomer(req.Name, req.Mobile)
	writeJSON(w, r, http.StatusOK, toCartResponse(id, sess.Snapshot(), ""))
}

type loyalCheckRequest struct {
	Mobile string `json:"mobile"`
}

func (h *Handler) checkLoyal(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req loyalCheckRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := sess.CheckLoyal(r.Context(), req.Mobile)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	notice := ""
	switch {
	case res.Stale:
		notice = "cart changed during the lookup, result discarded"
	case res.Applied:
		notice = "loyal customer discount applied"
	case res.Cleared:
		notice = "loyal customer discount removed"
	}
	writeJSON(w, r, http.StatusOK, toCartResponse(id, sess.Snapshot(), notice))
}

type voucherRequest struct {
	Code string `json:"code"`
}

func (h *Handler) applyVoucher(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req voucherRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := sess.ApplyVoucher(r.Context(), req.Code)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	if res.Rejection != nil {
		writeError(w, r, http.StatusUnprocessableEntity, res.Rejection.Reason)
		return
	}

	notice := ""
	if res.Stale {
		notice = "cart changed during validation, voucher not applied"
	}
	writeJSON(w, r, http.StatusOK, toCartResponse(id, sess.Snapshot(), notice))
}

func (h *Handler) removeVoucher(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.RemoveVoucher()
	writeJSON(w, r, http.StatusOK, toCartResponse(id, sess.Snapshot(), ""))
}

type manualDiscountRequest struct {
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

func (h *Handler) applyManual(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req manualDiscountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := sess.ApplyManual(discount.Type(req.Type), req.Value); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, toCartResponse(id, sess.Snapshot(), ""))
}

func (h *Handler) removeManual(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.RemoveManual()
	writeJSON(w, r, http.StatusOK, toCartResponse(id, sess.Snapshot(), ""))
}

type checkoutResponse struct {
	OrderID        string             `json:"orderId,omitempty"`
	Token          string             `json:"token"`
	Items          []lineItemResponse `json:"items"`
	Subtotal       string             `json:"subtotal"`
	DiscountAmount string             `json:"discountAmount"`
	Total          string             `json:"total"`
	Persisted      bool               `json:"persisted"`
	Warning        string             `json:"warning,omitempty"`
}

// checkout finalizes the cart into an order. The cart is intentionally not
// cleared here: the terminal clears it after the receipt prints, keeping the
// two side effects separately orderable.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := h.session(w, r)
	if !ok {
		return
	}

	res, err := h.finalizer.Finalize(r.Context(), sess.Snapshot())
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			writeError(w, r, http.StatusUnprocessableEntity, "cart is empty")
			return
		}
		writeUpstreamError(w, r, err)
		return
	}

	o := res.Order
	items := make([]lineItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = lineItemResponse{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			UnitPrice:  it.UnitPrice.StringFixed(2),
			Quantity:   it.Quantity,
		}
	}

	writeJSON(w, r, http.StatusOK, checkoutResponse{
		OrderID:        o.ID,
		Token:          o.Token,
		Items:          items,
		Subtotal:       o.Subtotal.StringFixed(2),
		DiscountAmount: o.DiscountAmount.StringFixed(2),
		Total:          o.Total.StringFixed(2),
		Persisted:      res.Persisted,
		Warning:        res.Warning,
	})
}

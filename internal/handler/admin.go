package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/deltabyte/ristora/internal/domain/discount"
	"github.com/deltabyte/ristora/internal/domain/order"
	"github.com/deltabyte/ristora/internal/domain/pricing"
)

type voucherResponse struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	Type           string `json:"type"`
	Value          string `json:"value"`
	MinOrderAmount string `json:"minOrderAmount,omitempty"`
	ValidFrom      string `json:"validFrom,omitempty"`
	ValidUntil     string `json:"validUntil,omitempty"`
	UsageLimit     int    `json:"usageLimit,omitempty"`
	TimesUsed      int    `json:"timesUsed"`
	Active         bool   `json:"active"`
}

func toVoucherResponse(v discount.Voucher) voucherResponse {
	resp := voucherResponse{
		ID:         v.ID,
		Code:       v.Code,
		Type:       string(v.Type),
		Value:      v.Value.StringFixed(2),
		UsageLimit: v.UsageLimit,
		TimesUsed:  v.TimesUsed,
		Active:     v.Active,
	}
	if v.MinOrderAmount != nil {
		resp.MinOrderAmount = v.MinOrderAmount.StringFixed(2)
	}
	if v.ValidFrom != nil {
		resp.ValidFrom = v.ValidFrom.Format("2006-01-02")
	}
	if v.ValidUntil != nil {
		resp.ValidUntil = v.ValidUntil.Format("2006-01-02")
	}
	return resp
}

func (h *Handler) listVouchers(w http.ResponseWriter, r *http.Request) {
	vouchers, err := h.vouchers.List(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	out := make([]voucherResponse, len(vouchers))
	for i, v := range vouchers {
		out[i] = toVoucherResponse(v)
	}
	writeJSON(w, r, http.StatusOK, out)
}

type createVoucherRequest struct {
	Code           string           `json:"code"`
	Type           string           `json:"type"`
	Value          decimal.Decimal  `json:"value"`
	MinOrderAmount *decimal.Decimal `json:"minOrderAmount"`
	ValidFrom      string           `json:"validFrom"`
	ValidUntil     string           `json:"validUntil"`
	UsageLimit     int              `json:"usageLimit"`
	Active         *bool            `json:"active"`
}

func (h *Handler) createVoucher(w http.ResponseWriter, r *http.Request) {
	var req createVoucherRequest
	if !decodeBody(w, r, &req) {
		return
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "code is required")
		return
	}
	typ := discount.Type(req.Type)
	if err := discount.CheckValue(typ, req.Value); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.UsageLimit < 0 {
		writeError(w, r, http.StatusUnprocessableEntity, "usage limit must not be negative")
		return
	}

	v := discount.Voucher{
		ID:             uuid.New().String(),
		Code:           code,
		Type:           typ,
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		UsageLimit:     req.UsageLimit,
		Active:         true,
	}
	if req.Active != nil {
		v.Active = *req.Active
	}

	var ok bool
	if v.ValidFrom, ok = parseDay(w, r, req.ValidFrom, "validFrom"); !ok {
		return
	}
	if v.ValidUntil, ok = parseDay(w, r, req.ValidUntil, "validUntil"); !ok {
		return
	}

	if err := h.vouchers.Create(r.Context(), &v); err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toVoucherResponse(v))
}

func parseDay(w http.ResponseWriter, r *http.Request, value, field string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, field+" must be a YYYY-MM-DD date")
		return nil, false
	}
	return &t, true
}

type loyalDiscountResponse struct {
	ID           string `json:"id"`
	Mobile       string `json:"mobileNumber"`
	CustomerName string `json:"customerName,omitempty"`
	Type         string `json:"type"`
	Value        string `json:"value"`
	Active       bool   `json:"active"`
}

func toLoyalDiscountResponse(d discount.LoyalDiscount) loyalDiscountResponse {
	return loyalDiscountResponse{
		ID:           d.ID,
		Mobile:       d.Mobile,
		CustomerName: d.CustomerName,
		Type:         string(d.Type),
		Value:        d.Value.StringFixed(2),
		Active:       d.Active,
	}
}

func (h *Handler) listLoyalDiscounts(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.loyals.List(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	out := make([]loyalDiscountResponse, len(discounts))
	for i, d := range discounts {
		out[i] = toLoyalDiscountResponse(d)
	}
	writeJSON(w, r, http.StatusOK, out)
}

type createLoyalDiscountRequest struct {
	Mobile       string          `json:"mobileNumber"`
	CustomerName string          `json:"customerName"`
	Type         string          `json:"type"`
	Value        decimal.Decimal `json:"value"`
	Active       *bool           `json:"active"`
}

func (h *Handler) createLoyalDiscount(w http.ResponseWriter, r *http.Request) {
	var req createLoyalDiscountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	mobile := strings.TrimSpace(req.Mobile)
	if mobile == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "mobile number is required")
		return
	}
	typ := discount.Type(req.Type)
	if err := discount.CheckValue(typ, req.Value); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	d := discount.LoyalDiscount{
		ID:           uuid.New().String(),
		Mobile:       mobile,
		CustomerName: req.CustomerName,
		Type:         typ,
		Value:        req.Value,
		Active:       true,
	}
	if req.Active != nil {
		d.Active = *req.Active
	}

	if err := h.loyals.Create(r.Context(), &d); err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toLoyalDiscountResponse(d))
}

type orderResponse struct {
	ID             string             `json:"id"`
	Token          string             `json:"token"`
	Items          []lineItemResponse `json:"items"`
	Subtotal       string             `json:"subtotal"`
	DiscountAmount string             `json:"discountAmount"`
	Total          string             `json:"total"`
	CustomerName   string             `json:"customerName,omitempty"`
	CustomerMobile string             `json:"customerMobile,omitempty"`
	OrderDate      string             `json:"orderDate"`
	Variant        string             `json:"discountVariant"`
	VoucherCode    string             `json:"appliedVoucherCode,omitempty"`
	LoyalMobile    string             `json:"appliedLoyalMobile,omitempty"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func toOrderResponse(o order.Order) orderResponse {
	items := make([]lineItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = lineItemResponse{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			UnitPrice:  it.UnitPrice.StringFixed(2),
			Quantity:   it.Quantity,
		}
	}

	resp := orderResponse{
		ID:             o.ID,
		Token:          o.Token,
		Items:          items,
		Subtotal:       o.Subtotal.StringFixed(2),
		DiscountAmount: o.DiscountAmount.StringFixed(2),
		Total:          o.Total.StringFixed(2),
		CustomerName:   o.CustomerName,
		CustomerMobile: o.CustomerMobile,
		OrderDate:      o.PlacedAt.Format(time.RFC3339),
		Variant:        string(pricing.VariantNone),
	}
	switch {
	case o.Loyal != nil:
		resp.Variant = string(pricing.VariantLoyal)
		resp.LoyalMobile = o.Loyal.Mobile
	case o.Voucher != nil:
		resp.Variant = string(pricing.VariantVoucher)
		resp.VoucherCode = o.Voucher.Code
	case o.Manual != nil:
		resp.Variant = string(pricing.VariantManual)
	}
	return resp
}

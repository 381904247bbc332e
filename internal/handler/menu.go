package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/deltabyte/ristora/internal/domain/menu"
)

type menuItemResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Price  string `json:"price"`
	Image  string `json:"image,omitempty"`
	Active bool   `json:"active"`
}

func toMenuItemResponse(item menu.Item) menuItemResponse {
	return menuItemResponse{
		ID:     item.ID,
		Name:   item.Name,
		Price:  item.Price.StringFixed(2),
		Image:  item.Image,
		Active: item.Active,
	}
}

type menuItemRequest struct {
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Active *bool           `json:"active"`
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	out := make([]menuItemResponse, len(items))
	for i, item := range items {
		out[i] = toMenuItemResponse(item)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.menu.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "menu item not found")
			return
		}
		writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toMenuItemResponse(*item))
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "name is required")
		return
	}
	if req.Price.IsNegative() {
		writeError(w, r, http.StatusUnprocessableEntity, "price must not be negative")
		return
	}

	item := menu.Item{
		ID:     uuid.New().String(),
		Name:   req.Name,
		Price:  req.Price,
		Image:  req.Image,
		Active: true,
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := h.menu.Create(r.Context(), &item); err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toMenuItemResponse(item))
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "name is required")
		return
	}
	if req.Price.IsNegative() {
		writeError(w, r, http.StatusUnprocessableEntity, "price must not be negative")
		return
	}

	item := menu.Item{
		ID:     chi.URLParam(r, "id"),
		Name:   req.Name,
		Price:  req.Price,
		Image:  req.Image,
		Active: true,
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := h.menu.Update(r.Context(), &item); err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "menu item not found")
			return
		}
		writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toMenuItemResponse(item))
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, menu.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "menu item not found")
			return
		}
		writeUpstreamError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

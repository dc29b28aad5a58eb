package handler

import (
	"net/http"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/port/http/middleware"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/service"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cart service.CartService
	log  logger.Logger
}

func NewCartHandler(cart service.CartService, log logger.Logger) *CartHandler {
	return &CartHandler{cart: cart, log: log}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	priced, err := h.cart.GetCart(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, priced)
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	priced, err := h.cart.AddItem(r.Context(), middleware.UserID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, priced)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	priced, err := h.cart.UpdateItemQuantity(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, priced)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	priced, err := h.cart.RemoveItem(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, priced)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context(), middleware.UserID(r.Context())); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

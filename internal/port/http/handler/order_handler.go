package handler

import (
	"net/http"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/port/http/middleware"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orders service.OrderService
	log    logger.Logger
}

func NewOrderHandler(orders service.OrderService, log logger.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

type checkoutRequest struct {
	Note string `json:"note"`
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	order, err := h.orders.Checkout(r.Context(), middleware.UserID(r.Context()), req.Note)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	order, err := h.orders.GetOrder(ctx, chi.URLParam(r, "orderID"), middleware.UserID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.orders.ListUserOrders(r.Context(), middleware.UserID(r.Context()),
		r.URL.Query().Get("status"), queryInt(r, "page", 1), queryInt(r, "page_size", 20))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *OrderHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	result, err := h.orders.ListAllOrders(r.Context(), repository.ListOrdersParams{
		UserID:   r.URL.Query().Get("user_id"),
		Status:   r.URL.Query().Get("status"),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", 20),
		SortBy:   r.URL.Query().Get("sort_by"),
		SortDir:  r.URL.Query().Get("sort_dir"),
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Approve(r.Context(), chi.URLParam(r, "orderID"), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	order, err := h.orders.Reject(r.Context(), chi.URLParam(r, "orderID"), middleware.UserID(r.Context()), req.Reason)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) MarkReady(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.MarkReadyForPickup(r.Context(), chi.URLParam(r, "orderID"), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Complete(r.Context(), chi.URLParam(r, "orderID"), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type modifyOrderRequest struct {
	Quantities map[string]int `json:"quantities"`
	Note       string         `json:"note"`
}

func (h *OrderHandler) Modify(w http.ResponseWriter, r *http.Request) {
	var req modifyOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.orders.ModifyItems(r.Context(), chi.URLParam(r, "orderID"), middleware.UserID(r.Context()), req.Quantities, req.Note)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Confirm(r.Context(), chi.URLParam(r, "orderID"), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) AcceptModifications(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.AcceptModifications(r.Context(), chi.URLParam(r, "orderID"), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) RejectModifications(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	order, err := h.orders.RejectModifications(r.Context(), chi.URLParam(r, "orderID"), middleware.UserID(r.Context()), req.Reason)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	ctx := r.Context()
	order, err := h.orders.Cancel(ctx, chi.URLParam(r, "orderID"), middleware.UserID(ctx), middleware.IsAdmin(ctx), req.Reason)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

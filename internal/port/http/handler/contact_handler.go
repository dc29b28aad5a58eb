package handler

import (
	"net/http"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/service"
)

type ContactHandler struct {
	contact service.ContactService
	log     logger.Logger
}

func NewContactHandler(contact service.ContactService, log logger.Logger) *ContactHandler {
	return &ContactHandler{contact: contact, log: log}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	message, err := h.contact.Submit(r.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

type contactListResponse struct {
	Messages   interface{} `json:"messages"`
	TotalCount int64       `json:"total_count"`
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, total, err := h.contact.List(r.Context(), queryInt(r, "page", 1), queryInt(r, "page_size", 20))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, contactListResponse{Messages: messages, TotalCount: total})
}

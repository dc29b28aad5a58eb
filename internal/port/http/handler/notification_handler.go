package handler

import (
	"net/http"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/port/http/middleware"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/service"
	"github.com/go-chi/chi/v5"
)

type NotificationHandler struct {
	notifications service.NotificationService
	log           logger.Logger
}

func NewNotificationHandler(notifications service.NotificationService, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, log: log}
}

// owner resolves whose inbox is addressed: admins asking for the admin
// inbox use the empty owner ID.
func owner(r *http.Request) (ownerID string, adminInbox bool) {
	ctx := r.Context()
	if middleware.IsAdmin(ctx) && r.URL.Query().Get("inbox") == "admin" {
		return "", true
	}
	return middleware.UserID(ctx), false
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, adminInbox := owner(r)
	result, err := h.notifications.List(r.Context(), ownerID, adminInbox,
		r.URL.Query().Get("unread") == "true", queryInt(r, "page", 1), queryInt(r, "page_size", 20))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := owner(r)
	if err := h.notifications.MarkRead(r.Context(), chi.URLParam(r, "notificationID"), ownerID); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := owner(r)
	if err := h.notifications.MarkAllRead(r.Context(), ownerID); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := owner(r)
	count, err := h.notifications.UnreadCount(r.Context(), ownerID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

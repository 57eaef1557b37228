package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripwise/tripwise/internal/api/response"
	"github.com/tripwise/tripwise/internal/notification"
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	service *notification.Service
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *notification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListNotifications handles GET /v1/notifications.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.service.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to list notifications")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// UnreadCount handles GET /v1/notifications/unread-count.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to count notifications")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// MarkRead handles POST /v1/notifications/{notificationId}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	err := h.service.MarkRead(r.Context(), userID, chi.URLParam(r, "notificationId"))
	if err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			response.NotFound(w, r, "notification not found")
			return
		}
		response.InternalError(w, r, "failed to mark notification read")
		return
	}
	response.NoContent(w, r)
}

// MarkAllRead handles POST /v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		response.InternalError(w, r, "failed to mark notifications read")
		return
	}
	response.NoContent(w, r)
}

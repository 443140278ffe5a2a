package handler

import (
	"net/http"

	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"go.uber.org/zap"
)

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler instance
func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List godoc
// @Summary List notifications
// @Description Notifications of the current user, newest first
// @Tags Notifications
// @Produce json
// @Param unreadOnly query bool false "Only unread notifications" default(false)
// @Success 200 {array} domain.Notification
// @Failure 401 {object} domain.APIError
// @Security UserHeaders
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"

	notifications, err := h.notificationService.GetForCurrentUser(r.Context(), unreadOnly)
	if err != nil {
		respondServiceError(w, h.logger, err, "list notifications")
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}

// GetUnreadCount godoc
// @Summary Get unread notification count
// @Tags Notifications
// @Produce json
// @Success 200 {object} domain.UnreadCountDTO
// @Failure 401 {object} domain.APIError
// @Security UserHeaders
// @Router /notifications/count [get]
func (h *NotificationHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationService.GetUnreadCount(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "get unread count")
		return
	}
	respondJSON(w, http.StatusOK, count)
}

// MarkAsRead godoc
// @Summary Mark notification as read
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} domain.Notification
// @Failure 403 {object} domain.APIError "Notification belongs to another user"
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	notification, err := h.notificationService.MarkAsRead(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "mark notification as read")
		return
	}
	respondJSON(w, http.StatusOK, notification)
}

// MarkAllAsRead godoc
// @Summary Mark all notifications as read
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 401 {object} domain.APIError
// @Security UserHeaders
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	marked, err := h.notificationService.MarkAllAsRead(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "mark notifications as read")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"marked": marked})
}

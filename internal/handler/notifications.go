package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mulleragustin/laqueva/internal/queue"
)

// NotificationHandler exposes the pending-order watcher to the admin panel.
// The panel arms it on the operator's first interaction and refreshes it on
// manual reloads.
type NotificationHandler struct {
	watcher *queue.Watcher
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(watcher *queue.Watcher) *NotificationHandler {
	return &NotificationHandler{watcher: watcher}
}

// RegisterRoutes registers notification endpoints on an admin-authenticated
// router group.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/notifications/arm", h.Arm)
	r.Post("/notifications/disarm", h.Disarm)
	r.Post("/notifications/refresh", h.Refresh)
}

type notificationStateResponse struct {
	Armed        bool  `json:"armed"`
	PendingCount int64 `json:"pending_count,omitempty"`
}

// Arm handles POST /admin/notifications/arm.
func (h *NotificationHandler) Arm(w http.ResponseWriter, r *http.Request) {
	h.watcher.Arm()
	writeJSON(w, http.StatusOK, notificationStateResponse{Armed: true})
}

// Disarm handles POST /admin/notifications/disarm.
func (h *NotificationHandler) Disarm(w http.ResponseWriter, r *http.Request) {
	h.watcher.Disarm()
	writeJSON(w, http.StatusOK, notificationStateResponse{Armed: false})
}

// Refresh handles POST /admin/notifications/refresh. It re-syncs the
// watcher baseline without firing a notification and returns the current
// pending count.
func (h *NotificationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	count, err := h.watcher.Refresh(r.Context())
	if err != nil {
		log.Printf("ERROR: refresh pending count: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to refresh pending count"})
		return
	}
	writeJSON(w, http.StatusOK, notificationStateResponse{
		Armed:        h.watcher.Armed(),
		PendingCount: count,
	})
}

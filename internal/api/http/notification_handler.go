package http

import (
	"net/http"

	"renthub-backend/internal/service"
)

type NotificationHandler struct {
	notes service.NotificationService
}

func NewNotificationHandler(notes service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notes: notes}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	notes, count, err := h.notes.List(r.Context(), callerID(r), page, pageSize)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"notifications": notes, "total_count": count})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.notes.MarkAsRead(r.Context(), callerID(r), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package handlers

import (
	"net/http"
	"strconv"

	"pawsconnect/internal/domain"
)

func (a *App) NotificationsList(w http.ResponseWriter, r *http.Request) {
	limit, _, ok := pageParams(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid pagination")
		return
	}
	unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

	items, err := a.Notifications.ListForUser(r.Context(), a.currentUserID(r), unread, limit)
	if err != nil {
		a.internalError(w, r, "Failed to load notifications", err)
		return
	}
	if items == nil {
		items = []domain.Notification{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) NotificationsMarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}
	err := a.Notifications.MarkRead(r.Context(), a.currentUserID(r), id)
	if isNotFound(err) {
		a.error(w, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		a.internalError(w, r, "Failed to update notification", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

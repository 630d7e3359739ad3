package handlers

import (
	"net/http"
	"strconv"

	"pawsconnect/internal/domain"
)

type viewersRequest struct {
	MessageIDs []int64 `json:"message_ids"`
}

func (a *App) ChatMarkViewed(w http.ResponseWriter, r *http.Request) {
	var req viewersRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ids := uniqueIDs(req.MessageIDs)
	if len(ids) == 0 || len(ids) > domain.MaxViewerBatch {
		a.error(w, http.StatusBadRequest, "message_ids must contain between 1 and 200 ids")
		return
	}

	marked, err := a.Chat.MarkViewed(r.Context(), a.currentUserID(r), ids)
	if err != nil {
		a.internalError(w, r, "Failed to mark messages viewed", err)
		return
	}
	a.json(w, http.StatusOK, map[string]int64{"marked": marked})
}

func (a *App) ChatViewers(w http.ResponseWriter, r *http.Request) {
	messageID, err := strconv.ParseInt(r.URL.Query().Get("message_id"), 10, 64)
	if err != nil || messageID <= 0 {
		a.error(w, http.StatusBadRequest, "Invalid message ID")
		return
	}
	viewers, err := a.Chat.ListViewers(r.Context(), messageID)
	if err != nil {
		a.internalError(w, r, "Failed to load viewers", err)
		return
	}
	if viewers == nil {
		viewers = []domain.MessageViewer{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": viewers})
}

// uniqueIDs drops duplicates and non-positive ids, keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package domain

import "time"

// MessageViewer records that a user has seen a global chat message.
type MessageViewer struct {
	MessageID int64     `json:"message_id"`
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	ViewedAt  time.Time `json:"viewed_at"`
}

// MaxViewerBatch bounds one mark-as-viewed request.
const MaxViewerBatch = 200

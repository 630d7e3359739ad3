package repo

import (
	"context"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/infra"
	"pawsconnect/internal/sqlinline"
)

// NotificationRepositoryPG implements domain.NotificationRepository and
// stores in-app notifications for the outbox dispatcher.
type NotificationRepositoryPG struct {
	db infra.SQLExecutor
}

// NewNotificationRepository creates a new notification repository backed by PostgreSQL.
func NewNotificationRepository(db infra.SQLExecutor) *NotificationRepositoryPG {
	return &NotificationRepositoryPG{db: db}
}

// Store inserts an in-app notification. A second insert with the same
// idempotency key is ignored.
func (r *NotificationRepositoryPG) Store(ctx context.Context, key string, n domain.Notification) error {
	_, err := r.db.Exec(ctx, sqlinline.QInsertInAppNotification, n.UserID, n.Title, n.Body, n.DeepLink, key)
	return err
}

func (r *NotificationRepositoryPG) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListNotifications, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.DeepLink, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkRead marks one of the user's notifications as read. Notifications of
// other users are reported as not found.
func (r *NotificationRepositoryPG) MarkRead(ctx context.Context, userID string, id int64) error {
	tag, err := r.db.Exec(ctx, sqlinline.QMarkNotificationRead, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.NotificationRepository = (*NotificationRepositoryPG)(nil)

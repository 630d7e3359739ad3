package repo

import (
	"context"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/infra"
	"pawsconnect/internal/sqlinline"
)

// ChatRepositoryPG implements domain.ChatRepository.
type ChatRepositoryPG struct {
	db infra.SQLExecutor
}

// NewChatRepository creates a new chat repository backed by PostgreSQL.
func NewChatRepository(db infra.SQLExecutor) *ChatRepositoryPG {
	return &ChatRepositoryPG{db: db}
}

// MarkViewed records userID as a viewer of every listed message in one
// statement and returns how many new viewer rows were written.
func (r *ChatRepositoryPG) MarkViewed(ctx context.Context, userID string, messageIDs []int64) (int64, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx, sqlinline.QMarkMessagesViewed, userID, messageIDs)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ChatRepositoryPG) ListViewers(ctx context.Context, messageID int64) ([]domain.MessageViewer, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListMessageViewers, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	viewers := []domain.MessageViewer{}
	for rows.Next() {
		var v domain.MessageViewer
		if err := rows.Scan(&v.MessageID, &v.UserID, &v.FullName, &v.ViewedAt); err != nil {
			return nil, err
		}
		viewers = append(viewers, v)
	}
	return viewers, rows.Err()
}

var _ domain.ChatRepository = (*ChatRepositoryPG)(nil)

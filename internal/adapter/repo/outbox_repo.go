package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/infra"
	"pawsconnect/internal/sqlinline"
)

// enqueue writes one outbox job per channel of ev through q, which is
// normally the transaction that performed the state change. Jobs whose
// idempotency key already exists are skipped.
func enqueue(ctx context.Context, q infra.SQLExecutor, ev domain.Event) error {
	if ev.UserID == "" {
		return nil
	}
	params := ev.Params
	if params == nil {
		params = map[string]any{}
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode %s params: %w", ev.Kind, err)
	}
	for _, ch := range ev.Channels {
		if _, err := q.Exec(ctx, sqlinline.QEnqueueOutbox, ev.IdempotencyKey(ch), string(ch), string(ev.Kind), ev.UserID, ev.DeepLink, raw); err != nil {
			return fmt.Errorf("enqueue %s/%s: %w", ev.Kind, ch, err)
		}
	}
	return nil
}

// OutboxRepositoryPG implements domain.OutboxRepository.
type OutboxRepositoryPG struct {
	db infra.SQLExecutor
}

// NewOutboxRepository creates a new outbox repository backed by PostgreSQL.
func NewOutboxRepository(db infra.SQLExecutor) *OutboxRepositoryPG {
	return &OutboxRepositoryPG{db: db}
}

// Claim leases up to limit due jobs. A leased job becomes due again once the
// lease runs out, so a crashed worker never strands a delivery.
func (r *OutboxRepositoryPG) Claim(ctx context.Context, limit int, lease time.Duration) ([]domain.OutboxJob, error) {
	rows, err := r.db.Query(ctx, sqlinline.QClaimOutbox, limit, lease.Seconds())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.OutboxJob
	for rows.Next() {
		var job domain.OutboxJob
		var params []byte
		if err := rows.Scan(
			&job.ID,
			&job.IdempotencyKey,
			&job.Channel,
			&job.Kind,
			&job.UserID,
			&job.DeepLink,
			&params,
			&job.Attempts,
			&job.CreatedAt,
		); err != nil {
			return nil, err
		}
		job.Params = append(json.RawMessage(nil), params...)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkSent settles a delivered job.
func (r *OutboxRepositoryPG) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, sqlinline.QMarkOutboxSent, id)
	return err
}

// Retry releases a failed job for another attempt at the given time.
func (r *OutboxRepositoryPG) Retry(ctx context.Context, id int64, errMsg string, at time.Time) error {
	_, err := r.db.Exec(ctx, sqlinline.QRetryOutbox, id, errMsg, at)
	return err
}

// Bury marks a job as undeliverable.
func (r *OutboxRepositoryPG) Bury(ctx context.Context, id int64, errMsg string) error {
	_, err := r.db.Exec(ctx, sqlinline.QBuryOutbox, id, errMsg)
	return err
}

// RequeueDead resets every dead job for immediate delivery.
func (r *OutboxRepositoryPG) RequeueDead(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, sqlinline.QRequeueDeadOutbox)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ domain.OutboxRepository = (*OutboxRepositoryPG)(nil)

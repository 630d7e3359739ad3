package repo

import (
	"context"
	"fmt"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/infra"
	"pawsconnect/internal/sqlinline"
)

// CampaignRepositoryPG implements domain.CampaignRepository.
type CampaignRepositoryPG struct {
	db infra.DB
}

// NewCampaignRepository creates a new campaign repository backed by PostgreSQL.
func NewCampaignRepository(db infra.DB) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{db: db}
}

func (r *CampaignRepositoryPG) Create(ctx context.Context, in domain.NewCampaign) (*domain.Campaign, error) {
	images := in.Images
	if images == nil {
		images = []string{}
	}
	c, err := scanCampaign(r.db.QueryRow(ctx, sqlinline.QInsertCampaign,
		in.Title, in.Description, in.TargetAmount, in.CreatedBy, images, in.EndDate))
	if err != nil {
		return nil, fmt.Errorf("insert campaign: %w", err)
	}
	return &c, nil
}

func (r *CampaignRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRow(ctx, sqlinline.QSelectCampaignByID, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepositoryPG) List(ctx context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListCampaigns, string(filter.Status), filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Campaign, 0, filter.Limit)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// UpdateStatus applies an admin status change. The current status is read
// under lock so the transition check and the write see the same row.
func (r *CampaignRepositoryPG) UpdateStatus(ctx context.Context, id int64, next domain.CampaignStatus) (*domain.Campaign, error) {
	var updated domain.Campaign
	err := r.db.InTx(ctx, func(q infra.SQLExecutor) error {
		current, err := scanCampaign(q.QueryRow(ctx, sqlinline.QSelectCampaignForUpdate, id))
		if err != nil {
			if infra.IsNoRows(err) {
				return domain.ErrNotFound
			}
			return err
		}
		if !current.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, current.Status, next)
		}
		updated, err = scanCampaign(q.QueryRow(ctx, sqlinline.QUpdateCampaignStatus, id, string(next)))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Reconcile recomputes one campaign's raised amount from its donations.
func (r *CampaignRepositoryPG) Reconcile(ctx context.Context, id int64) (*domain.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRow(ctx, sqlinline.QReconcileCampaign, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reconcile campaign %d: %w", id, err)
	}
	return &c, nil
}

// ReconcileAll corrects every campaign whose cached total drifted and
// returns how many were changed.
func (r *CampaignRepositoryPG) ReconcileAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, sqlinline.QReconcileAllCampaigns)
	if err != nil {
		return 0, fmt.Errorf("reconcile campaigns: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ domain.CampaignRepository = (*CampaignRepositoryPG)(nil)

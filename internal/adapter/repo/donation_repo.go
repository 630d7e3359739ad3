package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/infra"
	"pawsconnect/internal/sqlinline"
)

const donationReferenceConstraint = "donations_reference_unique"

// DonationRepositoryPG implements domain.DonationRepository. Every write
// keeps the owning campaign's raised_amount in step within one transaction,
// holding the campaign row lock.
type DonationRepositoryPG struct {
	db infra.DB
}

// NewDonationRepository creates a new donation repository backed by PostgreSQL.
func NewDonationRepository(db infra.DB) *DonationRepositoryPG {
	return &DonationRepositoryPG{db: db}
}

// Create records a donation, adds it to the campaign total and enqueues the
// creator's notifications.
func (r *DonationRepositoryPG) Create(ctx context.Context, campaignID int64, in domain.NewDonation) (*domain.Donation, *domain.Campaign, error) {
	var (
		donation domain.Donation
		campaign domain.Campaign
	)
	err := r.db.InTx(ctx, func(q infra.SQLExecutor) error {
		current, err := scanCampaign(q.QueryRow(ctx, sqlinline.QSelectCampaignForUpdate, campaignID))
		if err != nil {
			if infra.IsNoRows(err) {
				return domain.ErrNotFound
			}
			return err
		}
		if !current.Status.AcceptsDonations() {
			return domain.ErrCampaignClosed
		}

		var donatedAt *time.Time
		if !in.DonatedAt.IsZero() {
			donatedAt = &in.DonatedAt
		}
		donation, err = scanDonation(q.QueryRow(ctx, sqlinline.QInsertDonation,
			in.Amount, campaignID, in.Donor, in.Message, donatedAt, in.Screenshot, in.IsAnonymous, in.ReferenceNumber))
		if err != nil {
			if infra.IsUniqueViolation(err, donationReferenceConstraint) {
				return domain.ErrDuplicateOperation
			}
			return &domain.StoreError{Op: domain.OpInsertDonation, Err: err}
		}

		campaign = current.WithDonation(in.Amount)
		if _, err := q.Exec(ctx, sqlinline.QUpdateCampaignTotals, campaign.ID, campaign.RaisedAmount, string(campaign.Status)); err != nil {
			return &domain.StoreError{Op: domain.OpUpdateCampaign, Err: err}
		}

		for _, ev := range donationEvents(current, campaign, donation) {
			if err := enqueue(ctx, q, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &donation, &campaign, nil
}

func donationEvents(before, after domain.Campaign, d domain.Donation) []domain.Event {
	owner := after.CreatedBy
	if owner == "" {
		return nil
	}
	link := fmt.Sprintf("pawsconnect://fundraising/%d", after.ID)
	var events []domain.Event
	if d.Donor == nil || *d.Donor != owner {
		events = append(events, domain.Event{
			Kind:     domain.EventDonationReceived,
			EntityID: strconv.FormatInt(d.ID, 10),
			UserID:   owner,
			DeepLink: link,
			Params: map[string]any{
				"campaign": after.Title,
				"amount":   d.Amount.StringFixed(2),
			},
			Channels: []domain.Channel{domain.ChannelInApp, domain.ChannelPush},
		})
	}
	if before.Status != domain.CampaignComplete && after.Status == domain.CampaignComplete {
		events = append(events, domain.Event{
			Kind:     domain.EventCampaignCompleted,
			EntityID: strconv.FormatInt(after.ID, 10),
			UserID:   owner,
			DeepLink: link,
			Params: map[string]any{
				"campaign": after.Title,
				"amount":   after.RaisedAmount.StringFixed(2),
			},
			Channels: []domain.Channel{domain.ChannelInApp, domain.ChannelPush, domain.ChannelEmail},
		})
	}
	return events
}

func (r *DonationRepositoryPG) ListByCampaign(ctx context.Context, campaignID int64, limit, offset int) ([]domain.Donation, error) {
	rows, err := r.db.Query(ctx, sqlinline.QListDonationsByCampaign, campaignID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Donation, 0, limit)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// Delete removes a donation and subtracts it from the campaign it references.
// Donations without a campaign reference are charged to campaignID. The
// donation row and then the campaign row are locked, guard (when set) vets the
// campaign, and any failure rolls both rows back.
//
// Errors: domain.ErrNotFound when the donation does not exist, the guard's
// error, or a *domain.StoreError naming the write that failed.
func (r *DonationRepositoryPG) Delete(ctx context.Context, campaignID, donationID int64, guard domain.CampaignGuard) (*domain.Campaign, error) {
	var campaign domain.Campaign
	err := r.db.InTx(ctx, func(q infra.SQLExecutor) error {
		donation, err := scanDonation(q.QueryRow(ctx, sqlinline.QSelectDonationForUpdate, donationID))
		if err != nil {
			if infra.IsNoRows(err) {
				return domain.ErrNotFound
			}
			return &domain.StoreError{Op: domain.OpDeleteDonation, Err: err}
		}

		target := donation.CampaignID(campaignID)
		current, err := scanCampaign(q.QueryRow(ctx, sqlinline.QSelectCampaignForUpdate, target))
		if err != nil {
			if infra.IsNoRows(err) {
				err = fmt.Errorf("campaign %d: %w", target, domain.ErrNotFound)
			}
			return &domain.StoreError{Op: domain.OpUpdateCampaign, Err: err}
		}
		if guard != nil {
			if err := guard(current); err != nil {
				return err
			}
		}

		if _, err := q.Exec(ctx, sqlinline.QDeleteDonation, donationID); err != nil {
			return &domain.StoreError{Op: domain.OpDeleteDonation, Err: err}
		}

		campaign = current.WithoutDonation(donation.Amount)
		if _, err := q.Exec(ctx, sqlinline.QUpdateCampaignTotals, campaign.ID, campaign.RaisedAmount, string(campaign.Status)); err != nil {
			return &domain.StoreError{Op: domain.OpUpdateCampaign, Err: err}
		}
		return nil
	})
	if err != nil {
		var storeErr *domain.StoreError
		if errors.Is(err, domain.ErrNotFound) && !errors.As(err, &storeErr) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

var _ domain.DonationRepository = (*DonationRepositoryPG)(nil)

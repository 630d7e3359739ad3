package repo

import (
	"context"
	"fmt"
	"strconv"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/infra"
	"pawsconnect/internal/sqlinline"
)

// CompetingApplicationReason is recorded on pending applications closed by
// the approval of another application for the same pet.
const CompetingApplicationReason = "Another application for this pet was approved."

// AdoptionRepositoryPG implements domain.AdoptionRepository.
type AdoptionRepositoryPG struct {
	db infra.DB
}

// NewAdoptionRepository creates a new adoption repository backed by PostgreSQL.
func NewAdoptionRepository(db infra.DB) *AdoptionRepositoryPG {
	return &AdoptionRepositoryPG{db: db}
}

func lockPendingAdoption(ctx context.Context, q infra.SQLExecutor, id int64) (domain.Adoption, error) {
	a, err := scanAdoption(q.QueryRow(ctx, sqlinline.QSelectAdoptionForUpdate, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return a, domain.ErrNotFound
		}
		return a, err
	}
	if a.Status != domain.AdoptionPending {
		return a, fmt.Errorf("%w: adoption %d is %s", domain.ErrInvalidTransition, id, a.Status)
	}
	return a, nil
}

// Reject closes a pending application with a reason and notifies the applicant.
func (r *AdoptionRepositoryPG) Reject(ctx context.Context, id int64, reason string) (*domain.Adoption, error) {
	var out domain.Adoption
	err := r.db.InTx(ctx, func(q infra.SQLExecutor) error {
		a, err := lockPendingAdoption(ctx, q, id)
		if err != nil {
			return err
		}
		if err := q.QueryRow(ctx, sqlinline.QUpdateAdoptionStatus, id, string(domain.AdoptionRejected), reason).Scan(&a.UpdatedAt); err != nil {
			return fmt.Errorf("reject adoption %d: %w", id, err)
		}
		a.Status = domain.AdoptionRejected
		a.RejectionReason = reason
		out = a
		return enqueue(ctx, q, adoptionEvent(a))
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Approve accepts a pending application, marks the pet adopted and rejects
// every other pending application for the same pet.
func (r *AdoptionRepositoryPG) Approve(ctx context.Context, id int64) (*domain.AdoptionDecision, error) {
	decision := &domain.AdoptionDecision{Rejected: []domain.Adoption{}}
	err := r.db.InTx(ctx, func(q infra.SQLExecutor) error {
		a, err := lockPendingAdoption(ctx, q, id)
		if err != nil {
			return err
		}
		if err := q.QueryRow(ctx, sqlinline.QUpdateAdoptionStatus, id, string(domain.AdoptionApproved), "").Scan(&a.UpdatedAt); err != nil {
			return fmt.Errorf("approve adoption %d: %w", id, err)
		}
		a.Status = domain.AdoptionApproved
		if _, err := q.Exec(ctx, sqlinline.QMarkPetAdopted, a.PetID); err != nil {
			return fmt.Errorf("mark pet %d adopted: %w", a.PetID, err)
		}

		rows, err := q.Query(ctx, sqlinline.QRejectCompetingAdoptions, a.PetID, a.ID, CompetingApplicationReason)
		if err != nil {
			return fmt.Errorf("reject competing applications: %w", err)
		}
		for rows.Next() {
			other := domain.Adoption{
				PetID:           a.PetID,
				PetName:         a.PetName,
				Status:          domain.AdoptionRejected,
				RejectionReason: CompetingApplicationReason,
			}
			if err := rows.Scan(&other.ID, &other.ApplicantID, &other.UpdatedAt); err != nil {
				rows.Close()
				return err
			}
			decision.Rejected = append(decision.Rejected, other)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		decision.Approved = a
		if err := enqueue(ctx, q, adoptionEvent(a)); err != nil {
			return err
		}
		for _, other := range decision.Rejected {
			if err := enqueue(ctx, q, adoptionEvent(other)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decision, nil
}

func adoptionEvent(a domain.Adoption) domain.Event {
	kind := domain.EventAdoptionRejected
	if a.Status == domain.AdoptionApproved {
		kind = domain.EventAdoptionApproved
	}
	params := map[string]any{"pet": a.PetName}
	if a.RejectionReason != "" {
		params["reason"] = a.RejectionReason
	}
	return domain.Event{
		Kind:     kind,
		EntityID: strconv.FormatInt(a.ID, 10),
		UserID:   a.ApplicantID,
		DeepLink: fmt.Sprintf("pawsconnect://adoption/%d", a.ID),
		Params:   params,
		Channels: []domain.Channel{domain.ChannelPush, domain.ChannelInApp, domain.ChannelEmail},
	}
}

var _ domain.AdoptionRepository = (*AdoptionRepositoryPG)(nil)

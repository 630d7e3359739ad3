package repo

import (
	"context"
	"fmt"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/infra"
	"pawsconnect/internal/sqlinline"
)

// ProfileRepositoryPG implements domain.ProfileRepository.
type ProfileRepositoryPG struct {
	db infra.DB
}

// NewProfileRepository creates a new profile repository backed by PostgreSQL.
func NewProfileRepository(db infra.DB) *ProfileRepositoryPG {
	return &ProfileRepositoryPG{db: db}
}

func (r *ProfileRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, sqlinline.QSelectProfileByID, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Role returns the stored role of a user.
func (r *ProfileRepositoryPG) Role(ctx context.Context, id string) (domain.UserRole, error) {
	var role domain.UserRole
	if err := r.db.QueryRow(ctx, sqlinline.QSelectProfileRole, id).Scan(&role); err != nil {
		if infra.IsNoRows(err) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return role, nil
}

// SetVerification moves a profile to status. Statuses that grant forum
// access also join the user to every default forum. Repeating a request
// for the status a profile already holds changes nothing and sends nothing.
func (r *ProfileRepositoryPG) SetVerification(ctx context.Context, id string, status domain.VerificationStatus, reason string) (*domain.Profile, error) {
	var out domain.Profile
	err := r.db.InTx(ctx, func(q infra.SQLExecutor) error {
		current, err := scanProfile(q.QueryRow(ctx, sqlinline.QSelectProfileForUpdate, id))
		if err != nil {
			if infra.IsNoRows(err) {
				return domain.ErrNotFound
			}
			return err
		}
		if current.VerificationStatus == status {
			out = current
			return nil
		}

		out, err = scanProfile(q.QueryRow(ctx, sqlinline.QUpdateVerification, id, string(status), reason))
		if err != nil {
			return fmt.Errorf("update verification: %w", err)
		}
		if status.GrantsForumAccess() {
			if _, err := q.Exec(ctx, sqlinline.QJoinDefaultForums, id); err != nil {
				return fmt.Errorf("join default forums: %w", err)
			}
		}
		ev, ok := verificationEvent(out, reason)
		if !ok {
			return nil
		}
		return enqueue(ctx, q, ev)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func verificationEvent(p domain.Profile, reason string) (domain.Event, bool) {
	ev := domain.Event{
		EntityID: fmt.Sprintf("%s@%d", p.ID, p.UpdatedAt.UnixMilli()),
		UserID:   p.ID,
		DeepLink: "pawsconnect://profile",
		Params:   map[string]any{"name": p.FullName},
	}
	switch p.VerificationStatus {
	case domain.VerificationSemiVerified:
		ev.Kind = domain.EventUserSemiVerified
		ev.Channels = []domain.Channel{domain.ChannelPush, domain.ChannelInApp}
	case domain.VerificationVerified:
		ev.Kind = domain.EventUserVerified
		ev.Channels = []domain.Channel{domain.ChannelPush, domain.ChannelInApp, domain.ChannelEmail}
	case domain.VerificationRejected:
		ev.Kind = domain.EventUserRejected
		ev.Channels = []domain.Channel{domain.ChannelPush, domain.ChannelInApp, domain.ChannelEmail}
		if reason != "" {
			ev.Params["reason"] = reason
		}
	default:
		return ev, false
	}
	return ev, true
}

// Contact returns what the notification channels need to reach a user.
func (r *ProfileRepositoryPG) Contact(ctx context.Context, id string) (*domain.Contact, error) {
	var c domain.Contact
	err := r.db.QueryRow(ctx, sqlinline.QSelectContact, id).Scan(&c.UserID, &c.Email, &c.FullName, &c.PushToken, &c.Locale)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

var _ domain.ProfileRepository = (*ProfileRepositoryPG)(nil)

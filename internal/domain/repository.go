package domain

import (
	"context"
	"time"
)

// CampaignRepository persists fundraising campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, in NewCampaign) (*Campaign, error)
	GetByID(ctx context.Context, id int64) (*Campaign, error)
	List(ctx context.Context, filter CampaignFilter) ([]Campaign, error)
	UpdateStatus(ctx context.Context, id int64, next CampaignStatus) (*Campaign, error)
	Reconcile(ctx context.Context, id int64) (*Campaign, error)
	ReconcileAll(ctx context.Context) (int64, error)
}

// DonationRepository handles donation persistence together with the owning
// campaign's cached total.
type DonationRepository interface {
	Create(ctx context.Context, campaignID int64, in NewDonation) (*Donation, *Campaign, error)
	ListByCampaign(ctx context.Context, campaignID int64, limit, offset int) ([]Donation, error)
	Delete(ctx context.Context, campaignID, donationID int64, guard CampaignGuard) (*Campaign, error)
}

// CampaignGuard vets the campaign a donation deletion is about to change. A
// non-nil error aborts the deletion and is returned as is.
type CampaignGuard func(Campaign) error

// AdoptionRepository records adoption decisions.
type AdoptionRepository interface {
	Reject(ctx context.Context, id int64, reason string) (*Adoption, error)
	Approve(ctx context.Context, id int64) (*AdoptionDecision, error)
}

// ProfileRepository defines access methods for user profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	SetVerification(ctx context.Context, id string, status VerificationStatus, reason string) (*Profile, error)
	Contact(ctx context.Context, id string) (*Contact, error)
}

// ChatRepository tracks who has seen global chat messages.
type ChatRepository interface {
	MarkViewed(ctx context.Context, userID string, messageIDs []int64) (int64, error)
	ListViewers(ctx context.Context, messageID int64) ([]MessageViewer, error)
}

// NotificationRepository reads and updates in-app notifications.
type NotificationRepository interface {
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, id int64) error
}

// OutboxRepository leases and settles notification outbox jobs.
type OutboxRepository interface {
	Claim(ctx context.Context, limit int, lease time.Duration) ([]OutboxJob, error)
	MarkSent(ctx context.Context, id int64) error
	Retry(ctx context.Context, id int64, errMsg string, at time.Time) error
	Bury(ctx context.Context, id int64, errMsg string) error
	RequeueDead(ctx context.Context) (int64, error)
}

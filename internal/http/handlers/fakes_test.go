package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/middleware"
	"pawsconnect/internal/providers/vision"
)

const (
	adminID = "0b6c1f5e-7d2a-4c1e-9a53-3f0f6f6f0001"
	ownerID = "0b6c1f5e-7d2a-4c1e-9a53-3f0f6f6f0002"
	donorID = "0b6c1f5e-7d2a-4c1e-9a53-3f0f6f6f0003"
)

type fakeRoles map[string]domain.UserRole

func (f fakeRoles) Role(_ context.Context, id string) (domain.UserRole, error) {
	role, ok := f[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return role, nil
}

type fakeCampaigns struct {
	items   map[int64]*domain.Campaign
	created []domain.NewCampaign
	filter  domain.CampaignFilter
	err     error
}

func (f *fakeCampaigns) Create(_ context.Context, in domain.NewCampaign) (*domain.Campaign, error) {
	f.created = append(f.created, in)
	return &domain.Campaign{ID: 42, Title: in.Title, TargetAmount: in.TargetAmount, Status: domain.CampaignPending, CreatedBy: in.CreatedBy, Images: []string{}}, f.err
}

func (f *fakeCampaigns) GetByID(_ context.Context, id int64) (*domain.Campaign, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCampaigns) List(_ context.Context, filter domain.CampaignFilter) ([]domain.Campaign, error) {
	f.filter = filter
	var out []domain.Campaign
	for _, c := range f.items {
		out = append(out, *c)
	}
	return out, f.err
}

func (f *fakeCampaigns) UpdateStatus(_ context.Context, id int64, next domain.CampaignStatus) (*domain.Campaign, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !c.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}
	c.Status = next
	return c, nil
}

func (f *fakeCampaigns) Reconcile(ctx context.Context, id int64) (*domain.Campaign, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCampaigns) ReconcileAll(context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

type fakeDonations struct {
	campaigns  *fakeCampaigns
	referenced int64
	deleteErr  error
	createErr  error
	deleted    [][2]int64
	created    []domain.NewDonation
	list       []domain.Donation
}

func (f *fakeDonations) Create(_ context.Context, campaignID int64, in domain.NewDonation) (*domain.Donation, *domain.Campaign, error) {
	if f.createErr != nil {
		return nil, nil, f.createErr
	}
	f.created = append(f.created, in)
	donor := in.Donor
	return &domain.Donation{ID: 77, Amount: in.Amount, Fundraising: &campaignID, Donor: &donor, DonatedAt: in.DonatedAt}, &domain.Campaign{ID: campaignID}, nil
}

func (f *fakeDonations) ListByCampaign(context.Context, int64, int, int) ([]domain.Donation, error) {
	return f.list, nil
}

func (f *fakeDonations) Delete(_ context.Context, campaignID, donationID int64, guard domain.CampaignGuard) (*domain.Campaign, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	target := campaignID
	if f.referenced != 0 {
		target = f.referenced
	}
	campaign := domain.Campaign{ID: target}
	if f.campaigns != nil {
		c, ok := f.campaigns.items[target]
		if !ok {
			return nil, &domain.StoreError{Op: domain.OpUpdateCampaign, Err: domain.ErrNotFound}
		}
		campaign = *c
	}
	if guard != nil {
		if err := guard(campaign); err != nil {
			return nil, err
		}
	}
	f.deleted = append(f.deleted, [2]int64{campaignID, donationID})
	return &campaign, nil
}

type fakeAdoptions struct {
	status map[int64]domain.AdoptionStatus
	reason string
}

func (f *fakeAdoptions) Reject(_ context.Context, id int64, reason string) (*domain.Adoption, error) {
	s, ok := f.status[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s != domain.AdoptionPending {
		return nil, domain.ErrInvalidTransition
	}
	f.reason = reason
	return &domain.Adoption{ID: id, Status: domain.AdoptionRejected, RejectionReason: reason}, nil
}

func (f *fakeAdoptions) Approve(_ context.Context, id int64) (*domain.AdoptionDecision, error) {
	s, ok := f.status[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s != domain.AdoptionPending {
		return nil, domain.ErrInvalidTransition
	}
	return &domain.AdoptionDecision{
		Approved: domain.Adoption{ID: id, Status: domain.AdoptionApproved},
		Rejected: []domain.Adoption{{ID: id + 1, Status: domain.AdoptionRejected}},
	}, nil
}

type fakeProfiles struct {
	known map[string]bool
	set   []domain.VerificationStatus
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	if !f.known[id] {
		return nil, domain.ErrNotFound
	}
	return &domain.Profile{ID: id}, nil
}

func (f *fakeProfiles) SetVerification(_ context.Context, id string, status domain.VerificationStatus, _ string) (*domain.Profile, error) {
	if !f.known[id] {
		return nil, domain.ErrNotFound
	}
	f.set = append(f.set, status)
	return &domain.Profile{ID: id, VerificationStatus: status}, nil
}

func (f *fakeProfiles) Contact(_ context.Context, id string) (*domain.Contact, error) {
	return &domain.Contact{UserID: id}, nil
}

type fakeInvalidator struct{ ids []string }

func (f *fakeInvalidator) Invalidate(_ context.Context, id string) { f.ids = append(f.ids, id) }

type fakeChat struct {
	ids    []int64
	userID string
}

func (f *fakeChat) MarkViewed(_ context.Context, userID string, ids []int64) (int64, error) {
	f.userID, f.ids = userID, ids
	return int64(len(ids)), nil
}

func (f *fakeChat) ListViewers(_ context.Context, messageID int64) ([]domain.MessageViewer, error) {
	return []domain.MessageViewer{{MessageID: messageID, UserID: donorID, ViewedAt: time.Unix(0, 0).UTC()}}, nil
}

type fakeNotifications struct {
	unread bool
	limit  int
	owned  map[int64]string
}

func (f *fakeNotifications) ListForUser(_ context.Context, _ string, unread bool, limit int) ([]domain.Notification, error) {
	f.unread, f.limit = unread, limit
	return nil, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, userID string, id int64) error {
	if f.owned[id] != userID {
		return domain.ErrNotFound
	}
	return nil
}

type fakeStore struct {
	keys  []string
	types []string
}

func (f *fakeStore) Put(_ context.Context, key, contentType string, _ []byte) (string, error) {
	f.keys = append(f.keys, key)
	f.types = append(f.types, contentType)
	return f.URL(key), nil
}

func (f *fakeStore) URL(key string) string { return "https://cdn.test/" + key }

type fakeReceipts struct {
	receipt *vision.Receipt
	err     error
}

func (f fakeReceipts) ExtractReceipt(context.Context, []byte, string) (*vision.Receipt, error) {
	return f.receipt, f.err
}

func newTestApp() *App {
	return &App{
		Campaigns: &fakeCampaigns{items: map[int64]*domain.Campaign{
			1: {ID: 1, Title: "Shelter roof", RaisedAmount: decimal.NewFromInt(500), TargetAmount: decimal.NewFromInt(1000), Status: domain.CampaignOngoing, CreatedBy: ownerID},
		}},
		Donations:     &fakeDonations{},
		Adoptions:     &fakeAdoptions{status: map[int64]domain.AdoptionStatus{5: domain.AdoptionPending, 6: domain.AdoptionApproved}},
		Profiles:      &fakeProfiles{known: map[string]bool{donorID: true}},
		Chat:          &fakeChat{},
		Notifications: &fakeNotifications{owned: map[int64]string{9: donorID}},
		Roles:         fakeRoles{adminID: domain.UserRoleAdmin, ownerID: domain.UserRoleUser, donorID: domain.UserRoleUser},
		RoleCache:     &fakeInvalidator{},
		Storage:       &fakeStore{},
		Receipts:      fakeReceipts{err: domain.ErrProviderUnavailable},
		Logger:        zerolog.Nop(),
	}
}

// serve routes a single request through chi so URL params resolve.
func serve(h http.HandlerFunc, method, pattern, target, userID string, body io.Reader) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	req := httptest.NewRequest(method, target, body)
	if userID != "" {
		req = req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(s string) io.Reader { return bytes.NewBufferString(s) }

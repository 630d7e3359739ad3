package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawsconnect/internal/domain"
	"pawsconnect/internal/sqlinline"
)

const ownerID = "0b8f6a43-58a4-4d5e-9e38-5f1f0f6f2a01"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedCampaign(db *fakeDB, id int64, raised, target string, status domain.CampaignStatus) {
	db.state.campaigns[id] = domain.Campaign{
		ID:           id,
		Title:        "Shelter roof",
		TargetAmount: dec(target),
		RaisedAmount: dec(raised),
		Status:       status,
		CreatedBy:    ownerID,
		Images:       []string{},
	}
}

func seedDonation(db *fakeDB, id int64, campaign *int64, amount string) {
	db.state.donations[id] = domain.Donation{ID: id, Amount: dec(amount), Fundraising: campaign}
}

func ptr(v int64) *int64 { return &v }

func TestDonationDeleteSubtractsFromCampaign(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 1, "500", "1000", domain.CampaignOngoing)
	seedDonation(db, 10, ptr(1), "200")

	got, err := NewDonationRepository(db).Delete(context.Background(), 1, 10, nil)
	require.NoError(t, err)

	assert.True(t, got.RaisedAmount.Equal(dec("300")), "raised = %s", got.RaisedAmount)
	assert.Equal(t, domain.CampaignOngoing, got.Status)

	stored := db.state.campaigns[1]
	assert.True(t, stored.RaisedAmount.Equal(dec("300")))
	assert.NotContains(t, db.state.donations, int64(10))
	assert.Equal(t, 1, db.commits)
}

func TestDonationDeleteMissingLeavesCampaignUntouched(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 1, "500", "1000", domain.CampaignOngoing)

	_, err := NewDonationRepository(db).Delete(context.Background(), 1, 999, nil)
	require.ErrorIs(t, err, domain.ErrNotFound)

	var storeErr *domain.StoreError
	assert.False(t, errors.As(err, &storeErr))
	assert.Zero(t, db.executed(sqlinline.QDeleteDonation))
	assert.Zero(t, db.executed(sqlinline.QUpdateCampaignTotals))
	assert.True(t, db.state.campaigns[1].RaisedAmount.Equal(dec("500")))
	assert.Equal(t, 1, db.rollbacks)
}

func TestDonationDeleteRevertsCompleteCampaign(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 2, "1500", "1000", domain.CampaignComplete)
	seedDonation(db, 11, ptr(2), "100")

	got, err := NewDonationRepository(db).Delete(context.Background(), 2, 11, nil)
	require.NoError(t, err)

	assert.True(t, got.RaisedAmount.Equal(dec("1400")))
	assert.Equal(t, domain.CampaignOngoing, got.Status)
	assert.Equal(t, domain.CampaignOngoing, db.state.campaigns[2].Status)
}

func TestDonationDeleteFloorsAtZero(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 3, "50", "1000", domain.CampaignOngoing)
	seedDonation(db, 12, ptr(3), "80.25")

	got, err := NewDonationRepository(db).Delete(context.Background(), 3, 12, nil)
	require.NoError(t, err)
	assert.True(t, got.RaisedAmount.IsZero())
	assert.False(t, db.state.campaigns[3].RaisedAmount.IsNegative())
}

func TestDonationDeleteFallsBackToPathCampaign(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 4, "300", "1000", domain.CampaignOngoing)
	seedDonation(db, 13, nil, "100")

	got, err := NewDonationRepository(db).Delete(context.Background(), 4, 13, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)
	assert.True(t, db.state.campaigns[4].RaisedAmount.Equal(dec("200")))
}

func TestDonationDeleteStoreFailureRollsBack(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 1, "500", "1000", domain.CampaignOngoing)
	seedDonation(db, 10, ptr(1), "200")
	db.failExec[sqlinline.QDeleteDonation] = errors.New("permission denied for table donations")

	_, err := NewDonationRepository(db).Delete(context.Background(), 1, 10, nil)

	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, domain.OpDeleteDonation, storeErr.Op)
	assert.Equal(t, "permission denied for table donations", storeErr.Err.Error())
	assert.Contains(t, db.state.donations, int64(10))
	assert.True(t, db.state.campaigns[1].RaisedAmount.Equal(dec("500")))
}

func TestDonationDeleteCampaignUpdateFailureKeepsDonation(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 1, "500", "1000", domain.CampaignOngoing)
	seedDonation(db, 10, ptr(1), "200")
	db.failExec[sqlinline.QUpdateCampaignTotals] = errors.New("deadlock detected")

	_, err := NewDonationRepository(db).Delete(context.Background(), 1, 10, nil)

	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, domain.OpUpdateCampaign, storeErr.Op)
	assert.Contains(t, db.state.donations, int64(10), "donation must survive a failed campaign update")
	assert.Equal(t, 1, db.rollbacks)
}

func TestDonationDeleteMissingCampaignIsStoreError(t *testing.T) {
	db := newFakeDB()
	seedDonation(db, 10, ptr(42), "200")

	_, err := NewDonationRepository(db).Delete(context.Background(), 42, 10, nil)

	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, domain.OpUpdateCampaign, storeErr.Op)
	assert.Contains(t, db.state.donations, int64(10))
}

func TestDonationCreateCompletesCampaignAndNotifiesOwner(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 1, "900", "1000", domain.CampaignOngoing)

	donation, campaign, err := NewDonationRepository(db).Create(context.Background(), 1, domain.NewDonation{
		Amount:          dec("100"),
		Donor:           "9c2e4d0b-7a0f-4a55-8f0a-4a3a2b1c0d99",
		ReferenceNumber: "GC-1001",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), *donation.Fundraising)
	assert.Equal(t, domain.CampaignComplete, campaign.Status)
	assert.True(t, db.state.campaigns[1].RaisedAmount.Equal(dec("1000")))

	key := func(kind domain.EventKind, entity string, ch domain.Channel) string {
		return domain.Event{Kind: kind, EntityID: entity}.IdempotencyKey(ch)
	}
	assert.ElementsMatch(t, []string{
		key(domain.EventDonationReceived, "101", domain.ChannelInApp),
		key(domain.EventDonationReceived, "101", domain.ChannelPush),
		key(domain.EventCampaignCompleted, "1", domain.ChannelInApp),
		key(domain.EventCampaignCompleted, "1", domain.ChannelPush),
		key(domain.EventCampaignCompleted, "1", domain.ChannelEmail),
	}, db.state.outbox)
}

func TestDonationCreateByOwnerSkipsReceivedNotice(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 1, "0", "1000", domain.CampaignOngoing)

	_, _, err := NewDonationRepository(db).Create(context.Background(), 1, domain.NewDonation{Amount: dec("10"), Donor: ownerID})
	require.NoError(t, err)
	assert.Empty(t, db.state.outbox)
}

func TestDonationCreateRejectsClosedCampaign(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 1, "0", "1000", domain.CampaignPending)

	_, _, err := NewDonationRepository(db).Create(context.Background(), 1, domain.NewDonation{Amount: dec("10")})
	require.ErrorIs(t, err, domain.ErrCampaignClosed)
	assert.Empty(t, db.state.donations)

	_, _, err = NewDonationRepository(db).Create(context.Background(), 77, domain.NewDonation{Amount: dec("10")})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDonationCreateDuplicateReference(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 1, "0", "1000", domain.CampaignOngoing)
	db.failInsert = &pgconn.PgError{Code: "23505", ConstraintName: donationReferenceConstraint}

	_, _, err := NewDonationRepository(db).Create(context.Background(), 1, domain.NewDonation{Amount: dec("10"), ReferenceNumber: "GC-1"})
	require.ErrorIs(t, err, domain.ErrDuplicateOperation)
	assert.True(t, db.state.campaigns[1].RaisedAmount.IsZero())
}

func TestDonationDeleteReconcilesReferencedCampaign(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 1, "500", "1000", domain.CampaignOngoing)
	seedCampaign(db, 2, "500", "1000", domain.CampaignOngoing)
	seedDonation(db, 10, ptr(2), "200")

	got, err := NewDonationRepository(db).Delete(context.Background(), 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
	assert.NotContains(t, db.state.donations, int64(10))
	assert.True(t, db.state.campaigns[2].RaisedAmount.Equal(dec("300")))
	assert.True(t, db.state.campaigns[1].RaisedAmount.Equal(dec("500")))
}

func TestDonationDeleteGuardSeesReferencedCampaign(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 1, "500", "1000", domain.CampaignOngoing)
	seedCampaign(db, 2, "500", "1000", domain.CampaignOngoing)
	seedDonation(db, 10, ptr(2), "200")

	var seen int64
	_, err := NewDonationRepository(db).Delete(context.Background(), 1, 10, func(c domain.Campaign) error {
		seen = c.ID
		return domain.ErrForbidden
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, int64(2), seen)
	assert.Contains(t, db.state.donations, int64(10))
	assert.True(t, db.state.campaigns[2].RaisedAmount.Equal(dec("500")))
	assert.Zero(t, db.executed(sqlinline.QDeleteDonation))
}

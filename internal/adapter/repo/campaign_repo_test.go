package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawsconnect/internal/domain"
)

func TestCampaignUpdateStatus(t *testing.T) {
	db := newFakeDB()
	seedCampaign(db, 1, "0", "1000", domain.CampaignPending)
	repo := NewCampaignRepository(db)

	got, err := repo.UpdateStatus(context.Background(), 1, domain.CampaignOngoing)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignOngoing, got.Status)

	_, err = repo.UpdateStatus(context.Background(), 1, domain.CampaignRejected)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.CampaignOngoing, db.state.campaigns[1].Status)

	_, err = repo.UpdateStatus(context.Background(), 9, domain.CampaignOngoing)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCampaignGetByIDNotFound(t *testing.T) {
	_, err := NewCampaignRepository(newFakeDB()).GetByID(context.Background(), 5)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCampaignReconcileAllCountsChangedRows(t *testing.T) {
	db := newFakeDB()
	db.campaignRows = 3

	n, err := NewCampaignRepository(db).ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

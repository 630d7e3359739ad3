package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pawsconnect/internal/domain"
)

type donationRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Message         string          `json:"message"`
	Screenshot      string          `json:"screenshot"`
	IsAnonymous     bool            `json:"is_anonymous"`
	ReferenceNumber string          `json:"reference_number"`
	DonatedAt       *time.Time      `json:"donated_at"`
}

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := pathID(r, "id")
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid campaign ID")
		return
	}
	var req donationRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Amount.IsPositive() {
		a.error(w, http.StatusBadRequest, "Amount must be greater than zero")
		return
	}
	donatedAt := time.Now().UTC()
	if req.DonatedAt != nil {
		donatedAt = req.DonatedAt.UTC()
	}

	donation, _, err := a.Donations.Create(r.Context(), campaignID, domain.NewDonation{
		Amount:          req.Amount,
		Donor:           a.currentUserID(r),
		Message:         strings.TrimSpace(req.Message),
		DonatedAt:       donatedAt,
		Screenshot:      req.Screenshot,
		IsAnonymous:     req.IsAnonymous,
		ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
	})
	switch {
	case isNotFound(err):
		a.error(w, http.StatusNotFound, "Campaign not found")
	case errors.Is(err, domain.ErrCampaignClosed):
		a.error(w, http.StatusConflict, "Campaign is not accepting donations")
	case errors.Is(err, domain.ErrDuplicateOperation):
		a.error(w, http.StatusConflict, "Reference number already used")
	case err != nil:
		a.internalError(w, r, "Failed to create donation", err)
	default:
		a.json(w, http.StatusCreated, donation)
	}
}

func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := pathID(r, "id")
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid campaign ID")
		return
	}
	limit, offset, ok := pageParams(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid pagination")
		return
	}
	donations, err := a.Donations.ListByCampaign(r.Context(), campaignID, limit, offset)
	if err != nil {
		a.internalError(w, r, "Failed to load donations", err)
		return
	}
	items := make([]domain.Donation, 0, len(donations))
	for _, d := range donations {
		items = append(items, d.Public())
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// DonationsDelete removes a donation and takes its amount off the campaign
// total. Admins and the campaign creator may delete.
func (a *App) DonationsDelete(w http.ResponseWriter, r *http.Request) {
	donationID, ok := pathID(r, "donationId")
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid donation ID")
		return
	}
	campaignID, ok := pathID(r, "id")
	if !ok {
		a.error(w, http.StatusBadRequest, "Invalid campaign ID")
		return
	}

	guard, err := a.campaignManagerGuard(r)
	if err != nil {
		a.failure(w, r, "Failed to delete donation", err)
		return
	}

	_, err = a.Donations.Delete(r.Context(), campaignID, donationID, guard)
	var storeErr *domain.StoreError
	switch {
	case errors.As(err, &storeErr) && storeErr.Op == domain.OpUpdateCampaign:
		a.failure(w, r, "Failed to update campaign", storeErr.Err)
	case errors.As(err, &storeErr):
		a.failure(w, r, "Failed to delete donation", storeErr.Err)
	case isNotFound(err):
		a.error(w, http.StatusNotFound, "Donation not found")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "Forbidden")
	case err != nil:
		a.failure(w, r, "Failed to delete donation", err)
	default:
		a.Logger.Info().Int64("campaign_id", campaignID).Int64("donation_id", donationID).
			Str("user_id", a.currentUserID(r)).Msg("donation deleted")
		a.json(w, http.StatusOK, map[string]string{"message": "Donation deleted successfully"})
	}
}

// campaignManagerGuard lets admins through and limits everyone else to
// campaigns they created.
func (a *App) campaignManagerGuard(r *http.Request) (domain.CampaignGuard, error) {
	admin, err := a.isAdmin(r)
	if err != nil || admin {
		return nil, err
	}
	userID := a.currentUserID(r)
	return func(c domain.Campaign) error {
		if c.CreatedBy == "" || c.CreatedBy != userID {
			return domain.ErrForbidden
		}
		return nil
	}, nil
}

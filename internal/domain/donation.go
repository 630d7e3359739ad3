package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation is a single contribution to a campaign. Fundraising is nil on
// legacy rows created before donations were tied to campaigns.
type Donation struct {
	ID              int64           `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Fundraising     *int64          `json:"fundraising"`
	Donor           *string         `json:"donor"`
	Message         string          `json:"message"`
	DonatedAt       time.Time       `json:"donated_at"`
	Screenshot      string          `json:"screenshot"`
	IsAnonymous     bool            `json:"is_anonymous"`
	ReferenceNumber string          `json:"reference_number"`
}

// CampaignID resolves the owning campaign, falling back to the given id for
// rows without one.
func (d Donation) CampaignID(fallback int64) int64 {
	if d.Fundraising != nil {
		return *d.Fundraising
	}
	return fallback
}

// Public hides the donor of anonymous donations.
func (d Donation) Public() Donation {
	if d.IsAnonymous {
		d.Donor = nil
	}
	return d
}

// NewDonation carries the fields a donor supplies.
type NewDonation struct {
	Amount          decimal.Decimal
	Donor           string
	Message         string
	DonatedAt       time.Time
	Screenshot      string
	IsAnonymous     bool
	ReferenceNumber string
}

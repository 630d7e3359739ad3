package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CampaignStatus enumerates the fundraising campaign lifecycle.
type CampaignStatus string

const (
	CampaignPending   CampaignStatus = "PENDING"
	CampaignOngoing   CampaignStatus = "ONGOING"
	CampaignComplete  CampaignStatus = "COMPLETE"
	CampaignRejected  CampaignStatus = "REJECTED"
	CampaignCancelled CampaignStatus = "CANCELLED"
)

var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignPending:  {CampaignOngoing, CampaignRejected},
	CampaignOngoing:  {CampaignComplete, CampaignCancelled},
	CampaignComplete: {CampaignOngoing, CampaignCancelled},
}

// ParseCampaignStatus accepts a status in any letter case.
func ParseCampaignStatus(s string) (CampaignStatus, error) {
	status := CampaignStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case CampaignPending, CampaignOngoing, CampaignComplete, CampaignRejected, CampaignCancelled:
		return status, nil
	}
	return "", fmt.Errorf("unknown campaign status %q", s)
}

// CanTransitionTo reports whether an admin may move a campaign from s to next.
func (s CampaignStatus) CanTransitionTo(next CampaignStatus) bool {
	for _, allowed := range campaignTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsDonations reports whether new donations may be recorded.
func (s CampaignStatus) AcceptsDonations() bool {
	return s == CampaignOngoing || s == CampaignComplete
}

// Campaign is a fundraising effort. RaisedAmount is a cached total of the
// campaign's donations and is only written in the transaction that inserts
// or deletes a donation.
type Campaign struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	RaisedAmount decimal.Decimal `json:"raised_amount"`
	Status       CampaignStatus  `json:"status"`
	CreatedBy    string          `json:"created_by"`
	Images       []string        `json:"images"`
	EndDate      *time.Time      `json:"end_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// WithDonation returns the campaign after a donation of amount is recorded.
// An ongoing campaign completes once the total reaches its target.
func (c Campaign) WithDonation(amount decimal.Decimal) Campaign {
	c.RaisedAmount = c.RaisedAmount.Add(amount)
	if c.Status == CampaignOngoing && c.RaisedAmount.GreaterThanOrEqual(c.TargetAmount) {
		c.Status = CampaignComplete
	}
	return c
}

// WithoutDonation returns the campaign after a donation of amount is removed.
// The total is floored at zero. A COMPLETE campaign always reverts to ONGOING,
// even when the remaining total still meets the target.
func (c Campaign) WithoutDonation(amount decimal.Decimal) Campaign {
	c.RaisedAmount = NonNegative(c.RaisedAmount.Sub(amount))
	if c.Status == CampaignComplete {
		c.Status = CampaignOngoing
	}
	return c
}

// NewCampaign carries the fields a user supplies when creating a campaign.
type NewCampaign struct {
	Title        string
	Description  string
	TargetAmount decimal.Decimal
	Images       []string
	EndDate      *time.Time
	CreatedBy    string
}

// CampaignFilter narrows campaign listings.
type CampaignFilter struct {
	Status CampaignStatus
	Limit  int
	Offset int
}

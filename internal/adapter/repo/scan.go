package repo

import (
	"github.com/jackc/pgx/v5"

	"pawsconnect/internal/domain"
)

func scanCampaign(row pgx.Row) (domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.TargetAmount,
		&c.RaisedAmount,
		&c.Status,
		&c.CreatedBy,
		&c.Images,
		&c.EndDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if c.Images == nil {
		c.Images = []string{}
	}
	return c, err
}

func scanDonation(row pgx.Row) (domain.Donation, error) {
	var d domain.Donation
	err := row.Scan(
		&d.ID,
		&d.Amount,
		&d.Fundraising,
		&d.Donor,
		&d.Message,
		&d.DonatedAt,
		&d.Screenshot,
		&d.IsAnonymous,
		&d.ReferenceNumber,
	)
	return d, err
}

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.FullName,
		&p.Role,
		&p.VerificationStatus,
		&p.PushToken,
		&p.Locale,
		&p.UpdatedAt,
	)
	return p, err
}

func scanAdoption(row pgx.Row) (domain.Adoption, error) {
	var a domain.Adoption
	err := row.Scan(
		&a.ID,
		&a.PetID,
		&a.PetName,
		&a.ApplicantID,
		&a.Status,
		&a.RejectionReason,
		&a.UpdatedAt,
	)
	return a, err
}

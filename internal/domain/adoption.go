package domain

import "time"

// AdoptionStatus enumerates adoption application states.
type AdoptionStatus string

const (
	AdoptionPending  AdoptionStatus = "PENDING"
	AdoptionApproved AdoptionStatus = "APPROVED"
	AdoptionRejected AdoptionStatus = "REJECTED"
)

// Adoption is an application by a user to adopt a pet.
type Adoption struct {
	ID              int64          `json:"id"`
	PetID           int64          `json:"pet"`
	PetName         string         `json:"pet_name"`
	ApplicantID     string         `json:"applicant"`
	Status          AdoptionStatus `json:"status"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// AdoptionDecision is the outcome of approving an application: the approved
// application and the competing ones that were rejected with it.
type AdoptionDecision struct {
	Approved Adoption   `json:"approved"`
	Rejected []Adoption `json:"rejected"`
}

package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrCampaignClosed       = errors.New("campaign is not accepting donations")
	ErrDuplicateOperation   = errors.New("duplicate operation")
	ErrProviderUnavailable  = errors.New("provider unavailable")
	ErrProviderFailure      = errors.New("provider failure")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

// StoreOp names one write inside a multi-statement operation.
type StoreOp string

const (
	OpDeleteDonation StoreOp = "delete donation"
	OpUpdateCampaign StoreOp = "update campaign"
	OpInsertDonation StoreOp = "insert donation"
)

// StoreError reports which write of a multi-statement operation failed. Err
// carries the data store's own message.
type StoreError struct {
	Op  StoreOp
	Err error
}

func (e *StoreError) Error() string { return string(e.Op) + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

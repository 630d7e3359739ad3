package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// VerificationStatus tracks identity review of a profile.
type VerificationStatus string

const (
	VerificationUnverified   VerificationStatus = "UNVERIFIED"
	VerificationSemiVerified VerificationStatus = "SEMI_VERIFIED"
	VerificationVerified     VerificationStatus = "VERIFIED"
	VerificationRejected     VerificationStatus = "REJECTED"
)

// GrantsForumAccess reports whether the status admits the user to the
// default forums.
func (s VerificationStatus) GrantsForumAccess() bool {
	return s == VerificationSemiVerified || s == VerificationVerified
}

// Profile is the application-side record of an authenticated Supabase user.
type Profile struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email"`
	FullName           string             `json:"full_name"`
	Role               UserRole           `json:"role"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	PushToken          string             `json:"-"`
	Locale             string             `json:"locale"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// IsAdmin reports whether the profile holds the admin role.
func (p Profile) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

// Contact is what the notification channels need to reach a user.
type Contact struct {
	UserID    string
	Email     string
	FullName  string
	PushToken string
	Locale    string
}

package domain

import "time"

type RegistrationKind string

const (
	KindLeader RegistrationKind = "leader"
	KindMember RegistrationKind = "member"
)

// PreRegistration is signup data waiting for email verification.
type PreRegistration struct {
	ExpiresAt    time.Time        `json:"expires_at"`
	Kind         RegistrationKind `json:"kind"`
	Token        string           `json:"token"`
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	PasswordHash string           `json:"password_hash"`
	TeamName     string           `json:"team_name,omitempty"`
	TeamCode     string           `json:"team_code,omitempty"`
	NumericCode  string           `json:"numeric_code"`
}

func (p *PreRegistration) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// VerificationTTL is how long a pre-registration stays valid.
const VerificationTTL = time.Hour

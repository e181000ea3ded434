package domain

import (
	"time"

	"github.com/google/uuid"
)

// OTPCode is a short-lived one-time login code keyed by email. At most one
// code per email is intended to be live; issuing a new one replaces any
// existing record. Expiry is a property of the record itself, enforced by
// the repository's lookup rather than by the verification flow.
type OTPCode struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email     string    `json:"email" gorm:"index;not null"`
	Code      string    `json:"-" gorm:"not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (o *OTPCode) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

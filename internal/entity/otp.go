package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// OTPChallenge is a time-boxed one-time code tied to an email. The code
// itself is bcrypt-hashed at rest; the plaintext exists only in the issue
// response and the delivery event. Multiple unverified challenges for the
// same email may coexist.
type OTPChallenge struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CodeHash  string    `json:"-"`
	Verified  bool      `json:"is_verified"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *OTPChallenge) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}

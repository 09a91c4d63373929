package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Account is created on the first successful registration. Emails are
// stored lowercased; every ledger lookup uses the normalized form.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Blocked   bool      `json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
}

package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Attempt is one row of the append-only login/registration ledger.
// Rows are never deleted or rescored; the only permitted mutation is
// flipping Success from false to true once the associated challenge
// completes.
type Attempt struct {
	ID                uuid.UUID  `json:"id"`
	AccountID         *uuid.UUID `json:"account_id,omitempty"`
	Email             string     `json:"email"`
	IPAddress         string     `json:"ip_address"`
	DeviceFingerprint string     `json:"device_fingerprint"`
	Location          Location   `json:"location"`
	RiskScore         float64    `json:"risk_score"`
	RiskLevel         RiskLevel  `json:"risk_level"`
	Success           bool       `json:"success"`
	CreatedAt         time.Time  `json:"timestamp"`
}

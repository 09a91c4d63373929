package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrAccountBlocked = errors.New("account is blocked")
	ErrAttemptClosed  = errors.New("attempt already resolved")
	ErrRateLimited    = errors.New("rate limit exceeded")
)

var (
	ErrCodeInvalid = errors.New("invalid code")
	ErrCodeExpired = errors.New("expired code")
)

var (
	ErrEmailInvalidLen    = errors.New("email length exceeds 255 characters")
	ErrEmailInvalidFormat = errors.New("incorrect email format")
	ErrNameInvalidLen     = errors.New("name must be between 1 and 100 characters")
)

// RiskBlockedError is returned when an attempt is rejected by the risk
// engine rather than by an account flag. It carries the full risk result
// so the transport layer can expose it.
type RiskBlockedError struct {
	Risk RiskResult
}

func (e *RiskBlockedError) Error() string {
	return fmt.Sprintf("blocked by risk level %s (score %.0f)", e.Risk.Level, e.Risk.Score)
}

// Package otp issues and verifies time-boxed one-time codes. Expiry is
// checked lazily at verification time; nothing sweeps stale challenges.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	uuid "github.com/gofrs/uuid/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sentraid/riskauth/internal/entity"
)

const (
	codeLength   = 6
	maxCodeValue = 1000000
)

// ChallengeStore persists challenges. Consume must atomically flip the
// challenge's verified flag and resolve the attempt, and must reject a
// challenge that is already verified with entity.ErrCodeInvalid.
type ChallengeStore interface {
	Save(ctx context.Context, challenge entity.OTPChallenge) error
	Unverified(ctx context.Context, email string) ([]entity.OTPChallenge, error)
	Consume(ctx context.Context, challengeID, attemptID uuid.UUID) error
}

type Manager struct {
	store ChallengeStore
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store ChallengeStore, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Issue creates a new challenge and returns it together with the
// plaintext code for delivery. Previously issued challenges for the same
// email stay live; verification picks the newest matching one.
func (m *Manager) Issue(ctx context.Context, email string) (entity.OTPChallenge, string, error) {
	code, err := GenerateCode()
	if err != nil {
		return entity.OTPChallenge{}, "", fmt.Errorf("generate code: %w", err)
	}

	hash, err := HashCode(code)
	if err != nil {
		return entity.OTPChallenge{}, "", fmt.Errorf("hash code: %w", err)
	}

	now := m.now()

	challenge := entity.OTPChallenge{
		ID:        uuid.Must(uuid.NewV4()),
		Email:     email,
		CodeHash:  hash,
		Verified:  false,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}

	err = m.store.Save(ctx, challenge)
	if err != nil {
		return entity.OTPChallenge{}, "", fmt.Errorf("save challenge: %w", err)
	}

	return challenge, code, nil
}

// Verify finds the most recently created unverified challenge whose code
// matches and consumes it, resolving the referenced attempt in the same
// transaction. No match yields entity.ErrCodeInvalid, a match past its
// deadline entity.ErrCodeExpired. A consumed code never verifies twice.
func (m *Manager) Verify(ctx context.Context, email, code string, attemptID uuid.UUID) error {
	challenges, err := m.store.Unverified(ctx, email)
	if err != nil {
		return fmt.Errorf("load challenges: %w", err)
	}

	for _, challenge := range challenges {
		if bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(code)) != nil {
			continue
		}

		if challenge.Expired(m.now()) {
			return entity.ErrCodeExpired
		}

		return m.store.Consume(ctx, challenge.ID, attemptID)
	}

	return entity.ErrCodeInvalid
}

// GenerateCode draws a uniform 6-digit code, leading zeros preserved.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxCodeValue))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", codeLength, n.Int64()), nil
}

func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

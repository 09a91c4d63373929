package otp_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	uuid "github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"github.com/sentraid/riskauth/internal/entity"
	"github.com/sentraid/riskauth/internal/otp"
)

type fakeStore struct {
	challenges []entity.OTPChallenge
	consumed   map[uuid.UUID]uuid.UUID // challenge -> attempt
}

func newFakeStore() *fakeStore {
	return &fakeStore{consumed: make(map[uuid.UUID]uuid.UUID)}
}

func (f *fakeStore) Save(_ context.Context, challenge entity.OTPChallenge) error {
	f.challenges = append(f.challenges, challenge)
	return nil
}

func (f *fakeStore) Unverified(_ context.Context, email string) ([]entity.OTPChallenge, error) {
	var out []entity.OTPChallenge

	// Newest first, matching the repository ordering.
	for i := len(f.challenges) - 1; i >= 0; i-- {
		c := f.challenges[i]
		if c.Email == email && !c.Verified {
			out = append(out, c)
		}
	}

	return out, nil
}

func (f *fakeStore) Consume(_ context.Context, challengeID, attemptID uuid.UUID) error {
	for i, c := range f.challenges {
		if c.ID != challengeID {
			continue
		}

		if c.Verified {
			return entity.ErrCodeInvalid
		}

		f.challenges[i].Verified = true
		f.consumed[challengeID] = attemptID

		return nil
	}

	return entity.ErrCodeInvalid
}

func TestGenerateCode_FormatAndRange(t *testing.T) {
	t.Parallel()

	codePattern := regexp.MustCompile(`^\d{6}$`)

	for range 100 {
		code, err := otp.GenerateCode()
		require.NoError(t, err)
		require.Regexp(t, codePattern, code)
	}
}

func TestGenerateCode_ProducesLeadingZeros(t *testing.T) {
	t.Parallel()

	hasLeadingZero := false

	for range 500 {
		code, err := otp.GenerateCode()
		require.NoError(t, err)

		if code[0] == '0' {
			hasLeadingZero = true
			break
		}
	}

	require.True(t, hasLeadingZero, "expected at least one code with a leading zero in 500 draws")
}

func TestIssue_SetsExpiryAndHashesCode(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := otp.NewManager(store, 10*time.Minute)

	before := time.Now()

	challenge, code, err := m.Issue(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)
	require.False(t, challenge.Verified)
	require.NotEqual(t, code, challenge.CodeHash)
	require.WithinDuration(t, before.Add(10*time.Minute), challenge.ExpiresAt, 5*time.Second)
	require.Len(t, store.challenges, 1)
}

func TestVerify_RoundTripSucceedsExactlyOnce(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := otp.NewManager(store, 10*time.Minute)
	attemptID := uuid.Must(uuid.NewV4())

	challenge, code, err := m.Issue(context.Background(), "user@example.com")
	require.NoError(t, err)

	err = m.Verify(context.Background(), "user@example.com", code, attemptID)
	require.NoError(t, err)
	require.Equal(t, attemptID, store.consumed[challenge.ID])

	// The consumed challenge no longer matches: second use is invalid.
	err = m.Verify(context.Background(), "user@example.com", code, attemptID)
	require.ErrorIs(t, err, entity.ErrCodeInvalid)
}

func TestVerify_WrongCode(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := otp.NewManager(store, 10*time.Minute)

	_, code, err := m.Issue(context.Background(), "user@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	err = m.Verify(context.Background(), "user@example.com", wrong, uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, entity.ErrCodeInvalid)
}

func TestVerify_OtherEmailDoesNotMatch(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := otp.NewManager(store, 10*time.Minute)

	_, code, err := m.Issue(context.Background(), "user@example.com")
	require.NoError(t, err)

	err = m.Verify(context.Background(), "other@example.com", code, uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, entity.ErrCodeInvalid)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := otp.NewManager(store, -time.Minute) // already past the deadline

	_, code, err := m.Issue(context.Background(), "user@example.com")
	require.NoError(t, err)

	err = m.Verify(context.Background(), "user@example.com", code, uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, entity.ErrCodeExpired)
}

func TestVerify_NewestMatchingChallengeWins(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := otp.NewManager(store, 10*time.Minute)
	attemptID := uuid.Must(uuid.NewV4())

	first, firstCode, err := m.Issue(context.Background(), "user@example.com")
	require.NoError(t, err)

	second, secondCode, err := m.Issue(context.Background(), "user@example.com")
	require.NoError(t, err)

	// Both challenges stay live; the newer one is consumed first.
	err = m.Verify(context.Background(), "user@example.com", secondCode, attemptID)
	require.NoError(t, err)
	require.Contains(t, store.consumed, second.ID)

	// The older challenge still works on its own code.
	err = m.Verify(context.Background(), "user@example.com", firstCode, attemptID)
	require.NoError(t, err)
	require.Contains(t, store.consumed, first.ID)
}

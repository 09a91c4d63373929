package repository_test

import (
	"context"
	"testing"
	"time"

	uuid "github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/suite"

	"github.com/sentraid/riskauth/internal/entity"
	"github.com/sentraid/riskauth/internal/repository"
)

type OTPRepositoryTestSuite struct {
	suite.Suite
	repo     *repository.OTPRepository
	attempts *repository.AttemptRepository
}

func (ts *OTPRepositoryTestSuite) SetupTest() {
	db := repository.SetupTestDatabase(ts.T())
	ts.repo = repository.NewOTPRepository(db)
	ts.attempts = repository.NewAttemptRepository(db)
}

func TestOTPRepositoryTestSuite(t *testing.T) { //nolint:paralleltest
	suite.Run(t, new(OTPRepositoryTestSuite))
}

func newTestChallenge(email string) entity.OTPChallenge {
	return entity.OTPChallenge{
		ID:        uuid.Must(uuid.NewV4()),
		Email:     email,
		CodeHash:  "$2a$10$fakehashfakehashfakehashfakehashfakehashfakehashfake",
		ExpiresAt: time.Now().Add(10 * time.Minute),
		CreatedAt: time.Now(),
	}
}

func (ts *OTPRepositoryTestSuite) TestSaveAndFindByID() {
	ctx := context.Background()
	challenge := newTestChallenge("user@example.com")

	err := ts.repo.Save(ctx, challenge)
	ts.Require().NoError(err)

	got, err := ts.repo.FindByID(ctx, challenge.ID)
	ts.Require().NoError(err)
	ts.Require().Equal(challenge.Email, got.Email)
	ts.Require().Equal(challenge.CodeHash, got.CodeHash)
	ts.Require().False(got.Verified)
}

func (ts *OTPRepositoryTestSuite) TestUnverifiedNewestFirst() {
	ctx := context.Background()
	email := "user@example.com"

	older := newTestChallenge(email)
	older.CreatedAt = time.Now().Add(-5 * time.Minute)

	newer := newTestChallenge(email)

	ts.Require().NoError(ts.repo.Save(ctx, older))
	ts.Require().NoError(ts.repo.Save(ctx, newer))
	ts.Require().NoError(ts.repo.Save(ctx, newTestChallenge("other@example.com")))

	got, err := ts.repo.Unverified(ctx, email)
	ts.Require().NoError(err)
	ts.Require().Len(got, 2)
	ts.Require().Equal(newer.ID, got[0].ID)
	ts.Require().Equal(older.ID, got[1].ID)
}

func (ts *OTPRepositoryTestSuite) TestConsume() {
	ctx := context.Background()
	challenge := newTestChallenge("user@example.com")
	attempt := newTestAttempt("user@example.com", false)

	ts.Require().NoError(ts.repo.Save(ctx, challenge))
	ts.Require().NoError(ts.attempts.Save(ctx, attempt))

	err := ts.repo.Consume(ctx, challenge.ID, attempt.ID)
	ts.Require().NoError(err)

	got, err := ts.repo.FindByID(ctx, challenge.ID)
	ts.Require().NoError(err)
	ts.Require().True(got.Verified)

	// A consumed challenge drops out of the unverified set.
	unverified, err := ts.repo.Unverified(ctx, challenge.Email)
	ts.Require().NoError(err)
	ts.Require().Empty(unverified)

	recent, err := ts.attempts.Recent(ctx, 1)
	ts.Require().NoError(err)
	ts.Require().True(recent[0].Success)
}

func (ts *OTPRepositoryTestSuite) TestConsumeTwice() {
	ctx := context.Background()
	challenge := newTestChallenge("user@example.com")
	attempt := newTestAttempt("user@example.com", false)

	ts.Require().NoError(ts.repo.Save(ctx, challenge))
	ts.Require().NoError(ts.attempts.Save(ctx, attempt))

	ts.Require().NoError(ts.repo.Consume(ctx, challenge.ID, attempt.ID))

	err := ts.repo.Consume(ctx, challenge.ID, attempt.ID)
	ts.Require().ErrorIs(err, entity.ErrCodeInvalid)
}

func (ts *OTPRepositoryTestSuite) TestFindByIDNotFound() {
	ctx := context.Background()

	_, err := ts.repo.FindByID(ctx, uuid.Must(uuid.NewV4()))
	ts.Require().ErrorIs(err, entity.ErrNotFound)
}

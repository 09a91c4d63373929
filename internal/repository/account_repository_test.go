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

type AccountRepositoryTestSuite struct {
	suite.Suite
	repo     *repository.AccountRepository
	attempts *repository.AttemptRepository
}

func (ts *AccountRepositoryTestSuite) SetupTest() {
	db := repository.SetupTestDatabase(ts.T())
	ts.repo = repository.NewAccountRepository(db)
	ts.attempts = repository.NewAttemptRepository(db)
}

func TestAccountRepositoryTestSuite(t *testing.T) { //nolint:paralleltest
	suite.Run(t, new(AccountRepositoryTestSuite))
}

func newTestAccount(email string) entity.Account {
	return entity.Account{
		ID:        uuid.Must(uuid.NewV4()),
		Email:     email,
		Name:      "Test User",
		Phone:     "+15550100",
		CreatedAt: time.Now(),
	}
}

func (ts *AccountRepositoryTestSuite) TestSaveAndFindByEmail() {
	ctx := context.Background()
	account := newTestAccount("user@example.com")

	err := ts.repo.Save(ctx, account)
	ts.Require().NoError(err)

	got, err := ts.repo.FindByEmail(ctx, account.Email)
	ts.Require().NoError(err)
	ts.Require().Equal(account.ID, got.ID)
	ts.Require().Equal(account.Name, got.Name)
	ts.Require().False(got.Blocked)
}

func (ts *AccountRepositoryTestSuite) TestSaveDuplicateEmail() {
	ctx := context.Background()

	err := ts.repo.Save(ctx, newTestAccount("user@example.com"))
	ts.Require().NoError(err)

	err = ts.repo.Save(ctx, newTestAccount("user@example.com"))
	ts.Require().ErrorIs(err, entity.ErrAlreadyExists)
}

func (ts *AccountRepositoryTestSuite) TestFindByEmailNotFound() {
	ctx := context.Background()

	_, err := ts.repo.FindByEmail(ctx, "ghost@example.com")
	ts.Require().ErrorIs(err, entity.ErrNotFound)
}

func (ts *AccountRepositoryTestSuite) TestCreateWithAttempt() {
	ctx := context.Background()
	attempt := newTestAttempt("user@example.com", false)

	err := ts.attempts.Save(ctx, attempt)
	ts.Require().NoError(err)

	account := newTestAccount("user@example.com")
	err = ts.repo.CreateWithAttempt(ctx, account, attempt.ID)
	ts.Require().NoError(err)

	// The attempt is claimed by the new account and resolved.
	recent, err := ts.attempts.Recent(ctx, 1)
	ts.Require().NoError(err)
	ts.Require().Len(recent, 1)
	ts.Require().NotNil(recent[0].AccountID)
	ts.Require().Equal(account.ID, *recent[0].AccountID)
	ts.Require().True(recent[0].Success)
}

func (ts *AccountRepositoryTestSuite) TestCreateWithAttemptDuplicateLeavesNoAccount() {
	ctx := context.Background()
	attempt := newTestAttempt("user@example.com", false)

	ts.Require().NoError(ts.attempts.Save(ctx, attempt))
	ts.Require().NoError(ts.repo.Save(ctx, newTestAccount("user@example.com")))

	err := ts.repo.CreateWithAttempt(ctx, newTestAccount("user@example.com"), attempt.ID)
	ts.Require().ErrorIs(err, entity.ErrAlreadyExists)

	// The transaction rolled back, so the attempt stays unresolved.
	recent, recentErr := ts.attempts.Recent(ctx, 1)
	ts.Require().NoError(recentErr)
	ts.Require().False(recent[0].Success)
}

func (ts *AccountRepositoryTestSuite) TestCounts() {
	ctx := context.Background()

	blocked := newTestAccount("blocked@example.com")
	blocked.Blocked = true

	ts.Require().NoError(ts.repo.Save(ctx, newTestAccount("user@example.com")))
	ts.Require().NoError(ts.repo.Save(ctx, blocked))

	total, err := ts.repo.CountAll(ctx)
	ts.Require().NoError(err)
	ts.Require().Equal(2, total)

	blockedCount, err := ts.repo.CountBlocked(ctx)
	ts.Require().NoError(err)
	ts.Require().Equal(1, blockedCount)
}

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	uuid "github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/suite"

	"github.com/sentraid/riskauth/internal/entity"
	"github.com/sentraid/riskauth/internal/repository"
)

type AttemptRepositoryTestSuite struct {
	suite.Suite
	repo *repository.AttemptRepository
}

func (ts *AttemptRepositoryTestSuite) SetupTest() {
	ts.repo = repository.NewAttemptRepository(repository.SetupTestDatabase(ts.T()))
}

func TestAttemptRepositoryTestSuite(t *testing.T) { //nolint:paralleltest
	suite.Run(t, new(AttemptRepositoryTestSuite))
}

func newTestAttempt(email string, success bool) entity.Attempt {
	return entity.Attempt{
		ID:                uuid.Must(uuid.NewV4()),
		Email:             email,
		IPAddress:         "192.168.1.10",
		DeviceFingerprint: "Mozilla/5.0 (X11; Linux x86_64)",
		Location:          entity.Location{Country: "Germany", City: "Berlin", Region: "Berlin"},
		RiskScore:         15,
		RiskLevel:         entity.RiskLevelLow,
		Success:           success,
		CreatedAt:         time.Now(),
	}
}

func (ts *AttemptRepositoryTestSuite) TestSave() {
	ctx := context.Background()

	err := ts.repo.Save(ctx, newTestAttempt("user@example.com", false))
	ts.Require().NoError(err)
}

func (ts *AttemptRepositoryTestSuite) TestMarkSuccess() {
	ctx := context.Background()
	attempt := newTestAttempt("user@example.com", false)

	err := ts.repo.Save(ctx, attempt)
	ts.Require().NoError(err)

	err = ts.repo.MarkSuccess(ctx, attempt.ID)
	ts.Require().NoError(err)

	// The flag is written once; a repeat flip is refused.
	err = ts.repo.MarkSuccess(ctx, attempt.ID)
	ts.Require().ErrorIs(err, entity.ErrAttemptClosed)
}

func (ts *AttemptRepositoryTestSuite) TestMarkSuccessNotFound() {
	ctx := context.Background()

	err := ts.repo.MarkSuccess(ctx, uuid.Must(uuid.NewV4()))
	ts.Require().ErrorIs(err, entity.ErrNotFound)
}

func (ts *AttemptRepositoryTestSuite) TestCountByEmail() {
	ctx := context.Background()
	email := "frequent@example.com"

	for range 3 {
		err := ts.repo.Save(ctx, newTestAttempt(email, false))
		ts.Require().NoError(err)
	}

	err := ts.repo.Save(ctx, newTestAttempt("other@example.com", false))
	ts.Require().NoError(err)

	count, err := ts.repo.CountByEmail(ctx, email, time.Now().Add(-1*time.Hour))
	ts.Require().NoError(err)
	ts.Require().Equal(3, count)

	// Attempts older than the window are not counted.
	count, err = ts.repo.CountByEmail(ctx, email, time.Now().Add(time.Minute))
	ts.Require().NoError(err)
	ts.Require().Zero(count)
}

func (ts *AttemptRepositoryTestSuite) TestCountFailedByEmail() {
	ctx := context.Background()
	email := "failing@example.com"

	err := ts.repo.Save(ctx, newTestAttempt(email, false))
	ts.Require().NoError(err)
	err = ts.repo.Save(ctx, newTestAttempt(email, true))
	ts.Require().NoError(err)

	count, err := ts.repo.CountFailedByEmail(ctx, email, time.Now().Add(-24*time.Hour))
	ts.Require().NoError(err)
	ts.Require().Equal(1, count)
}

func (ts *AttemptRepositoryTestSuite) TestSuccessfulDevices() {
	ctx := context.Background()
	accountID := uuid.Must(uuid.NewV4())

	devices := []string{"device-a", "device-b"}
	for _, device := range devices {
		attempt := newTestAttempt("user@example.com", true)
		attempt.AccountID = &accountID
		attempt.DeviceFingerprint = device

		err := ts.repo.Save(ctx, attempt)
		ts.Require().NoError(err)
	}

	// A failed attempt from a third device does not register it as known.
	failed := newTestAttempt("user@example.com", false)
	failed.AccountID = &accountID
	failed.DeviceFingerprint = "device-c"
	err := ts.repo.Save(ctx, failed)
	ts.Require().NoError(err)

	got, err := ts.repo.SuccessfulDevices(ctx, accountID)
	ts.Require().NoError(err)
	ts.Require().ElementsMatch(devices, got)
}

func (ts *AttemptRepositoryTestSuite) TestLastSuccessful() {
	ctx := context.Background()
	accountID := uuid.Must(uuid.NewV4())

	older := newTestAttempt("user@example.com", true)
	older.AccountID = &accountID
	older.Location = entity.Location{Country: "France", City: "Paris", Region: "IDF"}
	older.CreatedAt = time.Now().Add(-2 * time.Hour)

	newer := newTestAttempt("user@example.com", true)
	newer.AccountID = &accountID
	newer.CreatedAt = time.Now()

	ts.Require().NoError(ts.repo.Save(ctx, older))
	ts.Require().NoError(ts.repo.Save(ctx, newer))

	got, err := ts.repo.LastSuccessful(ctx, accountID)
	ts.Require().NoError(err)
	ts.Require().Equal(newer.ID, got.ID)
	ts.Require().Equal(newer.Location, got.Location)
}

func (ts *AttemptRepositoryTestSuite) TestLastSuccessfulNotFound() {
	ctx := context.Background()

	_, err := ts.repo.LastSuccessful(ctx, uuid.Must(uuid.NewV4()))
	ts.Require().ErrorIs(err, entity.ErrNotFound)
}

func (ts *AttemptRepositoryTestSuite) TestRecent() {
	ctx := context.Background()

	for i := range 5 {
		attempt := newTestAttempt(fmt.Sprintf("user%d@example.com", i), false)
		attempt.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)

		err := ts.repo.Save(ctx, attempt)
		ts.Require().NoError(err)
	}

	got, err := ts.repo.Recent(ctx, 3)
	ts.Require().NoError(err)
	ts.Require().Len(got, 3)
	ts.Require().Equal("user4@example.com", got[0].Email)
}

func (ts *AttemptRepositoryTestSuite) TestCountByLevel() {
	ctx := context.Background()

	low := newTestAttempt("a@example.com", false)
	medium := newTestAttempt("b@example.com", false)
	medium.RiskLevel = entity.RiskLevelMedium
	medium.RiskScore = 45

	ts.Require().NoError(ts.repo.Save(ctx, low))
	ts.Require().NoError(ts.repo.Save(ctx, medium))

	distribution, err := ts.repo.CountByLevel(ctx)
	ts.Require().NoError(err)
	ts.Require().Equal(1, distribution[entity.RiskLevelLow])
	ts.Require().Equal(1, distribution[entity.RiskLevelMedium])
}

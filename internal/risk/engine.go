// Package risk scores login and registration attempts from recent ledger
// signals and maps the resulting level to an authentication flow.
package risk

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	uuid "github.com/gofrs/uuid/v5"
	"github.com/sentraid/riskauth/internal/entity"
)

// Ledger is the read side of the attempt history the engine needs. The
// engine never writes; appending the scored attempt is the caller's job.
type Ledger interface {
	CountByEmail(ctx context.Context, email string, since time.Time) (int, error)
	CountFailedByEmail(ctx context.Context, email string, since time.Time) (int, error)
	SuccessfulDevices(ctx context.Context, accountID uuid.UUID) ([]string, error)
	LastSuccessful(ctx context.Context, accountID uuid.UUID) (entity.Attempt, error)
}

// LocationResolver maps an IP to a coarse location. It must degrade
// internally and never fail the scoring decision.
type LocationResolver interface {
	Resolve(ctx context.Context, ipAddress string) entity.Location
}

const (
	maxScore = 100

	highFrequencyCount     = 5
	moderateFrequencyCount = 3
	highFailureCount       = 3
	moderateFailureCount   = 1

	highFrequencyPoints     = 30
	moderateFrequencyPoints = 15
	highFailurePoints       = 25
	moderateFailurePoints   = 10
	newDevicePoints         = 20
	countryChangePoints     = 25
	cityChangePoints        = 10
)

const (
	factorHighFrequency     = "High frequency login attempts"
	factorModerateFrequency = "Moderate frequency login attempts"
	factorHighFailures      = "Multiple failed login attempts"
	factorModerateFailures  = "Some failed login attempts"
	factorNewDevice         = "New device detected"
	factorCountryChange     = "Location change detected"
	factorCityChange        = "City change detected"
)

const (
	lowThreshold    = 30
	mediumThreshold = 60
)

type Engine struct {
	ledger          Ledger
	resolver        LocationResolver
	frequencyWindow time.Duration
	failureWindow   time.Duration
	now             func() time.Time
}

func NewEngine(ledger Ledger, resolver LocationResolver, frequencyWindow, failureWindow time.Duration) *Engine {
	return &Engine{
		ledger:          ledger,
		resolver:        resolver,
		frequencyWindow: frequencyWindow,
		failureWindow:   failureWindow,
		now:             time.Now,
	}
}

// Score evaluates the additive point model against current ledger state.
// account is nil for unregistered emails; device and location factors are
// then skipped entirely. Ledger failures abort scoring; location lookups
// never do.
func (e *Engine) Score(
	ctx context.Context,
	email, ipAddress, deviceFingerprint string,
	account *entity.Account,
) (entity.RiskResult, error) {
	var (
		score   float64
		factors []string
	)

	now := e.now()

	recent, err := e.ledger.CountByEmail(ctx, email, now.Add(-e.frequencyWindow))
	if err != nil {
		return entity.RiskResult{}, fmt.Errorf("count recent attempts: %w", err)
	}

	switch {
	case recent > highFrequencyCount:
		score += highFrequencyPoints
		factors = append(factors, factorHighFrequency)
	case recent > moderateFrequencyCount:
		score += moderateFrequencyPoints
		factors = append(factors, factorModerateFrequency)
	}

	failed, err := e.ledger.CountFailedByEmail(ctx, email, now.Add(-e.failureWindow))
	if err != nil {
		return entity.RiskResult{}, fmt.Errorf("count failed attempts: %w", err)
	}

	switch {
	case failed > highFailureCount:
		score += highFailurePoints
		factors = append(factors, factorHighFailures)
	case failed > moderateFailureCount:
		score += moderateFailurePoints
		factors = append(factors, factorModerateFailures)
	}

	if account != nil {
		devices, err := e.ledger.SuccessfulDevices(ctx, account.ID)
		if err != nil {
			return entity.RiskResult{}, fmt.Errorf("load successful devices: %w", err)
		}

		// A first-ever login has no device history to deviate from.
		if len(devices) > 0 && !slices.Contains(devices, deviceFingerprint) {
			score += newDevicePoints
			factors = append(factors, factorNewDevice)
		}
	}

	// Always resolved so the result (and the ledger row built from it)
	// carries a location even when no comparison factor applies.
	location := e.resolver.Resolve(ctx, ipAddress)

	if account != nil {
		last, err := e.ledger.LastSuccessful(ctx, account.ID)
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			return entity.RiskResult{}, fmt.Errorf("load last successful attempt: %w", err)
		}

		if err == nil && last.Location != (entity.Location{}) {
			switch {
			case last.Location.Country != location.Country:
				score += countryChangePoints
				factors = append(factors, factorCountryChange)
			case last.Location.City != location.City:
				score += cityChangePoints
				factors = append(factors, factorCityChange)
			}
		}
	}

	score = min(score, maxScore)

	return entity.RiskResult{
		Score:    score,
		Level:    LevelFor(score),
		Factors:  factors,
		Location: location,
	}, nil
}

// LevelFor is the fixed score-to-level mapping: <30 LOW, <60 MEDIUM,
// otherwise HIGH.
func LevelFor(score float64) entity.RiskLevel {
	switch {
	case score < lowThreshold:
		return entity.RiskLevelLow
	case score < mediumThreshold:
		return entity.RiskLevelMedium
	default:
		return entity.RiskLevelHigh
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	uuid "github.com/gofrs/uuid/v5"

	"github.com/sentraid/riskauth/internal/entity"
	"github.com/sentraid/riskauth/internal/risk"
	"github.com/sentraid/riskauth/pkg/config"
)

type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (entity.Account, error)
	CreateWithAttempt(ctx context.Context, account entity.Account, attemptID uuid.UUID) error
	CountAll(ctx context.Context) (int, error)
	CountBlocked(ctx context.Context) (int, error)
}

type AttemptRepository interface {
	Save(ctx context.Context, attempt entity.Attempt) error
	MarkSuccess(ctx context.Context, attemptID uuid.UUID) error
	Recent(ctx context.Context, limit int) ([]entity.Attempt, error)
	CountAll(ctx context.Context) (int, error)
	CountByLevel(ctx context.Context) (map[entity.RiskLevel]int, error)
}

type RiskScorer interface {
	Score(ctx context.Context, email, ipAddress, deviceFingerprint string, account *entity.Account) (entity.RiskResult, error)
}

type ChallengeManager interface {
	Issue(ctx context.Context, email string) (entity.OTPChallenge, string, error)
	Verify(ctx context.Context, email, code string, attemptID uuid.UUID) error
}

type NotificationService interface {
	SendOTPCode(ctx context.Context, email, code string)
}

type Service struct {
	cfg          config.Config
	accountRepo  AccountRepository
	attemptRepo  AttemptRepository
	scorer       RiskScorer
	challenges   ChallengeManager
	notification NotificationService
}

func NewService(
	cfg config.Config,
	accountRepo AccountRepository,
	attemptRepo AttemptRepository,
	scorer RiskScorer,
	challenges ChallengeManager,
	notification NotificationService,
) *Service {
	return &Service{
		cfg:          cfg,
		accountRepo:  accountRepo,
		attemptRepo:  attemptRepo,
		scorer:       scorer,
		challenges:   challenges,
		notification: notification,
	}
}

type RegisterResult struct {
	Account entity.Account
	Token   string
	Risk    entity.RiskResult
}

type LoginDecision struct {
	Flow      entity.AuthFlow
	Risk      entity.RiskResult
	AttemptID uuid.UUID

	// DemoCode carries the issued OTP back to the caller in demo mode
	// only; production delivery goes through the notification topic.
	DemoCode string
}

type AuthResult struct {
	Account entity.Account
	Token   string
}

// Register scores a registration attempt for an unknown identity and, if
// the risk allows, creates the account. The scored attempt is committed
// even when registration is blocked: blocked attempts are signals too.
func (s *Service) Register(ctx context.Context, email, name, phone string) (RegisterResult, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return RegisterResult{}, err
	}

	if err := ValidateName(name); err != nil {
		return RegisterResult{}, err
	}

	_, err = s.accountRepo.FindByEmail(ctx, email)
	if err == nil {
		return RegisterResult{}, entity.ErrAlreadyExists
	}

	if !errors.Is(err, entity.ErrNotFound) {
		return RegisterResult{}, fmt.Errorf("check existing account: %w", err)
	}

	ip := entity.IPFromCtx(ctx)
	device := entity.UserAgentFromCtx(ctx)

	// No account exists yet, so only frequency and failure signals apply.
	riskResult, err := s.scorer.Score(ctx, email, ip, device, nil)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("score registration: %w", err)
	}

	attempt := s.newAttempt(email, ip, device, riskResult, nil)

	err = s.attemptRepo.Save(ctx, attempt)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("save attempt: %w", err)
	}

	if riskResult.Level == entity.RiskLevelHigh {
		slog.WarnContext(ctx, "registration blocked by risk",
			"email", email, "score", riskResult.Score, "factors", riskResult.Factors)

		return RegisterResult{}, &entity.RiskBlockedError{Risk: riskResult}
	}

	account := entity.Account{
		ID:        uuid.Must(uuid.NewV4()),
		Email:     email,
		Name:      name,
		Phone:     phone,
		CreatedAt: time.Now(),
	}

	err = s.accountRepo.CreateWithAttempt(ctx, account, attempt.ID)
	if err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			return RegisterResult{}, entity.ErrAlreadyExists
		}

		return RegisterResult{}, fmt.Errorf("create account: %w", err)
	}

	token, err := s.generateToken(account)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("generate token: %w", err)
	}

	slog.InfoContext(ctx, "registration successful",
		"email", email, "account_id", account.ID, "score", riskResult.Score)

	return RegisterResult{Account: account, Token: token, Risk: riskResult}, nil
}

// LoginCheck scores a login attempt for a known account and routes it:
// LOW gets the passwordless path, MEDIUM an OTP challenge, HIGH is
// rejected. The attempt is appended before the routing decision so a
// blocked attempt still feeds future frequency signals.
func (s *Service) LoginCheck(ctx context.Context, email string) (LoginDecision, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return LoginDecision{}, err
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return LoginDecision{}, fmt.Errorf("find account: %w", err)
	}

	if account.Blocked {
		return LoginDecision{}, entity.ErrAccountBlocked
	}

	ip := entity.IPFromCtx(ctx)
	device := entity.UserAgentFromCtx(ctx)

	riskResult, err := s.scorer.Score(ctx, email, ip, device, &account)
	if err != nil {
		return LoginDecision{}, fmt.Errorf("score login: %w", err)
	}

	attempt := s.newAttempt(email, ip, device, riskResult, &account.ID)

	err = s.attemptRepo.Save(ctx, attempt)
	if err != nil {
		return LoginDecision{}, fmt.Errorf("save attempt: %w", err)
	}

	flow := risk.DecideFlow(riskResult.Level)

	decision := LoginDecision{
		Flow:      flow,
		Risk:      riskResult,
		AttemptID: attempt.ID,
	}

	switch flow {
	case entity.AuthFlowBlocked:
		slog.WarnContext(ctx, "login blocked by risk",
			"email", email, "score", riskResult.Score, "factors", riskResult.Factors)

		return LoginDecision{}, &entity.RiskBlockedError{Risk: riskResult}

	case entity.AuthFlowOTP:
		_, code, err := s.challenges.Issue(ctx, email)
		if err != nil {
			return LoginDecision{}, fmt.Errorf("issue challenge: %w", err)
		}

		s.notification.SendOTPCode(ctx, email, code)

		if s.cfg.OTP.DemoMode {
			decision.DemoCode = code
		}

	case entity.AuthFlowPasswordless:
	}

	slog.InfoContext(ctx, "login routed",
		"email", email, "flow", flow, "score", riskResult.Score, "attempt_id", attempt.ID)

	return decision, nil
}

// PasswordlessLogin completes the low-risk path: the attempt from the
// preceding check is resolved and a token issued.
func (s *Service) PasswordlessLogin(ctx context.Context, email string, attemptID uuid.UUID) (AuthResult, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return AuthResult{}, err
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("find account: %w", err)
	}

	err = s.attemptRepo.MarkSuccess(ctx, attemptID)
	if err != nil && !errors.Is(err, entity.ErrNotFound) && !errors.Is(err, entity.ErrAttemptClosed) {
		return AuthResult{}, fmt.Errorf("mark attempt: %w", err)
	}

	if err != nil {
		slog.WarnContext(ctx, "passwordless login with unresolvable attempt",
			"email", email, "attempt_id", attemptID, "error", err)
	}

	token, err := s.generateToken(account)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate token: %w", err)
	}

	slog.InfoContext(ctx, "passwordless login successful", "email", email, "account_id", account.ID)

	return AuthResult{Account: account, Token: token}, nil
}

// VerifyOTP completes the medium-risk path. The challenge manager marks
// the challenge verified and the attempt successful atomically; only
// then is a token issued.
func (s *Service) VerifyOTP(ctx context.Context, email, code string, attemptID uuid.UUID) (AuthResult, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return AuthResult{}, err
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("find account: %w", err)
	}

	err = s.challenges.Verify(ctx, email, code, attemptID)
	if err != nil {
		return AuthResult{}, err
	}

	token, err := s.generateToken(account)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate token: %w", err)
	}

	slog.InfoContext(ctx, "otp verified", "email", email, "account_id", account.ID)

	return AuthResult{Account: account, Token: token}, nil
}

type Stats struct {
	TotalAccounts    int                      `json:"total_users"`
	TotalAttempts    int                      `json:"total_attempts"`
	BlockedAccounts  int                      `json:"blocked_users"`
	RiskDistribution map[entity.RiskLevel]int `json:"risk_distribution"`
	RecentAttempts   []entity.Attempt         `json:"recent_attempts"`
}

const recentAttemptsLimit = 10

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	totalAccounts, err := s.accountRepo.CountAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count accounts: %w", err)
	}

	blockedAccounts, err := s.accountRepo.CountBlocked(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count blocked accounts: %w", err)
	}

	totalAttempts, err := s.attemptRepo.CountAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count attempts: %w", err)
	}

	distribution, err := s.attemptRepo.CountByLevel(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count by level: %w", err)
	}

	for _, level := range []entity.RiskLevel{entity.RiskLevelLow, entity.RiskLevelMedium, entity.RiskLevelHigh} {
		if _, ok := distribution[level]; !ok {
			distribution[level] = 0
		}
	}

	recent, err := s.attemptRepo.Recent(ctx, recentAttemptsLimit)
	if err != nil {
		return Stats{}, fmt.Errorf("recent attempts: %w", err)
	}

	return Stats{
		TotalAccounts:    totalAccounts,
		TotalAttempts:    totalAttempts,
		BlockedAccounts:  blockedAccounts,
		RiskDistribution: distribution,
		RecentAttempts:   recent,
	}, nil
}

const defaultAttemptsLimit = 50

func (s *Service) Attempts(ctx context.Context, limit int) ([]entity.Attempt, error) {
	if limit <= 0 || limit > defaultAttemptsLimit {
		limit = defaultAttemptsLimit
	}

	attempts, err := s.attemptRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent attempts: %w", err)
	}

	return attempts, nil
}

func (s *Service) newAttempt(
	email, ip, device string,
	riskResult entity.RiskResult,
	accountID *uuid.UUID,
) entity.Attempt {
	return entity.Attempt{
		ID:                uuid.Must(uuid.NewV4()),
		AccountID:         accountID,
		Email:             email,
		IPAddress:         ip,
		DeviceFingerprint: device,
		Location:          riskResult.Location,
		RiskScore:         riskResult.Score,
		RiskLevel:         riskResult.Level,
		Success:           false,
		CreatedAt:         time.Now(),
	}
}

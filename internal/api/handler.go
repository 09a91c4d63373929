package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	uuid "github.com/gofrs/uuid/v5"

	"github.com/sentraid/riskauth/internal/entity"
	"github.com/sentraid/riskauth/internal/service"
	"github.com/sentraid/riskauth/pkg/logger"
)

type Service interface {
	Register(ctx context.Context, email, name, phone string) (service.RegisterResult, error)
	LoginCheck(ctx context.Context, email string) (service.LoginDecision, error)
	PasswordlessLogin(ctx context.Context, email string, attemptID uuid.UUID) (service.AuthResult, error)
	VerifyOTP(ctx context.Context, email, code string, attemptID uuid.UUID) (service.AuthResult, error)
	Stats(ctx context.Context) (service.Stats, error)
	Attempts(ctx context.Context, limit int) ([]entity.Attempt, error)
}

type Handler struct {
	s Service
}

func NewHandler(s Service) *Handler {
	return &Handler{s: s}
}

// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Backend is running",
	})
}

type RegisterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type RegisterResponse struct {
	Message  string            `json:"message"`
	User     entity.Account    `json:"user"`
	Token    string            `json:"token"`
	RiskData entity.RiskResult `json:"risk_data"`
}

// @Summary Register a new account
// @Description Scores the registration attempt; high risk is rejected.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} ResponseError "Malformed request"
// @Failure 403 {object} ResponseError "Blocked due to high risk"
// @Failure 409 {object} ResponseError "Account already exists"
// @Failure 422 {object} ResponseError "Invalid email or name"
// @Router /api/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := logger.SetLogType(r.Context(), "auth")

	var req RegisterRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Malformed request body")
		return
	}

	result, err := h.s.Register(ctx, req.Email, req.Name, req.Phone)
	if err != nil {
		h.sendRegisterErr(ctx, w, err)
		return
	}

	sendJSON(ctx, w, http.StatusCreated, RegisterResponse{
		Message:  "Registration successful",
		User:     result.Account,
		Token:    result.Token,
		RiskData: result.Risk,
	})
}

func (h *Handler) sendRegisterErr(ctx context.Context, w http.ResponseWriter, err error) {
	var blocked *entity.RiskBlockedError

	switch {
	case errors.As(err, &blocked):
		sendJSON(ctx, w, http.StatusForbidden, ResponseError{
			Message:  "Registration blocked due to high risk",
			RiskData: &blocked.Risk,
		})
	case errors.Is(err, entity.ErrAlreadyExists):
		sendErr(ctx, w, http.StatusConflict, err, "User already exists")
	case errors.Is(err, entity.ErrEmailInvalidFormat), errors.Is(err, entity.ErrEmailInvalidLen),
		errors.Is(err, entity.ErrNameInvalidLen):
		sendErr(ctx, w, http.StatusUnprocessableEntity, err, err.Error())
	default:
		sendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
	}
}

type LoginCheckRequest struct {
	Email string `json:"email"`
}

type LoginCheckResponse struct {
	AuthFlow  entity.AuthFlow   `json:"auth_flow"`
	RiskData  entity.RiskResult `json:"risk_data"`
	AttemptID uuid.UUID         `json:"attempt_id"`
	Message   string            `json:"message,omitempty"`
	OTPCode   string            `json:"otp_code,omitempty"`
}

// @Summary Score a login attempt and pick the authentication flow
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginCheckRequest true "Login identity"
// @Success 200 {object} LoginCheckResponse
// @Failure 400 {object} ResponseError "Malformed request"
// @Failure 403 {object} ResponseError "Blocked account or high risk"
// @Failure 404 {object} ResponseError "Unknown user"
// @Router /api/login/check [post]
func (h *Handler) LoginCheck(w http.ResponseWriter, r *http.Request) {
	ctx := logger.SetLogType(r.Context(), "auth")

	var req LoginCheckRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Malformed request body")
		return
	}

	decision, err := h.s.LoginCheck(ctx, req.Email)
	if err != nil {
		h.sendLoginErr(ctx, w, err)
		return
	}

	resp := LoginCheckResponse{
		AuthFlow:  decision.Flow,
		RiskData:  decision.Risk,
		AttemptID: decision.AttemptID,
	}

	if decision.Flow == entity.AuthFlowOTP {
		resp.Message = "OTP sent to your registered contact"

		if decision.DemoCode != "" {
			resp.Message = "OTP sent to your registered contact. Demo OTP: " + decision.DemoCode
			resp.OTPCode = decision.DemoCode
		}
	}

	sendJSON(ctx, w, http.StatusOK, resp)
}

func (h *Handler) sendLoginErr(ctx context.Context, w http.ResponseWriter, err error) {
	var blocked *entity.RiskBlockedError

	switch {
	case errors.As(err, &blocked):
		sendJSON(ctx, w, http.StatusForbidden, ResponseError{
			Message:  "Login blocked due to suspicious activity",
			RiskData: &blocked.Risk,
		})
	case errors.Is(err, entity.ErrAccountBlocked):
		sendErr(ctx, w, http.StatusForbidden, err, "User account is blocked")
	case errors.Is(err, entity.ErrNotFound):
		sendErr(ctx, w, http.StatusNotFound, err, "User not found")
	case errors.Is(err, entity.ErrEmailInvalidFormat), errors.Is(err, entity.ErrEmailInvalidLen):
		sendErr(ctx, w, http.StatusUnprocessableEntity, err, err.Error())
	default:
		sendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
	}
}

type PasswordlessLoginRequest struct {
	Email     string    `json:"email"`
	AttemptID uuid.UUID `json:"attempt_id"`
}

type AuthResponse struct {
	Message string         `json:"message"`
	User    entity.Account `json:"user"`
	Token   string         `json:"token"`
}

// @Summary Complete a low-risk passwordless login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body PasswordlessLoginRequest true "Identity and attempt reference"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ResponseError "Malformed request"
// @Failure 404 {object} ResponseError "Unknown user"
// @Router /api/login/passwordless [post]
func (h *Handler) PasswordlessLogin(w http.ResponseWriter, r *http.Request) {
	ctx := logger.SetLogType(r.Context(), "auth")

	var req PasswordlessLoginRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Malformed request body")
		return
	}

	result, err := h.s.PasswordlessLogin(ctx, req.Email, req.AttemptID)
	if err != nil {
		h.sendLoginErr(ctx, w, err)
		return
	}

	sendJSON(ctx, w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    result.Account,
		Token:   result.Token,
	})
}

type VerifyOTPRequest struct {
	Email     string    `json:"email"`
	OTPCode   string    `json:"otp_code"`
	AttemptID uuid.UUID `json:"attempt_id"`
}

// @Summary Verify a one-time code
// @Description Consumes the newest matching unverified challenge; a code never verifies twice.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Identity, code and attempt reference"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ResponseError "Invalid code"
// @Failure 404 {object} ResponseError "Unknown user"
// @Failure 410 {object} ResponseError "Expired code"
// @Router /api/login/verify-otp [post]
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := logger.SetLogType(r.Context(), "auth")

	var req VerifyOTPRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		sendErr(ctx, w, http.StatusBadRequest, err, "Malformed request body")
		return
	}

	result, err := h.s.VerifyOTP(ctx, req.Email, req.OTPCode, req.AttemptID)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrCodeInvalid):
			sendErr(ctx, w, http.StatusBadRequest, err, "Invalid OTP")
		case errors.Is(err, entity.ErrCodeExpired):
			sendErr(ctx, w, http.StatusGone, err, "OTP expired")
		default:
			h.sendLoginErr(ctx, w, err)
		}

		return
	}

	sendJSON(ctx, w, http.StatusOK, AuthResponse{
		Message: "OTP verified successfully",
		User:    result.Account,
		Token:   result.Token,
	})
}

// @Summary Aggregate attempt and account statistics
// @Tags admin
// @Produce json
// @Success 200 {object} service.Stats
// @Router /api/admin/stats [get]
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	ctx := logger.SetLogType(r.Context(), "admin")

	stats, err := h.s.Stats(ctx)
	if err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
		return
	}

	sendJSON(ctx, w, http.StatusOK, stats)
}

type AttemptsResponse struct {
	Attempts []entity.Attempt `json:"attempts"`
}

// @Summary Recent attempts, newest first
// @Tags admin
// @Produce json
// @Param limit query int false "Max rows (default and cap 50)"
// @Success 200 {object} AttemptsResponse
// @Router /api/admin/attempts [get]
func (h *Handler) AdminAttempts(w http.ResponseWriter, r *http.Request) {
	ctx := logger.SetLogType(r.Context(), "admin")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	attempts, err := h.s.Attempts(ctx, limit)
	if err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
		return
	}

	if attempts == nil {
		attempts = []entity.Attempt{}
	}

	sendJSON(ctx, w, http.StatusOK, AttemptsResponse{Attempts: attempts})
}

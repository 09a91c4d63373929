package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sentraid/riskauth/internal/entity"
)

const errInternalText = "Internal error"

type ResponseError struct {
	Message  string             `json:"message"`
	RiskData *entity.RiskResult `json:"risk_data,omitempty"`
}

func sendErr(ctx context.Context, w http.ResponseWriter, code int, err error, msg string) {
	slog.ErrorContext(ctx, msg, "error", err.Error(), "http_code", code)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err = json.NewEncoder(w).Encode(ResponseError{
		Message: msg,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode error response",
			"error", err.Error(),
			"http_code", http.StatusInternalServerError)
	}
}

func sendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode response",
			"error", err.Error(),
			"http_code", code)
	}
}

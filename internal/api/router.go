package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/sentraid/riskauth/docs" // Swagger documentation
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("/api/health", h.Health)

	router.HandleFunc("POST /api/register", h.Register)
	router.HandleFunc("POST /api/login/check", h.LoginCheck)
	router.HandleFunc("POST /api/login/passwordless", h.PasswordlessLogin)
	router.HandleFunc("POST /api/login/verify-otp", h.VerifyOTP)

	router.HandleFunc("GET /api/admin/stats", h.AdminStats)
	router.HandleFunc("GET /api/admin/attempts", h.AdminAttempts)

	router.HandleFunc("/api/swagger/", httpSwagger.WrapHandler)

	handler := use(router, mw.Recover, mw.Cors, mw.WithIP, mw.WithDevice, mw.RateLimit, mw.Log)

	return handler
}

func use(handler http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}

	return handler
}

package service

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/sentraid/riskauth/internal/entity"
)

type TokenClaims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Service) generateToken(account entity.Account) (string, error) {
	now := time.Now()

	claims := TokenClaims{
		AccountID: account.ID.String(),
		Email:     account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.TokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.cfg.JWT.Secret))
}

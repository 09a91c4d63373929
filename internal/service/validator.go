package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sentraid/riskauth/internal/entity"
)

const (
	EmailMaxLen = 255
	NameMaxLen  = 100
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) error {
	if len(email) > EmailMaxLen {
		return entity.ErrEmailInvalidLen
	}

	if !emailRegexp.MatchString(email) {
		return entity.ErrEmailInvalidFormat
	}

	if strings.Contains(email, "..") {
		return entity.ErrEmailInvalidFormat
	}

	return nil
}

// NormalizeEmail fixes the identity's case policy: emails are trimmed and
// lowercased before any store or ledger lookup, so risk history for
// User@Example.com and user@example.com is one history.
func NormalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	err := ValidateEmail(normalized)
	if err != nil {
		return "", err
	}

	return normalized, nil
}

func ValidateName(name string) error {
	nameLen := utf8.RuneCountInString(strings.TrimSpace(name))
	if nameLen < 1 || nameLen > NameMaxLen {
		return entity.ErrNameInvalidLen
	}

	return nil
}

package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Common validation errors
var (
	ErrInvalidDate = fmt.Errorf("invalid date, expected YYYY-MM-DD")
	ErrEmptyString = fmt.Errorf("value cannot be empty")
)

// ValidateDate checks that s is a YYYY-MM-DD date.
func ValidateDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, s)
	}
	return nil
}

// ValidateEmail checks that s is a bare email address.
func ValidateEmail(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyString
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return fmt.Errorf("invalid email: %s", s)
	}
	return nil
}

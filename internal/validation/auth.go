package validation

import (
	"strings"

	"github.com/peasy-money/peasy-money-backend/internal/api/request"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ValidateRegister validates a registration request.
func ValidateRegister(req request.RegisterRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Username) == "" {
		errors["username"] = "username is required"
	} else if len(req.Username) > 50 {
		errors["username"] = "username cannot exceed 50 characters"
	}

	if err := ValidateEmail(req.Email); err != nil {
		errors["email"] = err.Error()
	}

	if len(req.Password) < MinPasswordLength {
		errors["password"] = "password must be at least 8 characters"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateLogin checks that both login form fields are present.
func ValidateLogin(req request.LoginRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Username) == "" {
		errors["username"] = "username is required"
	}
	if req.Password == "" {
		errors["password"] = "password is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail checks a digest recipient address (RFC 5322, max 254 characters)
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}

	// Reject display-name forms like "Bob <bob@example.com>"
	if addr.Address != email {
		return errors.New("email address must not include a display name")
	}

	return nil
}

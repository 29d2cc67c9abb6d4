package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goalweek/goalweek/internal/model"
)

const maxTitleLength = 100

var (
	ErrInvalidTitle     = errors.New("invalid title")
	ErrInvalidFrequency = errors.New("invalid desired weekly frequency")
)

// ValidateTitle validates a goal title and returns it trimmed
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidTitle)
	}

	if utf8.RuneCountInString(trimmed) > maxTitleLength {
		return "", fmt.Errorf("%w: title is too long (max %d characters)", ErrInvalidTitle, maxTitleLength)
	}

	return trimmed, nil
}

// ValidateFrequency checks the desired completions per week
func ValidateFrequency(frequency int) error {
	if frequency < model.MinWeeklyFrequency || frequency > model.MaxWeeklyFrequency {
		return fmt.Errorf("%w: must be between %d and %d", ErrInvalidFrequency, model.MinWeeklyFrequency, model.MaxWeeklyFrequency)
	}
	return nil
}

// ValidateID checks that an identifier is present
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("goal id is required")
	}
	return nil
}

package domain

import (
	"fmt"
	"strings"
)

func ValidateName(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if len(v) > 200 {
		return fmt.Errorf("%w: name must be <= 200 chars", ErrInvalidInput)
	}
	return nil
}

func ValidateDescription(v string) error {
	if len(v) > 2000 {
		return fmt.Errorf("%w: description must be <= 2000 chars", ErrInvalidInput)
	}
	return nil
}

func ValidatePrice(v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	}
	return nil
}

package service

import (
	"errors"
	"fmt"
	"math"

	"retirement-match/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = repository.ErrNotFound
)

// ValidationError names the offending field. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// checkAmount rejects value unless it is finite, non-negative and, when max is
// positive, at most max.
func checkAmount(field string, value, max float64) error {
	var reason string
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		reason = "must be a finite number"
	case value < 0:
		reason = "must not be negative"
	case max > 0 && value > max:
		reason = "exceeds the maximum allowed"
	default:
		return nil
	}
	return &ValidationError{Field: field, Reason: reason}
}

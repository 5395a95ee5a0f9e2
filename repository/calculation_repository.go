package repository

import (
	"context"
	"errors"

	"retirement-match/domain"
)

var ErrNotFound = errors.New("calculation not found")

// CalculationRepository persists calculations saved by users.
type CalculationRepository interface {
	Save(ctx context.Context, calc domain.SavedCalculation) error
	// ListByUser returns at most limit calculations, newest first.
	// A limit of zero or less means no limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.SavedCalculation, error)
	Get(ctx context.Context, id string) (domain.SavedCalculation, error)
	Delete(ctx context.Context, id string) error
}

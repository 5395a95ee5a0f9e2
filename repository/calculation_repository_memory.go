package repository

import (
	"context"
	"sort"
	"sync"

	"retirement-match/domain"
)

// CalculationRepositoryMemory is an in-memory implementation of CalculationRepository.
type CalculationRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string]domain.SavedCalculation
}

// NewCalculationRepositoryMemory creates a new in-memory calculation repository.
func NewCalculationRepositoryMemory() *CalculationRepositoryMemory {
	return &CalculationRepositoryMemory{
		data: make(map[string]domain.SavedCalculation),
	}
}

// Save stores the calculation in memory, replacing one with the same ID.
func (r *CalculationRepositoryMemory) Save(
	_ context.Context,
	calc domain.SavedCalculation,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[calc.ID] = calc
	return nil
}

func (r *CalculationRepositoryMemory) ListByUser(
	_ context.Context,
	userID string,
	limit int,
) ([]domain.SavedCalculation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.SavedCalculation{}
	for _, calc := range r.data {
		if calc.UserID == userID {
			result = append(result, calc)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *CalculationRepositoryMemory) Get(_ context.Context, id string) (domain.SavedCalculation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	calc, ok := r.data[id]
	if !ok {
		return domain.SavedCalculation{}, ErrNotFound
	}
	return calc, nil
}

func (r *CalculationRepositoryMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

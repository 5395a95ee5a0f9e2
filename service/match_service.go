package service

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"retirement-match/calculator"
	"retirement-match/domain"
	"retirement-match/metrics"
	"retirement-match/repository"
)

// Limits bounds what the API accepts. The calculator itself takes any number.
type Limits struct {
	MaxAnnualSalary  float64
	MaxMonthlyAmount float64
	MaxListed        int
}

type MatchService struct {
	repo    repository.CalculationRepository
	cache   repository.CacheRepository
	metrics *metrics.Registry
	logger  zerolog.Logger
	limits  Limits

	now   func() time.Time
	newID func() string
}

// NewMatchService creates a new MatchService with the given repository and cache.
func NewMatchService(
	repo repository.CalculationRepository,
	cache repository.CacheRepository,
	m *metrics.Registry,
	logger zerolog.Logger,
	limits Limits,
) *MatchService {
	return &MatchService{
		repo:    repo,
		cache:   cache,
		metrics: m,
		logger:  logger.With().Str("component", "match_service").Logger(),
		limits:  limits,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Defaults returns the inputs the calculator form starts from.
func (s *MatchService) Defaults() domain.CalculatorInputs {
	return domain.DefaultInputs()
}

// Calculate validates input, computes (or reuses) the match estimate and, when
// userID is set, saves it for that user.
func (s *MatchService) Calculate(
	ctx context.Context,
	userID string,
	input domain.CalculatorInputs,
) (domain.CalculationResponse, error) {
	start := time.Now()
	defer func() {
		s.metrics.CalculationDuration.Observe(time.Since(start).Seconds())
	}()

	if err := s.validate(userID, input); err != nil {
		return domain.CalculationResponse{}, err
	}

	key := cacheKey(input)
	results, cached := s.cached(ctx, key)
	if cached {
		s.metrics.Calculations.WithLabelValues("hit").Inc()
	} else {
		s.metrics.Calculations.WithLabelValues("miss").Inc()
		results = calculator.Calculate(input)
		s.store(ctx, key, results)
	}

	resp := domain.CalculationResponse{
		Inputs:  input,
		Results: results,
		Display: calculator.Display(results),
		Cached:  cached,
	}

	if userID != "" {
		saved := domain.SavedCalculation{
			ID:        s.newID(),
			UserID:    userID,
			Inputs:    input,
			Results:   results,
			CreatedAt: s.now().UTC(),
		}
		// Saving is not critical for the estimate itself.
		if err := s.repo.Save(ctx, saved); err != nil {
			s.metrics.SideEffectErrors.WithLabelValues("storage").Inc()
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to save calculation")
		} else {
			s.metrics.SavedCalculations.Inc()
			resp.SavedID = saved.ID
		}
	}

	s.logger.Debug().
		Bool("cached", cached).
		Float64("eligible_match", results.EligibleMatchAmount).
		Dur("took", time.Since(start)).
		Msg("match calculated")

	return resp, nil
}

// Saved lists a user's saved calculations, newest first.
func (s *MatchService) Saved(ctx context.Context, userID string) ([]domain.SavedCalculation, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "is required"}
	}
	return s.repo.ListByUser(ctx, userID, s.limits.MaxListed)
}

func (s *MatchService) SavedByID(ctx context.Context, id string) (domain.SavedCalculation, error) {
	return s.repo.Get(ctx, id)
}

func (s *MatchService) DeleteSaved(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *MatchService) validate(userID string, in domain.CalculatorInputs) error {
	checks := []struct {
		field string
		value float64
		max   float64
	}{
		{"annualSalary", in.AnnualSalary, s.limits.MaxAnnualSalary},
		{"monthlyLoanPayment", in.MonthlyLoanPayment, s.limits.MaxMonthlyAmount},
		{"matchPercentage", in.MatchPercentage, MaxPercentage},
		{"matchCap", in.MatchCap, MaxPercentage},
		{"monthly401kContribution", in.Monthly401kContribution, s.limits.MaxMonthlyAmount},
	}

	for _, c := range checks {
		if err := checkAmount(c.field, c.value, c.max); err != nil {
			s.metrics.ValidationFailures.WithLabelValues(c.field).Inc()
			return err
		}
	}

	if len(userID) > MaxUserIDLength {
		s.metrics.ValidationFailures.WithLabelValues("userId").Inc()
		return &ValidationError{Field: "userId", Reason: "is too long"}
	}
	return nil
}

func (s *MatchService) cached(ctx context.Context, key string) (domain.CalculatorResults, bool) {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.CalculatorResults{}, false
	}

	var results domain.CalculatorResults
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		return domain.CalculatorResults{}, false
	}
	return results, true
}

func (s *MatchService) store(ctx context.Context, key string, results domain.CalculatorResults) {
	data, err := json.Marshal(results)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode results for cache")
		return
	}
	if err := s.cache.Set(ctx, key, string(data)); err != nil {
		s.metrics.SideEffectErrors.WithLabelValues("cache").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache results")
	}
}

// cacheKey hashes the exact bit patterns of the inputs, so inputs that differ
// in the last bit never share an entry.
func cacheKey(in domain.CalculatorInputs) string {
	var buf [5 * 8]byte
	fields := [...]float64{
		in.AnnualSalary,
		in.MonthlyLoanPayment,
		in.MatchPercentage,
		in.MatchCap,
		in.Monthly401kContribution,
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}

	var sum [8]byte
	binary.BigEndian.PutUint64(sum[:], xxhash.Sum64(buf[:]))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

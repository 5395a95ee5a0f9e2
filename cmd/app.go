package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"retirement-match/config"
	httpLayer "retirement-match/http"
	"retirement-match/metrics"
	"retirement-match/repository"
	"retirement-match/service"
)

// app is the fully wired service.
type app struct {
	handler     http.Handler
	rateLimiter *httpLayer.RateLimiter
	closers     []func() error
}

func (a *app) Close() error {
	a.rateLimiter.Stop()

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildApp(cfg config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{}

	var calcRepo repository.CalculationRepository
	switch cfg.Storage.Backend {
	case "sqlite":
		repo, err := repository.OpenCalculationRepositorySQLite(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("opening storage: %w", err)
		}
		a.closers = append(a.closers, repo.Close)
		calcRepo = repo
	default:
		calcRepo = repository.NewCalculationRepositoryMemory()
	}

	var cache repository.CacheRepository
	switch cfg.Cache.Backend {
	case "redis":
		redisCache := repository.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.TTL, repository.BreakerSettings{
			ConsecutiveFailures: cfg.Cache.Breaker.ConsecutiveFailures,
			OpenTimeout:         cfg.Cache.Breaker.OpenTimeout,
		}, logger)
		a.closers = append(a.closers, redisCache.Close)
		cache = redisCache
	default:
		memCache := repository.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.MaxEntries)
		a.closers = append(a.closers, memCache.Close)
		cache = memCache
	}

	m := metrics.NewRegistry()

	matchService := service.NewMatchService(calcRepo, cache, m, logger, service.Limits{
		MaxAnnualSalary:  cfg.Limits.MaxAnnualSalary,
		MaxMonthlyAmount: cfg.Limits.MaxMonthlyAmount,
		MaxListed:        cfg.Limits.MaxSavedPerUserListed,
	})
	eligibilityService := service.NewEligibilityService(matchService, m)

	advisorCfg := cfg.Recommendation.Advisor
	advisor := service.NewAIService(service.AIConfig{
		APIKey:      advisorCfg.APIKey,
		APIURL:      advisorCfg.APIURL,
		Model:       advisorCfg.Model,
		Timeout:     advisorCfg.Timeout,
		MaxTokens:   advisorCfg.MaxTokens,
		Temperature: advisorCfg.Temperature,
	})
	logger.Info().Bool("advisor_enabled", advisor.Enabled()).Str("model", advisorCfg.Model).Msg("match advisor configured")

	recommendationService := service.NewRecommendationService(advisor, service.RecommendationSettings{
		ExchangeRates: cfg.Recommendation.ExchangeRates,
		TaxBracket:    cfg.Recommendation.TaxBracket,
	}, m, logger)

	a.rateLimiter = httpLayer.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Interval)

	a.handler = httpLayer.NewRouter(httpLayer.RouterDeps{
		MatchService:          matchService,
		EligibilityService:    eligibilityService,
		RecommendationService: recommendationService,
		Metrics:               m,
		RateLimiter:           a.rateLimiter,
		Logger:                logger,
	})

	return a, nil
}

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"retirement-match/metrics"
	"retirement-match/repository"
	"retirement-match/service"
)

type testServer struct {
	handler http.Handler
	metrics *metrics.Registry
	repo    *repository.CalculationRepositoryMemory
}

func newTestServer(t *testing.T, limiter *RateLimiter) *testServer {
	t.Helper()

	m := metrics.NewRegistry()
	repo := repository.NewCalculationRepositoryMemory()
	matchService := service.NewMatchService(repo, repository.NewMemoryCache(0, 0), m, zerolog.Nop(), service.Limits{
		MaxAnnualSalary:  100_000_000,
		MaxMonthlyAmount: 10_000_000,
		MaxListed:        100,
	})

	recommendationService := service.NewRecommendationService(
		service.NewAIService(service.AIConfig{}),
		service.RecommendationSettings{ExchangeRates: map[string]float64{"INR": 0.012}, TaxBracket: 0.22},
		m, zerolog.Nop(),
	)

	t.Cleanup(limiter.Stop)

	return &testServer{
		handler: NewRouter(RouterDeps{
			MatchService:          matchService,
			EligibilityService:    service.NewEligibilityService(matchService, m),
			RecommendationService: recommendationService,
			Metrics:               m,
			RateLimiter:           limiter,
			Logger:                zerolog.Nop(),
		}),
		metrics: m,
		repo:    repo,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

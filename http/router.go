package http

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"retirement-match/metrics"
	"retirement-match/service"
)

type RouterDeps struct {
	MatchService          *service.MatchService
	EligibilityService    *service.EligibilityService
	RecommendationService *service.RecommendationService
	Metrics               *metrics.Registry
	RateLimiter           *RateLimiter
	Logger                zerolog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger.With().Str("component", "http").Logger()

	matchHandler := NewMatchHandler(deps.MatchService, logger)
	eligibilityHandler := NewEligibilityHandler(deps.EligibilityService, logger)
	recommendationHandler := NewRecommendationHandler(deps.RecommendationService, logger)

	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	handle := func(method, path string, h http.HandlerFunc, limited bool) {
		var next http.Handler = h
		if limited {
			next = RateLimitMiddleware(deps.RateLimiter, deps.Metrics, next)
		}
		router.Handler(method, path, LoggingMiddleware(logger, deps.Metrics, path, next))
	}

	handle(http.MethodPost, "/match/calculate", matchHandler.Calculate, true)
	handle(http.MethodGet, "/match/defaults", matchHandler.Defaults, false)
	handle(http.MethodPost, "/match/recommend", recommendationHandler.Recommend, true)
	handle(http.MethodGet, "/users/:userID/calculations", matchHandler.ListSaved, true)
	handle(http.MethodGet, "/calculations/:id", matchHandler.GetSaved, true)
	handle(http.MethodDelete, "/calculations/:id", matchHandler.DeleteSaved, true)
	handle(http.MethodPost, "/eligibility/check", eligibilityHandler.Check, true)
	handle(http.MethodGet, "/healthz", health, false)

	router.Handler(http.MethodGet, "/metrics", deps.Metrics.Handler())

	return router
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"retirement-match/domain"
	"retirement-match/service"
)

type RecommendationHandler struct {
	service *service.RecommendationService
	logger  zerolog.Logger
}

func NewRecommendationHandler(service *service.RecommendationService, logger zerolog.Logger) *RecommendationHandler {
	return &RecommendationHandler{service: service, logger: logger}
}

// Recommend answers POST /match/recommend. Policy fields left out of the
// request keep their defaults.
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	req := domain.RecommendationRequest{EmployerMatchPolicy: domain.DefaultMatchPolicy()}
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Recommend(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

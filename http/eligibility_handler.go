package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"retirement-match/domain"
	"retirement-match/service"
)

type EligibilityHandler struct {
	service *service.EligibilityService
	logger  zerolog.Logger
}

func NewEligibilityHandler(service *service.EligibilityService, logger zerolog.Logger) *EligibilityHandler {
	return &EligibilityHandler{service: service, logger: logger}
}

func (h *EligibilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req domain.EligibilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.CheckAndEstimate(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

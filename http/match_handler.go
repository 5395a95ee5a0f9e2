package http

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"retirement-match/domain"
	"retirement-match/service"
)

type MatchHandler struct {
	service *service.MatchService
	logger  zerolog.Logger
}

func NewMatchHandler(service *service.MatchService, logger zerolog.Logger) *MatchHandler {
	return &MatchHandler{service: service, logger: logger}
}

type calculateRequest struct {
	UserID string `json:"userId"`
	domain.CalculatorInputs
}

type savedListResponse struct {
	UserID       string                    `json:"userId"`
	Calculations []domain.SavedCalculation `json:"calculations"`
}

func (h *MatchHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.Calculate(r.Context(), req.UserID, req.CalculatorInputs)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *MatchHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Defaults())
}

func (h *MatchHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	userID := httprouter.ParamsFromContext(r.Context()).ByName("userID")

	calcs, err := h.service.Saved(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, savedListResponse{UserID: userID, Calculations: calcs})
}

func (h *MatchHandler) GetSaved(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	calc, err := h.service.SavedByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, calc)
}

func (h *MatchHandler) DeleteSaved(w http.ResponseWriter, r *http.Request) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	if err := h.service.DeleteSaved(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"
	"strconv"

	"algo_tracker/internal/api/middleware"
	"algo_tracker/internal/app/service"
	"algo_tracker/internal/common"

	"github.com/go-chi/chi/v5"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/dashboard", h.dashboard)
	r.Get("/difficulty", h.difficultyBreakdown)
	r.Get("/activity", h.activity)
}

func (h *StatsHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	stats, err := h.statsService.Dashboard(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

// activity returns submission counts per day over a trailing window.
// ?days= controls the window; the service clamps it.
func (h *StatsHandler) activity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	points, err := h.statsService.Activity(r.Context(), userID, days)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, points)
}

func (h *StatsHandler) difficultyBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	breakdown, err := h.statsService.DifficultyBreakdown(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, breakdown)
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"algo_tracker/internal/api/middleware"
	"algo_tracker/internal/app/service"
	"algo_tracker/internal/common"

	"github.com/go-chi/chi/v5"
)

type ContestHandler struct {
	contestService  *service.ContestService
	reminderService *service.ReminderService
}

func NewContestHandler(contestService *service.ContestService, reminderService *service.ReminderService) *ContestHandler {
	return &ContestHandler{contestService: contestService, reminderService: reminderService}
}

func (h *ContestHandler) RegisterRoutes(r chi.Router) {
	r.Get("/upcoming", h.listUpcoming)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Get("/reminders", h.listReminders)
		auth.Post("/reminders", h.createReminder)
		auth.Get("/reminders/settings", h.getReminderSettings)
		auth.Put("/reminders/settings", h.updateReminderSettings)
		auth.Delete("/reminders/{reminderID}", h.deleteReminder)
	})
}

func (h *ContestHandler) listUpcoming(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	contests, err := h.contestService.ListUpcoming(r.Context(), limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contests)
}

type createReminderRequest struct {
	ContestID     string `json:"contest_id"`
	MinutesBefore int    `json:"minutes_before"`
}

func (h *ContestHandler) createReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var req createReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	reminder, err := h.reminderService.Create(r.Context(), userID, req.ContestID, req.MinutesBefore)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, reminder)
}

func (h *ContestHandler) listReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	reminders, err := h.reminderService.List(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, reminders)
}

func (h *ContestHandler) getReminderSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	settings, err := h.reminderService.Settings(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, settings)
}

type updateReminderSettingsRequest struct {
	DefaultMinutesBefore int  `json:"default_minutes_before"`
	EmailEnabled         bool `json:"email_enabled"`
}

func (h *ContestHandler) updateReminderSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var req updateReminderSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	settings, err := h.reminderService.UpdateSettings(r.Context(), userID, req.DefaultMinutesBefore, req.EmailEnabled)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, settings)
}

func (h *ContestHandler) deleteReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	if err := h.reminderService.Delete(r.Context(), chi.URLParam(r, "reminderID"), userID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "reminder deleted"})
}

package handler

import (
	"encoding/json"
	"net/http"

	"algo_tracker/internal/api/middleware"
	"algo_tracker/internal/app/service"
	"algo_tracker/internal/common"

	"github.com/go-chi/chi/v5"
)

type PlatformHandler struct {
	platformService *service.PlatformService
}

func NewPlatformHandler(platformService *service.PlatformService) *PlatformHandler {
	return &PlatformHandler{platformService: platformService}
}

func (h *PlatformHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listPlatforms)

	r.Group(func(auth chi.Router) {
		auth.Use(middleware.Authenticator)
		auth.Get("/connections", h.listConnections)
		auth.Post("/{platformName}/connect", h.connect)
		auth.Delete("/{platformName}/connect", h.disconnect)
		auth.Get("/sync-status", h.syncStatuses)
	})
}

func (h *PlatformHandler) listPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.platformService.ListPlatforms(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, platforms)
}

func (h *PlatformHandler) listConnections(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	links, err := h.platformService.ListConnections(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, links)
}

type connectRequest struct {
	Username string `json:"username"`
}

func (h *PlatformHandler) connect(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	link, err := h.platformService.Connect(r.Context(), userID, chi.URLParam(r, "platformName"), req.Username)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, link)
}

func (h *PlatformHandler) disconnect(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	if err := h.platformService.Disconnect(r.Context(), userID, chi.URLParam(r, "platformName")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "platform disconnected"})
}

func (h *PlatformHandler) syncStatuses(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}
	statuses, err := h.platformService.SyncStatuses(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, statuses)
}

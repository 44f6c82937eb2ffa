package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"algo_tracker/internal/api/middleware"
	"algo_tracker/internal/app/service"
	"algo_tracker/internal/app/worker"
	"algo_tracker/internal/common"

	"github.com/go-chi/chi/v5"
)

type SyncHandler struct {
	syncService     *service.SyncService
	platformService *service.PlatformService
	syncWorker      *worker.SyncWorker
}

func NewSyncHandler(syncService *service.SyncService, platformService *service.PlatformService, syncWorker *worker.SyncWorker) *SyncHandler {
	return &SyncHandler{syncService: syncService, platformService: platformService, syncWorker: syncWorker}
}

func (h *SyncHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/{platformName}", h.syncPlatform)
	r.Post("/", h.syncAll)
	r.Post("/{platformName}/enqueue", h.enqueueSync)
}

// syncPlatform runs a sync inline and reports the structured result.
// A failed sync is still a 200: the outcome lives in the body and the
// sync_status row, not in the HTTP status.
func (h *SyncHandler) syncPlatform(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	platformName := chi.URLParam(r, "platformName")
	username, err := h.resolveUsername(r, userID, platformName)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	result := h.syncService.SyncPlatform(r.Context(), userID, platformName, username)
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *SyncHandler) syncAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	connections, err := h.platformService.ListConnections(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	summary := h.syncService.SyncAllPlatforms(r.Context(), userID, connections)
	common.RespondWithJSON(w, http.StatusOK, summary)
}

// enqueueSync pushes the job onto the Redis queue for the background
// worker instead of syncing inline.
func (h *SyncHandler) enqueueSync(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	platformName := chi.URLParam(r, "platformName")
	username, err := h.resolveUsername(r, userID, platformName)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	job := worker.SyncJob{UserID: userID, Platform: platformName, Username: username}
	if err := h.syncWorker.EnqueueSync(r.Context(), job); err != nil {
		common.RespondWithError(w, http.StatusInternalServerError, "Failed to enqueue sync: "+err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusAccepted, map[string]string{"message": "sync enqueued"})
}

type syncRequest struct {
	Username string `json:"username"`
}

// resolveUsername prefers a username given in the request body and
// falls back to the stored connection. The body is optional.
func (h *SyncHandler) resolveUsername(r *http.Request, userID, platformName string) (string, error) {
	if r.Body != nil {
		var req syncRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			if name := strings.TrimSpace(req.Username); name != "" {
				return name, nil
			}
		}
	}
	return h.connectedUsername(r, userID, platformName)
}

func (h *SyncHandler) connectedUsername(r *http.Request, userID, platformName string) (string, error) {
	connections, err := h.platformService.ListConnections(r.Context(), userID)
	if err != nil {
		return "", err
	}
	for _, c := range connections {
		if c.PlatformName != nil && strings.EqualFold(*c.PlatformName, platformName) {
			return c.PlatformUsername, nil
		}
	}
	return "", common.Errorf("no active connection for platform %q: %w", platformName, common.ErrNotFound)
}

package api

import (
	"net/http"
	"time"

	"algo_tracker/internal/api/handler"
	"algo_tracker/internal/app/service"
	"algo_tracker/internal/app/worker"
	"algo_tracker/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	platformService *service.PlatformService,
	syncService *service.SyncService,
	submissionService *service.SubmissionService,
	contestService *service.ContestService,
	reminderService *service.ReminderService,
	statsService *service.StatsService,
	syncWorker *worker.SyncWorker,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the Authorization: Bearer token and puts claims in context;
	// middleware.Authenticator enforces them on protected routes.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(v1 chi.Router) {
		platformHandler := handler.NewPlatformHandler(platformService)
		v1.Route("/platforms", platformHandler.RegisterRoutes)

		syncHandler := handler.NewSyncHandler(syncService, platformService, syncWorker)
		v1.Route("/sync", syncHandler.RegisterRoutes)

		submissionHandler := handler.NewSubmissionHandler(submissionService)
		v1.Route("/submissions", submissionHandler.RegisterRoutes)

		contestHandler := handler.NewContestHandler(contestService, reminderService)
		v1.Route("/contests", contestHandler.RegisterRoutes)

		statsHandler := handler.NewStatsHandler(statsService)
		v1.Route("/stats", statsHandler.RegisterRoutes)
	})

	return r
}

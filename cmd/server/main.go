package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"algo_tracker/internal/adapter"
	"algo_tracker/internal/api"
	"algo_tracker/internal/app/service"
	"algo_tracker/internal/app/worker"
	"algo_tracker/internal/common/security"
	"algo_tracker/internal/domain/repository"
	"algo_tracker/internal/platform/config"
	"algo_tracker/internal/platform/database"
	"algo_tracker/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	database.Bootstrap()
	fmt.Println("Database connected and schema applied.")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	platformRepo := repository.NewPgPlatformRepository(database.DB)
	linkRepo := repository.NewPgLinkRepository(database.DB)
	profileRepo := repository.NewPgProfileRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	contestRepo := repository.NewPgContestRepository(database.DB)
	statusRepo := repository.NewPgSyncStatusRepository(database.DB)
	reminderRepo := repository.NewPgReminderRepository(database.DB)

	// 6. Platform Adapter Registry
	adapterTimeout := time.Duration(config.AppConfig.AdapterTimeoutSeconds) * time.Second
	registry := adapter.NewRegistry(
		adapter.NewLeetCodeAdapter(adapterTimeout),
		adapter.NewCodeforcesAdapter(adapterTimeout),
		adapter.NewAtCoderAdapter(),
		adapter.NewGeeksforGeeksAdapter(),
	)

	// 7. Initialize Services
	locker := service.NewRedisSyncLocker(queue.RDB)
	syncService := service.NewSyncService(registry, platformRepo, linkRepo, profileRepo,
		submissionRepo, contestRepo, statusRepo, locker)
	platformService := service.NewPlatformService(registry, platformRepo, linkRepo, statusRepo)
	submissionService := service.NewSubmissionService(submissionRepo)
	contestService := service.NewContestService(contestRepo)
	reminderService := service.NewReminderService(reminderRepo, contestRepo)
	statsService := service.NewStatsService(submissionRepo, profileRepo, contestRepo, linkRepo)

	// 8. Background Sync Worker + Scheduler (as goroutines)
	syncWorker := worker.NewSyncWorker(queue.RDB, syncService, linkRepo, reminderRepo)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go syncWorker.Start(workerCtx)
	go syncWorker.StartScheduler(workerCtx)
	fmt.Println("Sync worker and scheduler started.")

	// 9. Initialize Router & HTTP Server
	router := api.NewRouter(platformService, syncService, submissionService,
		contestService, reminderService, statsService, syncWorker)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}

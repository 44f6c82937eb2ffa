package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"algo_tracker/internal/app/service"
	"algo_tracker/internal/domain/repository"
	"algo_tracker/internal/metrics"
	"algo_tracker/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// SyncJob is the payload pushed onto the Redis sync queue by the API
// layer and the scheduler.
type SyncJob struct {
	UserID   string `json:"user_id"`
	Platform string `json:"platform"`
	Username string `json:"username"`
}

// SyncWorker drains the sync queue and runs platform syncs in the
// background. The per-(user, platform) lock inside SyncService keeps
// concurrent workers from colliding.
type SyncWorker struct {
	rdb          *redis.Client
	syncService  *service.SyncService
	linkRepo     repository.LinkRepository
	reminderRepo repository.ReminderRepository
}

func NewSyncWorker(
	rdb *redis.Client,
	syncService *service.SyncService,
	linkRepo repository.LinkRepository,
	reminderRepo repository.ReminderRepository,
) *SyncWorker {
	return &SyncWorker{
		rdb:          rdb,
		syncService:  syncService,
		linkRepo:     linkRepo,
		reminderRepo: reminderRepo,
	}
}

// EnqueueSync pushes a sync job onto the queue for background processing.
func (w *SyncWorker) EnqueueSync(ctx context.Context, job SyncJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := w.rdb.LPush(ctx, config.AppConfig.SyncQueueName, payload).Err(); err != nil {
		return err
	}
	if depth, err := w.rdb.LLen(ctx, config.AppConfig.SyncQueueName).Result(); err == nil {
		metrics.SyncQueueDepth.Set(float64(depth))
	}
	return nil
}

func (w *SyncWorker) Start(ctx context.Context) {
	log.Println("Sync worker started, listening to queue:", config.AppConfig.SyncQueueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Sync worker stopping...")
			return
		default:
			result, err := w.rdb.BRPop(ctx, 0*time.Second, config.AppConfig.SyncQueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					log.Printf("Worker BRPop exiting or timed out: %v", err)
					time.Sleep(1 * time.Second)
					continue
				}
				log.Printf("ERROR: Failed to BRPop from Redis queue '%s': %v", config.AppConfig.SyncQueueName, err)
				time.Sleep(5 * time.Second)
				continue
			}

			// result is an array: [queueName, value]
			if len(result) < 2 || result[1] == "" {
				log.Println("WARN: BRPop returned empty sync job payload.")
				continue
			}

			var job SyncJob
			if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
				log.Printf("ERROR: Failed to unmarshal sync job payload %q: %v", result[1], err)
				continue
			}
			if job.UserID == "" || job.Platform == "" {
				log.Printf("WARN: Dropping sync job with missing fields: %+v", job)
				continue
			}

			if depth, err := w.rdb.LLen(ctx, config.AppConfig.SyncQueueName).Result(); err == nil {
				metrics.SyncQueueDepth.Set(float64(depth))
			}

			log.Printf("Worker picked up sync job: user=%s platform=%s", job.UserID, job.Platform)
			res := w.syncService.SyncPlatform(ctx, job.UserID, job.Platform, job.Username)
			if res.Success {
				log.Printf("INFO: Background sync completed: user=%s platform=%s submissions=%d",
					job.UserID, res.Platform, res.SubmissionsSynced)
			} else {
				log.Printf("WARN: Background sync did not complete: user=%s platform=%s reason=%s",
					job.UserID, res.Platform, res.Message)
			}
		}
	}
}

// StartScheduler periodically enqueues sync jobs for every active
// platform link and dispatches due contest reminders.
func (w *SyncWorker) StartScheduler(ctx context.Context) {
	interval := time.Duration(config.AppConfig.AutoSyncIntervalMin) * time.Minute
	log.Printf("Sync scheduler started, interval: %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	reminderTicker := time.NewTicker(1 * time.Minute)
	defer reminderTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sync scheduler stopping...")
			return
		case <-ticker.C:
			w.enqueueAllActiveLinks(ctx)
		case <-reminderTicker.C:
			w.dispatchDueReminders(ctx)
		}
	}
}

func (w *SyncWorker) enqueueAllActiveLinks(ctx context.Context) {
	links, err := w.linkRepo.ListAllActive(ctx)
	if err != nil {
		log.Printf("ERROR: Scheduler failed to list active platform links: %v", err)
		return
	}
	enqueued := 0
	for _, link := range links {
		if link.PlatformName == nil {
			continue
		}
		job := SyncJob{UserID: link.UserID, Platform: *link.PlatformName, Username: link.PlatformUsername}
		if err := w.EnqueueSync(ctx, job); err != nil {
			log.Printf("ERROR: Scheduler failed to enqueue sync for user=%s platform=%s: %v",
				link.UserID, *link.PlatformName, err)
			continue
		}
		enqueued++
	}
	log.Printf("INFO: Scheduler enqueued %d sync jobs.", enqueued)
}

func (w *SyncWorker) dispatchDueReminders(ctx context.Context) {
	due, err := w.reminderRepo.ListDue(ctx, time.Now().UTC(), 100)
	if err != nil {
		log.Printf("ERROR: Failed to list due contest reminders: %v", err)
		return
	}
	for _, rem := range due {
		title := "contest"
		if rem.ContestTitle != nil {
			title = *rem.ContestTitle
		}
		// Delivery channel is out of scope here; the log line is the
		// notification sink until one is wired up.
		log.Printf("INFO: Reminder due for user=%s: %s starts at %v", rem.UserID, title, rem.ContestStartTime)
		if err := w.reminderRepo.MarkSent(ctx, rem.ID); err != nil {
			log.Printf("ERROR: Failed to mark reminder %s as sent: %v", rem.ID, err)
		}
	}
}

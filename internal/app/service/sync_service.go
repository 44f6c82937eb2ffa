package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"algo_tracker/internal/adapter"
	"algo_tracker/internal/common"
	"algo_tracker/internal/domain/model"
	"algo_tracker/internal/domain/repository"
	"algo_tracker/internal/metrics"
	"algo_tracker/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SyncLocker serializes sync attempts per (user, platform). Acquire
// returns false when another attempt holds the key.
type SyncLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string)
}

type redisSyncLocker struct {
	rdb *redis.Client
	// values stored under each key so Release only deletes its own lock
	mu     sync.Mutex
	values map[string]string
}

func NewRedisSyncLocker(rdb *redis.Client) SyncLocker {
	return &redisSyncLocker{rdb: rdb, values: make(map[string]string)}
}

func (l *redisSyncLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	value := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire sync lock %s: %w", key, err)
	}
	if ok {
		l.mu.Lock()
		l.values[key] = value
		l.mu.Unlock()
	}
	return ok, nil
}

func (l *redisSyncLocker) Release(ctx context.Context, key string) {
	l.mu.Lock()
	value, ok := l.values[key]
	delete(l.values, key)
	l.mu.Unlock()
	if !ok {
		return
	}

	// CAS delete: only remove the lock if we still hold it.
	script := redis.NewScript(`
        if redis.call("get", KEYS[1]) == ARGV[1] then
            return redis.call("del", KEYS[1])
        else
            return 0
        end
    `)
	if _, err := script.Run(ctx, l.rdb, []string{key}, value).Result(); err != nil {
		log.Printf("ERROR: Failed to release sync lock %s: %v", key, err)
	}
}

// SyncResult is what callers of SyncPlatform receive; syncs never surface
// raw errors, the durable record lives in the sync_status row.
type SyncResult struct {
	Platform          string `json:"platform"`
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	SubmissionsSynced int    `json:"submissions_synced"`
}

type SyncSummary struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []SyncResult `json:"results"`
}

// SyncService coordinates platform syncs: resolve the adapter, fetch and
// normalize external data, persist through the repositories, and keep the
// sync_status state machine (pending -> syncing -> completed|failed)
// honest. It holds no cross-call state.
type SyncService struct {
	registry       *adapter.Registry
	platformRepo   repository.PlatformRepository
	linkRepo       repository.LinkRepository
	profileRepo    repository.ProfileRepository
	submissionRepo repository.SubmissionRepository
	contestRepo    repository.ContestRepository
	statusRepo     repository.SyncStatusRepository
	locker         SyncLocker
}

func NewSyncService(
	registry *adapter.Registry,
	platformRepo repository.PlatformRepository,
	linkRepo repository.LinkRepository,
	profileRepo repository.ProfileRepository,
	submissionRepo repository.SubmissionRepository,
	contestRepo repository.ContestRepository,
	statusRepo repository.SyncStatusRepository,
	locker SyncLocker,
) *SyncService {
	return &SyncService{
		registry:       registry,
		platformRepo:   platformRepo,
		linkRepo:       linkRepo,
		profileRepo:    profileRepo,
		submissionRepo: submissionRepo,
		contestRepo:    contestRepo,
		statusRepo:     statusRepo,
		locker:         locker,
	}
}

// SyncPlatform runs one sync attempt for (user, platform). It always
// returns a structured result; the sync_status row records the terminal
// outcome and is never left in "syncing".
func (s *SyncService) SyncPlatform(ctx context.Context, userID, platformName, username string) SyncResult {
	ad := s.registry.Resolve(platformName)
	if ad == nil {
		// No gateway write for unknown platforms: there is no platform
		// row to attach a status to.
		return SyncResult{Platform: platformName, Message: "unsupported platform"}
	}

	platform, err := s.platformRepo.FindByName(ctx, ad.Name())
	if err != nil {
		return SyncResult{Platform: ad.Name(), Message: "platform not found in catalog"}
	}

	lockKey := fmt.Sprintf("sync:lock:%s:%s", userID, platform.ID)
	lockTTL := time.Duration(config.AppConfig.SyncLockTTLSeconds) * time.Second
	acquired, err := s.locker.Acquire(ctx, lockKey, lockTTL)
	if err != nil {
		return SyncResult{Platform: ad.Name(), Message: "could not acquire sync lock"}
	}
	if !acquired {
		metrics.SyncsTotal.WithLabelValues(ad.Name(), metrics.OutcomeSkipped).Inc()
		return SyncResult{Platform: ad.Name(), Message: common.ErrSyncInProgress.Error()}
	}

	// Terminal bookkeeping and the lock release must land even when the
	// request context dies mid-sync (client disconnect, middleware
	// timeout, worker shutdown); otherwise the row strands at "syncing".
	detached := context.WithoutCancel(ctx)
	defer s.locker.Release(detached, lockKey)

	// Overlap guards: the status row must not say "syncing", and rapid
	// re-triggering inside the minimum interval is rejected.
	prev, err := s.statusRepo.Get(ctx, userID, platform.ID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return s.failSync(detached, userID, platform.ID, ad.Name(), "failed to read sync status: "+err.Error(), 0)
	}
	if prev != nil {
		if prev.Status == model.SyncSyncing {
			// A syncing row older than the lock TTL belongs to a run
			// that crashed without reaching a terminal state; reclaim it
			// instead of locking the pair out forever.
			if time.Since(prev.UpdatedAt) < lockTTL {
				metrics.SyncsTotal.WithLabelValues(ad.Name(), metrics.OutcomeSkipped).Inc()
				return SyncResult{Platform: ad.Name(), Message: common.ErrSyncInProgress.Error()}
			}
			log.Printf("WARN: Reclaiming stale syncing row for user=%s platform=%s", userID, platform.ID)
		}
		minInterval := time.Duration(config.AppConfig.MinSyncIntervalSeconds) * time.Second
		if prev.LastSyncTime != nil && time.Since(*prev.LastSyncTime) < minInterval {
			metrics.SyncsTotal.WithLabelValues(ad.Name(), metrics.OutcomeSkipped).Inc()
			return SyncResult{Platform: ad.Name(), Message: "synced too recently, try again later"}
		}
	}

	timer := syncTimer(ad.Name())
	defer timer()

	syncing := model.SyncStatus{UserID: userID, PlatformID: platform.ID, Status: model.SyncSyncing}
	if prev != nil {
		syncing.LastSyncTime = prev.LastSyncTime
	}
	if err := s.statusRepo.Set(detached, syncing); err != nil {
		return SyncResult{Platform: ad.Name(), Message: "failed to update sync status: " + err.Error()}
	}

	adapterTimeout := time.Duration(config.AppConfig.AdapterTimeoutSeconds) * time.Second

	// Stage 1: profile. A failed profile fetch alone does not doom the
	// attempt; submissions may still carry meaningful progress.
	profileCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
	profile, profileErr := ad.GetUserInfo(profileCtx, username)
	cancel()
	if profileErr != nil {
		log.Printf("WARN: %s profile fetch for %s failed: %v", ad.Name(), username, profileErr)
	}
	if profile != nil {
		now := time.Now().UTC()
		if _, err := s.linkRepo.Upsert(ctx, userID, platform.ID, username, &now); err != nil {
			return s.failSync(detached, userID, platform.ID, ad.Name(), "failed to update platform link: "+err.Error(), 0)
		}
		if err := s.profileRepo.Upsert(ctx, userID, platform.ID, profile); err != nil {
			return s.failSync(detached, userID, platform.ID, ad.Name(), "failed to store profile snapshot: "+err.Error(), 0)
		}
	}

	// Stage 2: submissions. An adapter error here means no progress can
	// be reported, so the attempt fails.
	subCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
	submissions, err := ad.GetSubmissions(subCtx, username, config.AppConfig.SubmissionFetchLimit)
	cancel()
	if err != nil {
		return s.failSync(detached, userID, platform.ID, ad.Name(), "failed to fetch submissions: "+err.Error(), 0)
	}
	for i := range submissions {
		submissions[i].UserID = userID
		submissions[i].PlatformID = platform.ID
	}
	if _, err := s.submissionRepo.UpsertBatch(ctx, submissions); err != nil {
		return s.failSync(detached, userID, platform.ID, ad.Name(), "failed to store submissions: "+err.Error(), 0)
	}
	metrics.SubmissionsSyncedTotal.WithLabelValues(ad.Name()).Add(float64(len(submissions)))

	// Stage 3: contests (platform-level, shared across users). Adapter
	// failure is tolerated, persistence failure is not.
	contestCtx, cancel := context.WithTimeout(ctx, adapterTimeout)
	contests, contestErr := ad.GetUpcomingContests(contestCtx)
	cancel()
	if contestErr != nil {
		log.Printf("WARN: %s contest fetch failed: %v", ad.Name(), contestErr)
	} else if len(contests) > 0 {
		upcoming := filterUpcoming(contests, time.Now().UTC())
		for i := range upcoming {
			upcoming[i].PlatformID = platform.ID
		}
		sort.SliceStable(upcoming, func(i, j int) bool {
			return upcoming[i].StartTime.Before(upcoming[j].StartTime)
		})
		if err := s.contestRepo.UpsertBatch(ctx, upcoming); err != nil {
			return s.failSync(detached, userID, platform.ID, ad.Name(), "failed to store contests: "+err.Error(), len(submissions))
		}
	}

	now := time.Now().UTC()
	completed := model.SyncStatus{
		UserID:            userID,
		PlatformID:        platform.ID,
		Status:            model.SyncCompleted,
		LastSyncTime:      &now,
		SubmissionsSynced: len(submissions),
	}
	if err := s.statusRepo.Set(detached, completed); err != nil {
		// The data landed; report the bookkeeping failure honestly.
		return s.failSync(detached, userID, platform.ID, ad.Name(), "failed to finalize sync status: "+err.Error(), len(submissions))
	}

	metrics.SyncsTotal.WithLabelValues(ad.Name(), metrics.OutcomeCompleted).Inc()
	return SyncResult{
		Platform:          ad.Name(),
		Success:           true,
		Message:           "platform synced successfully",
		SubmissionsSynced: len(submissions),
	}
}

// failSync records the failed terminal state and builds the caller
// result. synced is the number of submissions already persisted by the
// attempt before it failed. Callers pass a detached context so the
// write survives request cancellation.
func (s *SyncService) failSync(ctx context.Context, userID, platformID, platformName, message string, synced int) SyncResult {
	now := time.Now().UTC()
	status := model.SyncStatus{
		UserID:            userID,
		PlatformID:        platformID,
		Status:            model.SyncFailed,
		LastSyncTime:      &now,
		SubmissionsSynced: synced,
		ErrorMessage:      &message,
	}
	if err := s.statusRepo.Set(ctx, status); err != nil {
		log.Printf("ERROR: Failed to record failed sync status for user=%s platform=%s: %v", userID, platformID, err)
	}
	metrics.SyncsTotal.WithLabelValues(platformName, metrics.OutcomeFailed).Inc()
	return SyncResult{Platform: platformName, Message: message, SubmissionsSynced: synced}
}

// SyncAllPlatforms fans out one sync per connection with bounded
// concurrency. Platforms are independent; one failure never stops the
// others from running or being reported.
func (s *SyncService) SyncAllPlatforms(ctx context.Context, userID string, connections []model.UserPlatformLink) SyncSummary {
	summary := SyncSummary{Total: len(connections), Results: make([]SyncResult, len(connections))}
	if len(connections) == 0 {
		return summary
	}

	fanout := config.AppConfig.SyncFanoutLimit
	if fanout < 1 {
		fanout = 1
	}
	sem := make(chan struct{}, fanout)

	var wg sync.WaitGroup
	for i, conn := range connections {
		wg.Add(1)
		go func(i int, conn model.UserPlatformLink) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			name := s.connectionPlatformName(ctx, conn)
			summary.Results[i] = s.SyncPlatform(ctx, userID, name, conn.PlatformUsername)
		}(i, conn)
	}
	wg.Wait()

	for _, r := range summary.Results {
		if r.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	return summary
}

func (s *SyncService) connectionPlatformName(ctx context.Context, conn model.UserPlatformLink) string {
	if conn.PlatformName != nil {
		return *conn.PlatformName
	}
	if platform, err := s.platformRepo.FindByID(ctx, conn.PlatformID); err == nil {
		return platform.Name
	}
	return ""
}

// filterUpcoming keeps contests starting at or after now; the boundary is
// inclusive so a contest starting this second still counts.
func filterUpcoming(contests []model.Contest, now time.Time) []model.Contest {
	out := make([]model.Contest, 0, len(contests))
	for _, c := range contests {
		if c.IsUpcoming(now) {
			out = append(out, c)
		}
	}
	return out
}

func syncTimer(platform string) func() {
	start := time.Now()
	return func() {
		metrics.SyncDuration.WithLabelValues(platform).Observe(time.Since(start).Seconds())
	}
}

package jobs

import (
	"context"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"go.uber.org/zap"
)

// SyncJobName is the name of the scheduled force sync job
const SyncJobName = "force_sync"

// NotificationPollerName is the name of the notification refresh poller
const NotificationPollerName = "notification_refresh"

// ForceSyncer refreshes every collection from the remote mirror
type ForceSyncer interface {
	ForceSync(ctx context.Context) *domain.SyncReportDTO
}

// NotificationRefresher reloads the notification collection
type NotificationRefresher interface {
	Refresh(ctx context.Context) int
}

// SyncJob runs a force sync bounded by a timeout
type SyncJob struct {
	syncer  ForceSyncer
	logger  *zap.Logger
	timeout time.Duration
}

// NewSyncJob creates a new force sync job
func NewSyncJob(syncer ForceSyncer, logger *zap.Logger, timeout time.Duration) *SyncJob {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &SyncJob{
		syncer:  syncer,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes one force sync. It is called by the scheduler.
func (j *SyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	report := j.syncer.ForceSync(ctx)
	if !report.Reachable {
		j.logger.Info("scheduled sync skipped, remote mirror unreachable")
		return
	}

	failed := 0
	for _, c := range report.Collections {
		if c.Error != "" {
			failed++
		}
	}
	j.logger.Info("scheduled sync completed",
		zap.Int("collections", len(report.Collections)),
		zap.Int("failed", failed),
		zap.String("duration", report.Duration))
}

// RegisterSyncJob adds the force sync job to the scheduler. An empty
// expression disables it.
func RegisterSyncJob(scheduler *Scheduler, syncer ForceSyncer, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	if cronExpr == "" {
		logger.Info("scheduled sync disabled")
		return nil
	}
	job := NewSyncJob(syncer, logger, timeout)
	return scheduler.AddJob(SyncJobName, cronExpr, job.Run)
}

// NewNotificationPoller returns a poller that refreshes notifications
func NewNotificationPoller(refresher NotificationRefresher, interval time.Duration, logger *zap.Logger) (*Poller, error) {
	return NewPoller(NotificationPollerName, interval, func(ctx context.Context) {
		count := refresher.Refresh(ctx)
		logger.Debug("notifications refreshed", zap.Int("count", count))
	}, logger)
}

package store

import (
	"context"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/cache"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/mapper"
	"github.com/krasavchik01/rbbb-sub002/internal/remote"
	"go.uber.org/zap"
)

// refresher reloads one collection from remote and returns its size
type refresher struct {
	name string
	run  func(ctx context.Context) (int, error)
}

func refreshOf[T any, R any](c *collection[T, R], s *Store) refresher {
	return refresher{
		name: c.key,
		run: func(ctx context.Context) (int, error) {
			items, err := c.refresh(ctx, s)
			return len(items), err
		},
	}
}

func (s *Store) refreshers() []refresher {
	return []refresher{
		refreshOf(s.employees, s),
		refreshOf(s.companies, s),
		refreshOf(s.projects, s),
		refreshOf(s.tasks, s),
		refreshOf(s.timesheets, s),
		refreshOf(s.bonuses, s),
		refreshOf(s.notifications, s),
		refreshOf(s.templates, s),
		refreshOf(s.evaluations, s),
		refreshOf(s.files, s),
		{name: "project_data", run: s.refreshProjectData},
	}
}

func (s *Store) refreshProjectData(ctx context.Context) (int, error) {
	var rows []remote.ProjectDataRow
	if err := s.remote.List(ctx, remote.TableProjectData, nil, &rows); err != nil {
		return 0, err
	}
	for _, r := range rows {
		data := mapper.ProjectDataFromRow(r)
		if err := cache.SaveDocument(ctx, s.cache, cache.ProjectDataKey(data.ProjectID), data); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// ForceSync re-probes the mirror and refreshes every collection snapshot.
// Unlike the implicit refresh of the getters it reports remote failures.
func (s *Store) ForceSync(ctx context.Context) domain.SyncReportDTO {
	started := s.now()
	report := domain.SyncReportDTO{
		StartedAt:   mapper.FormatTimestamp(started),
		Collections: []domain.CollectionSyncResult{},
	}

	report.Reachable = s.remote.Reprobe(ctx)
	if report.Reachable {
		for _, r := range s.refreshers() {
			count, err := r.run(ctx)
			result := domain.CollectionSyncResult{Collection: r.name, Count: count}
			if err != nil {
				result.Error = err.Error()
				s.logger.Warn("Force sync failed for collection",
					zap.String("collection", r.name),
					zap.Error(err),
				)
			}
			report.Collections = append(report.Collections, result)
		}
	}

	report.Duration = s.now().Sub(started).Round(time.Millisecond).String()
	s.logger.Info("Force sync finished",
		zap.Bool("reachable", report.Reachable),
		zap.Bool("ok", report.OK()),
		zap.String("duration", report.Duration),
	)
	return report
}

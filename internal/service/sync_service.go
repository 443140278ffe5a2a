package service

import (
	"context"
	"sync"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"go.uber.org/zap"
)

// SyncService runs user-initiated and scheduled force syncs
type SyncService struct {
	store  *store.Store
	logger *zap.Logger

	mu   sync.Mutex
	last *domain.SyncReportDTO
}

// NewSyncService creates a new SyncService instance
func NewSyncService(st *store.Store, logger *zap.Logger) *SyncService {
	return &SyncService{
		store:  st,
		logger: logger,
	}
}

// ForceSync refreshes every collection from the remote mirror. Concurrent
// calls are serialized.
func (s *SyncService) ForceSync(ctx context.Context) *domain.SyncReportDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := s.store.ForceSync(ctx)
	if !report.OK() {
		s.logger.Warn("force sync incomplete", zap.Bool("reachable", report.Reachable))
	}
	s.last = &report
	return &report
}

// LastReport returns the most recent sync report, nil before the first sync
func (s *SyncService) LastReport() *domain.SyncReportDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	report := *s.last
	return &report
}

// RemoteReachable reports the session's probe result
func (s *SyncService) RemoteReachable(ctx context.Context) bool {
	return s.store.RemoteReachable(ctx)
}

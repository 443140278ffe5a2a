package handler

import (
	"net/http"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"go.uber.org/zap"
)

// SyncHandler exposes the user-initiated force sync
type SyncHandler struct {
	syncService *service.SyncService
	logger      *zap.Logger
}

// NewSyncHandler creates a new SyncHandler instance
func NewSyncHandler(syncService *service.SyncService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		logger:      logger,
	}
}

// ForceSync godoc
// @Summary Force sync
// @Description Re-probes the remote mirror and refreshes every cached collection from it. Partial failures are reported per collection.
// @Tags Sync
// @Produce json
// @Success 200 {object} domain.SyncReportDTO "Every collection refreshed"
// @Success 207 {object} domain.SyncReportDTO "Some collections failed"
// @Failure 503 {object} domain.SyncReportDTO "Remote unreachable"
// @Security UserHeaders
// @Router /sync [post]
func (h *SyncHandler) ForceSync(w http.ResponseWriter, r *http.Request) {
	report := h.syncService.ForceSync(r.Context())
	switch {
	case !report.Reachable:
		respondJSON(w, http.StatusServiceUnavailable, report)
	case !report.OK():
		respondJSON(w, http.StatusMultiStatus, report)
	default:
		respondJSON(w, http.StatusOK, report)
	}
}

// Status godoc
// @Summary Sync status
// @Tags Sync
// @Produce json
// @Success 200 {object} domain.SyncStatusDTO
// @Security UserHeaders
// @Router /sync/status [get]
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.SyncStatusDTO{
		Reachable:  h.syncService.RemoteReachable(r.Context()),
		LastReport: h.syncService.LastReport(),
	})
}

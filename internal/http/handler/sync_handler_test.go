package handler_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/http/handler"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSyncHandler_Unreachable(t *testing.T) {
	st := newTestStore(t)
	h := handler.NewSyncHandler(service.NewSyncService(st, zap.NewNop()), zap.NewNop())
	api := newAPI(func(r chi.Router) {
		r.Get("/sync/status", h.Status)
		r.Post("/sync", h.ForceSync)
	})

	rec := call(t, api, ceo, http.MethodGet, "/api/sync/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[domain.SyncStatusDTO](t, rec)
	assert.False(t, status.Reachable)
	assert.Nil(t, status.LastReport)

	rec = call(t, api, ceo, http.MethodPost, "/api/sync", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, decode[domain.SyncReportDTO](t, rec).Reachable)

	rec = call(t, api, ceo, http.MethodGet, "/api/sync/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, decode[domain.SyncStatusDTO](t, rec).LastReport)
}

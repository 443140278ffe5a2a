package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTimesheetService(t *testing.T) {
	st := newTestStore(t)
	svc := service.NewTimesheetService(st, zap.NewNop())
	p := seedProject(t, st, domain.ProjectStatusInProgress)
	day := time.Date(2026, 5, 28, 9, 30, 0, 0, time.UTC)

	t.Run("logs against the day", func(t *testing.T) {
		entry, err := svc.LogTime(as(assistantID), &domain.LogTimeRequest{ProjectID: p.ID, Date: day, Hours: 10})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 5, 28, 0, 0, 0, 0, time.UTC), entry.Date)
		assert.Equal(t, assistantID, entry.EmployeeID)
	})

	t.Run("daily total capped", func(t *testing.T) {
		_, err := svc.LogTime(as(assistantID), &domain.LogTimeRequest{ProjectID: p.ID, Date: day.Add(5 * time.Hour), Hours: 15})
		assert.True(t, errors.Is(err, service.ErrDailyHoursExceeded))

		_, err = svc.LogTime(as(assistantID), &domain.LogTimeRequest{ProjectID: p.ID, Date: day, Hours: 14})
		require.NoError(t, err)
	})

	t.Run("hours out of range", func(t *testing.T) {
		_, err := svc.LogTime(as(assistantID), &domain.LogTimeRequest{ProjectID: p.ID, Date: day, Hours: 0})
		assert.True(t, errors.Is(err, service.ErrInvalidInput))
	})

	t.Run("only team members log", func(t *testing.T) {
		_, err := svc.LogTime(as(outsiderID), &domain.LogTimeRequest{ProjectID: p.ID, Date: day, Hours: 1})
		assert.True(t, errors.Is(err, service.ErrPermissionDenied))
	})

	_, err := svc.LogTime(as(managerID), &domain.LogTimeRequest{ProjectID: p.ID, Date: day.AddDate(0, 0, 1), Hours: 3})
	require.NoError(t, err)

	t.Run("staff only see their own entries", func(t *testing.T) {
		entries, err := svc.List(as(assistantID), p.ID, managerID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.Equal(t, assistantID, e.EmployeeID)
		}
	})

	t.Run("management sees everyone newest first", func(t *testing.T) {
		entries, err := svc.List(as(partnerID), p.ID, "")
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, managerID, entries[0].EmployeeID)
	})

	t.Run("delete", func(t *testing.T) {
		entries, err := svc.List(as(managerID), "", managerID)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		err = svc.Delete(as(assistantID), entries[0].ID)
		assert.True(t, errors.Is(err, service.ErrPermissionDenied))

		require.NoError(t, svc.Delete(as(managerID), entries[0].ID))
		assert.True(t, errors.Is(svc.Delete(as(managerID), entries[0].ID), service.ErrTimesheetNotFound))
	})
}

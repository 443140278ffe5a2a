package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotificationService(t *testing.T) {
	st := newTestStore(t)
	svc := service.NewNotificationService(st, zap.NewNop())
	ctx := context.Background()

	created := svc.CreateBatch(ctx, []string{managerID, managerID, "", assistantID},
		domain.NotificationTypeInfo, "Heads up", "Fieldwork starts Monday", "/projects/proj-1")
	require.Len(t, created, 2)

	_, err := svc.CreateForUser(ctx, managerID, domain.NotificationType("shout"), "Second", "msg", "")
	require.NoError(t, err)

	t.Run("unread count", func(t *testing.T) {
		count, err := svc.GetUnreadCount(as(managerID))
		require.NoError(t, err)
		assert.Equal(t, 2, count.Count)
	})

	t.Run("unknown type falls back to info", func(t *testing.T) {
		for _, n := range svc.ListForUser(ctx, managerID, false) {
			assert.Equal(t, domain.NotificationTypeInfo, n.Type)
		}
	})

	t.Run("cannot mark another user's notification", func(t *testing.T) {
		_, err := svc.MarkAsRead(as(assistantID), created[0].ID)
		assert.True(t, errors.Is(err, service.ErrNotificationNotOwned))
	})

	t.Run("mark one read", func(t *testing.T) {
		n, err := svc.MarkAsRead(as(managerID), created[0].ID)
		require.NoError(t, err)
		assert.True(t, n.Read)

		unread, err := svc.GetForCurrentUser(as(managerID), true)
		require.NoError(t, err)
		assert.Len(t, unread, 1)
	})

	t.Run("mark all read", func(t *testing.T) {
		marked, err := svc.MarkAllAsRead(as(managerID))
		require.NoError(t, err)
		assert.Equal(t, 1, marked)

		count, err := svc.GetUnreadCount(as(managerID))
		require.NoError(t, err)
		assert.Zero(t, count.Count)

		other, err := svc.GetUnreadCount(as(assistantID))
		require.NoError(t, err)
		assert.Equal(t, 1, other.Count)
	})

	t.Run("unknown notification", func(t *testing.T) {
		_, err := svc.MarkAsRead(as(managerID), "notif-missing")
		assert.True(t, errors.Is(err, service.ErrNotificationNotFound))
	})

	t.Run("requires identity", func(t *testing.T) {
		_, err := svc.GetForCurrentUser(ctx, false)
		assert.True(t, errors.Is(err, service.ErrUserContextRequired))
	})
}

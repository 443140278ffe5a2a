package remote_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/remote"
	"github.com/krasavchik01/rbbb-sub002/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupRemote(t *testing.T) (*remote.Client, *gorm.DB) {
	db := testutil.SetupSQLiteDB(t)
	require.NoError(t, db.AutoMigrate(remote.AllRows()...))
	return remote.NewClient(db, time.Second, zap.NewNop(), nil), db
}

func TestClient_Probe(t *testing.T) {
	ctx := context.Background()

	t.Run("reachable", func(t *testing.T) {
		c, _ := setupRemote(t)
		assert.True(t, c.Probe(ctx))
	})

	t.Run("result is cached until reprobe", func(t *testing.T) {
		c, db := setupRemote(t)
		require.True(t, c.Probe(ctx))

		require.NoError(t, db.Migrator().DropTable(&remote.EmployeeRow{}))
		assert.True(t, c.Probe(ctx), "cached for the session")
		assert.False(t, c.Reprobe(ctx))
		assert.False(t, c.Probe(ctx))
	})

	t.Run("disconnected client never reachable", func(t *testing.T) {
		c := remote.NewDisconnectedClient(zap.NewNop())
		assert.False(t, c.Connected())
		assert.False(t, c.Probe(ctx))
		assert.False(t, c.Reprobe(ctx))

		var rows []remote.TaskRow
		assert.True(t, errors.Is(c.List(ctx, remote.TableTasks, nil, &rows), remote.ErrDisconnected))
	})
}

func TestClient_CRUD(t *testing.T) {
	c, _ := setupRemote(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	row := &remote.TaskRow{
		ID:          "task-1",
		ProjectID:   "proj-1",
		Title:       "Inventory count",
		Status:      "todo",
		Priority:    "high",
		AssigneeIDs: datatypes.JSON(`["emp-1"]`),
		Checklist:   datatypes.JSON(`[]`),
		Comments:    datatypes.JSON(`[]`),
		Attachments: datatypes.JSON(`[]`),
		Labels:      datatypes.JSON(`[]`),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, c.Insert(ctx, remote.TableTasks, row))
	require.NoError(t, c.Insert(ctx, remote.TableTasks, &remote.TaskRow{ID: "task-2", ProjectID: "proj-2", CreatedAt: now, UpdatedAt: now}))

	t.Run("list with filter", func(t *testing.T) {
		var rows []remote.TaskRow
		require.NoError(t, c.List(ctx, remote.TableTasks, map[string]any{"project_id": "proj-1"}, &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Inventory count", rows[0].Title)
		assert.JSONEq(t, `["emp-1"]`, string(rows[0].AssigneeIDs))
	})

	t.Run("list all", func(t *testing.T) {
		var rows []remote.TaskRow
		require.NoError(t, c.List(ctx, remote.TableTasks, nil, &rows))
		assert.Len(t, rows, 2)
	})

	t.Run("update overwrites columns", func(t *testing.T) {
		updated := *row
		updated.Status = "done"
		updated.Title = ""
		require.NoError(t, c.Update(ctx, remote.TableTasks, "task-1", &updated))

		var rows []remote.TaskRow
		require.NoError(t, c.List(ctx, remote.TableTasks, map[string]any{"id": "task-1"}, &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "done", rows[0].Status)
		assert.Equal(t, "", rows[0].Title, "zero values are written too")
	})

	t.Run("update missing row", func(t *testing.T) {
		err := c.Update(ctx, remote.TableTasks, "missing", &remote.TaskRow{ID: "missing"})
		assert.True(t, errors.Is(err, remote.ErrNotFound))
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := c.Delete(ctx, remote.TableTasks, "task-2")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = c.Delete(ctx, remote.TableTasks, "task-2")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("unknown table", func(t *testing.T) {
		err := c.Insert(ctx, "users; drop table tasks", row)
		assert.True(t, errors.Is(err, remote.ErrUnknownTable))
	})
}

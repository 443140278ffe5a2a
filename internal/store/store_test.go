package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/cache"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/remote"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"github.com/krasavchik01/rbbb-sub002/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testStart = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func newCache(t *testing.T) *cache.Cache {
	backend, err := cache.NewSQLiteBackend(testutil.SetupSQLiteDB(t))
	require.NoError(t, err)
	return cache.New(backend, cache.Options{Namespace: "test"}, zap.NewNop(), nil)
}

// offlineStore has a mirror that never answers the probe
func offlineStore(t *testing.T) (*store.Store, *cache.Cache) {
	c := newCache(t)
	s := store.New(c, remote.NewDisconnectedClient(zap.NewNop()), zap.NewNop(),
		store.WithClock(testutil.FixedClock(testStart)))
	return s, c
}

// onlineStore mirrors into a second in-memory database
func onlineStore(t *testing.T) (*store.Store, *cache.Cache, *gorm.DB) {
	c := newCache(t)
	db := testutil.SetupSQLiteDB(t)
	require.NoError(t, db.AutoMigrate(remote.AllRows()...))
	client := remote.NewClient(db, time.Second, zap.NewNop(), nil)
	s := store.New(c, client, zap.NewNop(), store.WithClock(testutil.FixedClock(testStart)))
	return s, c, db
}

func remoteCount(t *testing.T, db *gorm.DB, table string) int64 {
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}

func TestStore_CacheFirstDurabilityOffline(t *testing.T) {
	s, c := offlineStore(t)
	ctx := context.Background()

	created, err := s.CreateTask(ctx, domain.Task{ProjectID: "proj-1", Title: "Inventory count"})
	require.NoError(t, err)
	assert.True(t, domain.ValidID(created.ID))
	assert.Equal(t, testStart, created.CreatedAt)

	cached := cache.Load[domain.Task](ctx, c, cache.KeyTasks)
	require.Len(t, cached, 1)
	assert.Equal(t, created.ID, cached[0].ID)

	updated, err := s.UpdateTask(ctx, created.ID, func(task *domain.Task) error {
		task.Title = "Inventory observation"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	cached = cache.Load[domain.Task](ctx, c, cache.KeyTasks)
	require.Len(t, cached, 1)
	assert.Equal(t, "Inventory observation", cached[0].Title)

	deleted, err := s.DeleteTask(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, cache.Load[domain.Task](ctx, c, cache.KeyTasks))
}

func TestStore_CacheFirstDurabilityWhenMirrorWriteFails(t *testing.T) {
	s, c, db := onlineStore(t)
	ctx := context.Background()
	require.True(t, s.RemoteReachable(ctx))

	require.NoError(t, db.Migrator().DropTable(&remote.TaskRow{}))

	created, err := s.CreateTask(ctx, domain.Task{ProjectID: "proj-1", Title: "Confirmations"})
	require.NoError(t, err, "remote failure never reaches the caller")

	cached := cache.Load[domain.Task](ctx, c, cache.KeyTasks)
	require.Len(t, cached, 1)
	assert.Equal(t, created.ID, cached[0].ID)

	tasks := s.GetTasks(ctx)
	require.Len(t, tasks, 1, "failed remote list serves the cache snapshot")
	assert.Equal(t, created.ID, tasks[0].ID)
}

func TestStore_UnreachableFallbackReturnsSnapshot(t *testing.T) {
	s, c := offlineStore(t)
	ctx := context.Background()

	snapshot := []domain.Project{
		{ID: "proj-a", Name: "Alpha audit", Type: domain.ProjectTypeAudit, Status: domain.ProjectStatusInProgress, CreatedAt: testStart, UpdatedAt: testStart},
		{ID: "proj-b", Name: "Beta tax", Type: domain.ProjectTypeTax, Status: domain.ProjectStatusNew, CreatedAt: testStart, UpdatedAt: testStart},
	}
	require.NoError(t, cache.Save(ctx, c, cache.KeyProjects, snapshot))

	assert.Equal(t, snapshot, s.GetProjects(ctx))
	assert.Equal(t, snapshot, cache.Load[domain.Project](ctx, c, cache.KeyProjects), "snapshot left untouched")
}

func TestStore_ReachableReadRefreshesSnapshot(t *testing.T) {
	s, c, db := onlineStore(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, c, cache.KeyEmployees, []domain.Employee{{ID: "emp-stale", Name: "Stale"}}))
	require.NoError(t, db.Create(&remote.EmployeeRow{
		ID: "emp-1", Name: "Aigerim", Email: "a@example.com", Role: "manager_2",
		CreatedAt: testStart, UpdatedAt: testStart,
	}).Error)

	employees := s.GetEmployees(ctx)
	require.Len(t, employees, 1)
	assert.Equal(t, "emp-1", employees[0].ID)
	assert.Equal(t, domain.RoleManager2, employees[0].Role)

	cached := cache.Load[domain.Employee](ctx, c, cache.KeyEmployees)
	require.Len(t, cached, 1)
	assert.Equal(t, "emp-1", cached[0].ID)
}

func TestStore_CreateMirrorsToRemote(t *testing.T) {
	s, _, db := onlineStore(t)
	ctx := context.Background()

	p, err := s.CreateProject(ctx, domain.Project{
		Name:   "Gamma audit",
		Type:   domain.ProjectTypeAudit,
		Status: domain.ProjectStatusPendingApproval,
		Team:   []domain.TeamMember{{EmployeeID: "emp-1", Role: domain.RolePartner, BonusPercent: 40}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), remoteCount(t, db, remote.TableProjects))

	got, ok := s.GetProject(ctx, p.ID)
	require.True(t, ok)
	assert.Equal(t, "Gamma audit", got.Name)
	assert.Equal(t, domain.ProjectStatusPendingApproval, got.Status)
	assert.Equal(t, p.Team, got.Team)
}

func TestStore_UpdateReinsertsMissingRemoteRow(t *testing.T) {
	s, _, db := onlineStore(t)
	ctx := context.Background()

	co, err := s.CreateCompany(ctx, domain.Company{ShortName: "RB", FullName: "RB Partners", IsActive: true})
	require.NoError(t, err)
	require.NoError(t, db.Exec("DELETE FROM companies").Error)

	_, err = s.UpdateCompany(ctx, co.ID, func(c *domain.Company) error {
		c.FullName = "RB Partners LLP"
		return nil
	})
	require.NoError(t, err)

	var row remote.CompanyRow
	require.NoError(t, db.First(&row, "id = ?", co.ID).Error)
	assert.Equal(t, "RB Partners LLP", row.FullName)
}

func TestStore_UpdateFindsRowKnownOnlyRemotely(t *testing.T) {
	s, c, db := onlineStore(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&remote.EmployeeRow{ID: "emp-remote", Name: "Remote", Role: "assistant"}).Error)
	assert.Empty(t, cache.Load[domain.Employee](ctx, c, cache.KeyEmployees))

	e, err := s.UpdateEmployee(ctx, "emp-remote", func(e *domain.Employee) error {
		e.Department = "Audit"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Audit", e.Department)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()

	for name, s := range map[string]*store.Store{
		"offline": func() *store.Store { s, _ := offlineStore(t); return s }(),
		"online":  func() *store.Store { s, _, _ := onlineStore(t); return s }(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.UpdateProject(ctx, "proj-missing", func(*domain.Project) error { return nil })
			assert.True(t, errors.Is(err, store.ErrNotFound))

			deleted, err := s.DeleteProject(ctx, "proj-missing")
			require.NoError(t, err)
			assert.False(t, deleted)

			_, ok := s.GetProject(ctx, "proj-missing")
			assert.False(t, ok)
		})
	}
}

func TestStore_MutateErrorWritesNothing(t *testing.T) {
	s, c := offlineStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, domain.Task{ProjectID: "proj-1", Title: "Original"})
	require.NoError(t, err)

	rejected := errors.New("rejected")
	_, err = s.UpdateTask(ctx, task.ID, func(t *domain.Task) error {
		t.Title = "Changed"
		return rejected
	})
	assert.True(t, errors.Is(err, rejected))

	cached := cache.Load[domain.Task](ctx, c, cache.KeyTasks)
	require.Len(t, cached, 1)
	assert.Equal(t, "Original", cached[0].Title)
}

func TestStore_ConcurrentCreates(t *testing.T) {
	c := newCache(t)
	s := store.New(c, remote.NewDisconnectedClient(zap.NewNop()), zap.NewNop())
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.CreateTimesheet(ctx, domain.TimesheetEntry{
				EmployeeID:  "emp-1",
				ProjectID:   "proj-1",
				Hours:       1,
				Description: fmt.Sprintf("entry %d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries := s.GetTimesheets(ctx)
	assert.Len(t, entries, writers)
	ids := make(map[string]bool)
	for _, e := range entries {
		ids[e.ID] = true
	}
	assert.Len(t, ids, writers)
}

func TestStore_ConcurrentCreatesSurviveRemoteRefresh(t *testing.T) {
	c := newCache(t)
	db := testutil.SetupSQLiteDB(t)
	require.NoError(t, db.AutoMigrate(remote.AllRows()...))
	s := store.New(c, remote.NewClient(db, time.Second, zap.NewNop(), nil), zap.NewNop())
	ctx := context.Background()
	require.True(t, s.RemoteReachable(ctx))

	const rounds, writers = 10, 20
	created := make(map[string]bool)
	var mu sync.Mutex

	for round := 0; round < rounds; round++ {
		stop := make(chan struct{})
		readerDone := make(chan struct{})
		go func() {
			defer close(readerDone)
			for {
				select {
				case <-stop:
					return
				default:
					s.GetTimesheets(ctx)
				}
			}
		}()

		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				e, err := s.CreateTimesheet(ctx, domain.TimesheetEntry{
					EmployeeID:  "emp-1",
					ProjectID:   "proj-1",
					Hours:       1,
					Description: fmt.Sprintf("round %d entry %d", round, i),
				})
				if assert.NoError(t, err) {
					mu.Lock()
					created[e.ID] = true
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		close(stop)
		<-readerDone
	}

	cached := make(map[string]bool)
	for _, e := range cache.Load[domain.TimesheetEntry](ctx, c, cache.KeyTimesheets) {
		cached[e.ID] = true
	}
	missing := 0
	for id := range created {
		if !cached[id] {
			missing++
		}
	}
	assert.Len(t, created, rounds*writers)
	assert.Zero(t, missing, "every committed create stays in the local cache")
	assert.Len(t, s.GetTimesheets(ctx), rounds*writers)
}

func TestStore_Notifications(t *testing.T) {
	s, _ := offlineStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.CreateNotification(ctx, domain.Notification{UserID: "emp-1", Title: "t", Read: true})
		require.NoError(t, err)
	}
	other, err := s.CreateNotification(ctx, domain.Notification{UserID: "emp-2", Title: "t"})
	require.NoError(t, err)

	for _, n := range s.GetNotifications(ctx) {
		assert.False(t, n.Read, "new notifications start unread")
	}

	marked, err := s.MarkAllNotificationsRead(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 3, marked)

	for _, n := range s.GetNotifications(ctx) {
		assert.Equal(t, n.UserID == "emp-1", n.Read)
	}

	n, err := s.MarkNotificationRead(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, n.Read)
	assert.Equal(t, other.CreatedAt, n.CreatedAt)
}

func TestStore_UpsertTemplate(t *testing.T) {
	s, _ := offlineStore(t)
	ctx := context.Background()

	tpl := domain.Template{ID: "audit-ifrs", Name: "IFRS audit", Category: "audit"}
	created, err := s.UpsertTemplate(ctx, tpl)
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	tpl.Name = "IFRS audit v2"
	replaced, err := s.UpsertTemplate(ctx, tpl)
	require.NoError(t, err)
	assert.Equal(t, 2, replaced.Version)
	assert.Equal(t, created.CreatedAt, replaced.CreatedAt)

	all := s.GetTemplates(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "IFRS audit v2", all[0].Name)
}

func TestStore_ProjectData(t *testing.T) {
	t.Run("offline", func(t *testing.T) {
		s, _ := offlineStore(t)
		ctx := context.Background()

		_, ok := s.GetProjectData(ctx, "proj-1")
		assert.False(t, ok)

		_, err := s.SaveProjectData(ctx, domain.ProjectData{
			ProjectID:  "proj-1",
			TemplateID: "audit-ifrs",
			Completion: domain.CompletionCounter{Total: 4, Completed: 1},
		})
		require.NoError(t, err)

		got, ok := s.GetProjectData(ctx, "proj-1")
		require.True(t, ok)
		assert.Equal(t, 4, got.Completion.Total)
	})

	t.Run("online upserts the mirror row", func(t *testing.T) {
		s, _, db := onlineStore(t)
		ctx := context.Background()

		data := domain.ProjectData{ProjectID: "proj-1", TemplateID: "audit-ifrs", Passport: map[string]string{"period": "2025"}}
		_, err := s.SaveProjectData(ctx, data)
		require.NoError(t, err)
		data.Completion = domain.CompletionCounter{Total: 2, Completed: 2}
		_, err = s.SaveProjectData(ctx, data)
		require.NoError(t, err)

		assert.Equal(t, int64(1), remoteCount(t, db, remote.TableProjectData))
		got, ok := s.GetProjectData(ctx, "proj-1")
		require.True(t, ok)
		assert.Equal(t, 2, got.Completion.Completed)
		assert.Equal(t, "2025", got.Passport["period"])
	})
}

func TestStore_ForceSync(t *testing.T) {
	ctx := context.Background()

	t.Run("unreachable", func(t *testing.T) {
		s, _ := offlineStore(t)
		report := s.ForceSync(ctx)
		assert.False(t, report.Reachable)
		assert.False(t, report.OK())
		assert.Empty(t, report.Collections)
	})

	t.Run("reachable refreshes every collection", func(t *testing.T) {
		s, c, db := onlineStore(t)
		require.NoError(t, db.Create(&remote.BonusRow{ID: "bonus-1", EmployeeID: "emp-1", ProjectID: "proj-1", Amount: 100}).Error)

		report := s.ForceSync(ctx)
		assert.True(t, report.Reachable)
		assert.True(t, report.OK())
		assert.Len(t, report.Collections, 11)
		assert.Len(t, cache.Load[domain.Bonus](ctx, c, cache.KeyBonuses), 1)
	})

	t.Run("failed collection is reported", func(t *testing.T) {
		s, _, db := onlineStore(t)
		require.NoError(t, db.Migrator().DropTable(&remote.EvaluationRow{}))

		report := s.ForceSync(ctx)
		assert.True(t, report.Reachable)
		assert.False(t, report.OK())
		for _, col := range report.Collections {
			if col.Collection == cache.KeyEvaluations {
				assert.NotEmpty(t, col.Error)
			}
		}
	})
}

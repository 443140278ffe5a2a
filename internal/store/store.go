// Package store is the hybrid data layer: every write lands in the local
// cache first and is then mirrored to the remote database on a best-effort
// basis; reads prefer the remote mirror when it is reachable and refresh the
// cache snapshot from it.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/cache"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/mapper"
	"github.com/krasavchik01/rbbb-sub002/internal/remote"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when an update targets a missing id
	ErrNotFound = errors.New("record not found")
	// ErrLocalSave is returned when the cache write fails; nothing was mirrored
	ErrLocalSave = errors.New("could not save locally")
)

// ID prefixes of generated identifiers
const (
	prefixEmployee     = "emp"
	prefixCompany      = "co"
	prefixProject      = "proj"
	prefixTask         = "task"
	prefixTimesheet    = "ts"
	prefixBonus        = "bonus"
	prefixNotification = "notif"
	prefixEvaluation   = "eval"
	prefixFile         = "file"
	prefixComment      = "cmt"
)

// Store is the single data access object of the application
type Store struct {
	cache  *cache.Cache
	remote *remote.Client
	logger *zap.Logger
	now    func() time.Time

	employees     *collection[domain.Employee, remote.EmployeeRow]
	companies     *collection[domain.Company, remote.CompanyRow]
	projects      *collection[domain.Project, remote.ProjectRow]
	tasks         *collection[domain.Task, remote.TaskRow]
	timesheets    *collection[domain.TimesheetEntry, remote.TimesheetRow]
	bonuses       *collection[domain.Bonus, remote.BonusRow]
	notifications *collection[domain.Notification, remote.NotificationRow]
	templates     *collection[domain.Template, remote.TemplateRow]
	evaluations   *collection[domain.Evaluation, remote.EvaluationRow]
	files         *collection[domain.ProjectFile, remote.ProjectFileRow]
}

// Option customizes a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates the store over a cache and a remote client
func New(c *cache.Cache, r *remote.Client, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		cache:  c,
		remote: r,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },

		employees: &collection[domain.Employee, remote.EmployeeRow]{
			key: cache.KeyEmployees, table: remote.TableEmployees,
			id:    func(e domain.Employee) string { return e.ID },
			toRow: mapper.EmployeeToRow, fromRow: mapper.EmployeeFromRow,
		},
		companies: &collection[domain.Company, remote.CompanyRow]{
			key: cache.KeyCompanies, table: remote.TableCompanies,
			id:    func(c domain.Company) string { return c.ID },
			toRow: mapper.CompanyToRow, fromRow: mapper.CompanyFromRow,
		},
		projects: &collection[domain.Project, remote.ProjectRow]{
			key: cache.KeyProjects, table: remote.TableProjects,
			id:    func(p domain.Project) string { return p.ID },
			toRow: mapper.ProjectToRow, fromRow: mapper.ProjectFromRow,
		},
		tasks: &collection[domain.Task, remote.TaskRow]{
			key: cache.KeyTasks, table: remote.TableTasks,
			id:    func(t domain.Task) string { return t.ID },
			toRow: mapper.TaskToRow, fromRow: mapper.TaskFromRow,
		},
		timesheets: &collection[domain.TimesheetEntry, remote.TimesheetRow]{
			key: cache.KeyTimesheets, table: remote.TableTimesheets,
			id:    func(e domain.TimesheetEntry) string { return e.ID },
			toRow: mapper.TimesheetToRow, fromRow: mapper.TimesheetFromRow,
		},
		bonuses: &collection[domain.Bonus, remote.BonusRow]{
			key: cache.KeyBonuses, table: remote.TableBonuses,
			id:    func(b domain.Bonus) string { return b.ID },
			toRow: mapper.BonusToRow, fromRow: mapper.BonusFromRow,
		},
		notifications: &collection[domain.Notification, remote.NotificationRow]{
			key: cache.KeyNotifications, table: remote.TableNotifications,
			id:    func(n domain.Notification) string { return n.ID },
			toRow: mapper.NotificationToRow, fromRow: mapper.NotificationFromRow,
		},
		templates: &collection[domain.Template, remote.TemplateRow]{
			key: cache.KeyTemplates, table: remote.TableTemplates,
			id:    func(t domain.Template) string { return t.ID },
			toRow: mapper.TemplateToRow, fromRow: mapper.TemplateFromRow,
		},
		evaluations: &collection[domain.Evaluation, remote.EvaluationRow]{
			key: cache.KeyEvaluations, table: remote.TableEvaluations,
			id:    func(e domain.Evaluation) string { return e.ID },
			toRow: mapper.EvaluationToRow, fromRow: mapper.EvaluationFromRow,
		},
		files: &collection[domain.ProjectFile, remote.ProjectFileRow]{
			key: cache.KeyProjectFiles, table: remote.TableProjectFiles,
			id:    func(f domain.ProjectFile) string { return f.ID },
			toRow: mapper.ProjectFileToRow, fromRow: mapper.ProjectFileFromRow,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock's current time
func (s *Store) Now() time.Time {
	return s.now()
}

// NewID generates an identifier with the store clock
func (s *Store) NewID(prefix string) string {
	return domain.NewID(prefix, s.now())
}

// RemoteReachable reports the cached probe result
func (s *Store) RemoteReachable(ctx context.Context) bool {
	return s.remote.Probe(ctx)
}

// mirror runs a remote write after the cache write succeeded. Failures are
// logged and counted but never returned.
func (s *Store) mirror(ctx context.Context, table, op, id string, write func(context.Context) error) {
	if !s.remote.Probe(ctx) {
		return
	}
	if err := write(ctx); err != nil {
		s.logger.Warn("Remote mirror write failed, local copy kept",
			zap.String("table", table),
			zap.String("operation", op),
			zap.String("id", id),
			zap.Error(err),
		)
	}
}

// ============================================================================
// Employees & companies
// ============================================================================

func (s *Store) GetEmployees(ctx context.Context) []domain.Employee {
	return s.employees.list(ctx, s)
}

// GetEmployee returns the employee with id
func (s *Store) GetEmployee(ctx context.Context, id string) (domain.Employee, bool) {
	return s.employees.find(ctx, s, id)
}

func (s *Store) CreateEmployee(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	now := s.now()
	if e.ID == "" {
		e.ID = domain.NewID(prefixEmployee, now)
	}
	e.CreatedAt, e.UpdatedAt = now, now
	return s.employees.create(ctx, s, e)
}

// UpdateEmployee mutates an employee. ID and CreatedAt cannot change.
func (s *Store) UpdateEmployee(ctx context.Context, id string, mutate func(*domain.Employee) error) (domain.Employee, error) {
	return s.employees.update(ctx, s, id, func(e *domain.Employee) error {
		createdAt := e.CreatedAt
		if err := mutate(e); err != nil {
			return err
		}
		e.ID, e.CreatedAt, e.UpdatedAt = id, createdAt, s.now()
		return nil
	})
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) (bool, error) {
	return s.employees.remove(ctx, s, id)
}

func (s *Store) GetCompanies(ctx context.Context) []domain.Company {
	return s.companies.list(ctx, s)
}

func (s *Store) CreateCompany(ctx context.Context, c domain.Company) (domain.Company, error) {
	now := s.now()
	if c.ID == "" {
		c.ID = domain.NewID(prefixCompany, now)
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return s.companies.create(ctx, s, c)
}

func (s *Store) UpdateCompany(ctx context.Context, id string, mutate func(*domain.Company) error) (domain.Company, error) {
	return s.companies.update(ctx, s, id, func(c *domain.Company) error {
		if err := mutate(c); err != nil {
			return err
		}
		c.ID, c.UpdatedAt = id, s.now()
		return nil
	})
}

func (s *Store) DeleteCompany(ctx context.Context, id string) (bool, error) {
	return s.companies.remove(ctx, s, id)
}

// ============================================================================
// Projects
// ============================================================================

func (s *Store) GetProjects(ctx context.Context) []domain.Project {
	return s.projects.list(ctx, s)
}

func (s *Store) GetProject(ctx context.Context, id string) (domain.Project, bool) {
	return s.projects.find(ctx, s, id)
}

func (s *Store) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	now := s.now()
	p.ID = domain.NewID(prefixProject, now)
	p.CreatedAt, p.UpdatedAt = now, now
	return s.projects.create(ctx, s, p)
}

func (s *Store) UpdateProject(ctx context.Context, id string, mutate func(*domain.Project) error) (domain.Project, error) {
	return s.projects.update(ctx, s, id, func(p *domain.Project) error {
		createdAt := p.CreatedAt
		if err := mutate(p); err != nil {
			return err
		}
		p.ID, p.CreatedAt, p.UpdatedAt = id, createdAt, s.now()
		return nil
	})
}

func (s *Store) DeleteProject(ctx context.Context, id string) (bool, error) {
	return s.projects.remove(ctx, s, id)
}

// ============================================================================
// Tasks, timesheets, bonuses
// ============================================================================

func (s *Store) GetTasks(ctx context.Context) []domain.Task {
	return s.tasks.list(ctx, s)
}

func (s *Store) GetTask(ctx context.Context, id string) (domain.Task, bool) {
	return s.tasks.find(ctx, s, id)
}

func (s *Store) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	now := s.now()
	t.ID = domain.NewID(prefixTask, now)
	t.CreatedAt, t.UpdatedAt = now, now
	for i := range t.Checklist {
		if t.Checklist[i].ID == "" {
			t.Checklist[i].ID = domain.NewID("chk", now)
		}
	}
	return s.tasks.create(ctx, s, t)
}

func (s *Store) UpdateTask(ctx context.Context, id string, mutate func(*domain.Task) error) (domain.Task, error) {
	return s.tasks.update(ctx, s, id, func(t *domain.Task) error {
		createdAt := t.CreatedAt
		if err := mutate(t); err != nil {
			return err
		}
		t.ID, t.CreatedAt, t.UpdatedAt = id, createdAt, s.now()
		return nil
	})
}

func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	return s.tasks.remove(ctx, s, id)
}

// NewCommentID returns an identifier for a task comment
func (s *Store) NewCommentID() string {
	return s.NewID(prefixComment)
}

func (s *Store) GetTimesheets(ctx context.Context) []domain.TimesheetEntry {
	return s.timesheets.list(ctx, s)
}

func (s *Store) CreateTimesheet(ctx context.Context, e domain.TimesheetEntry) (domain.TimesheetEntry, error) {
	now := s.now()
	e.ID = domain.NewID(prefixTimesheet, now)
	e.CreatedAt = now
	return s.timesheets.create(ctx, s, e)
}

func (s *Store) DeleteTimesheet(ctx context.Context, id string) (bool, error) {
	return s.timesheets.remove(ctx, s, id)
}

func (s *Store) GetBonuses(ctx context.Context) []domain.Bonus {
	return s.bonuses.list(ctx, s)
}

func (s *Store) CreateBonus(ctx context.Context, b domain.Bonus) (domain.Bonus, error) {
	now := s.now()
	b.ID = domain.NewID(prefixBonus, now)
	b.CreatedAt = now
	return s.bonuses.create(ctx, s, b)
}

// ============================================================================
// Notifications
// ============================================================================

func (s *Store) GetNotifications(ctx context.Context) []domain.Notification {
	return s.notifications.list(ctx, s)
}

// CreateNotification stores a new unread notification
func (s *Store) CreateNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	now := s.now()
	n.ID = domain.NewID(prefixNotification, now)
	n.Read = false
	n.CreatedAt = now
	return s.notifications.create(ctx, s, n)
}

// MarkNotificationRead flags one notification as read
func (s *Store) MarkNotificationRead(ctx context.Context, id string) (domain.Notification, error) {
	return s.notifications.update(ctx, s, id, func(n *domain.Notification) error {
		n.Read = true
		return nil
	})
}

// MarkAllNotificationsRead flags every unread notification of a user and
// returns how many changed
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) (int, error) {
	var unread []string
	for _, n := range s.notifications.snapshot(ctx, s) {
		if n.UserID == userID && !n.Read {
			unread = append(unread, n.ID)
		}
	}
	marked := 0
	for _, id := range unread {
		if _, err := s.MarkNotificationRead(ctx, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return marked, err
		}
		marked++
	}
	return marked, nil
}

// ============================================================================
// Templates & methodology data
// ============================================================================

func (s *Store) GetTemplates(ctx context.Context) []domain.Template {
	return s.templates.list(ctx, s)
}

func (s *Store) GetTemplate(ctx context.Context, id string) (domain.Template, bool) {
	return s.templates.find(ctx, s, id)
}

// UpsertTemplate creates a template or replaces an existing one. A
// replacement always increases the version.
func (s *Store) UpsertTemplate(ctx context.Context, tpl domain.Template) (domain.Template, error) {
	now := s.now()
	updated, err := s.templates.update(ctx, s, tpl.ID, func(existing *domain.Template) error {
		version := tpl.Version
		if version <= existing.Version {
			version = existing.Version + 1
		}
		createdAt := existing.CreatedAt
		*existing = tpl
		existing.Version = version
		existing.CreatedAt = createdAt
		existing.UpdatedAt = now
		return nil
	})
	if !errors.Is(err, ErrNotFound) {
		return updated, err
	}
	if tpl.Version < 1 {
		tpl.Version = 1
	}
	tpl.CreatedAt, tpl.UpdatedAt = now, now
	return s.templates.create(ctx, s, tpl)
}

func (s *Store) DeleteTemplate(ctx context.Context, id string) (bool, error) {
	return s.templates.remove(ctx, s, id)
}

// GetProjectData returns a project's methodology data
func (s *Store) GetProjectData(ctx context.Context, projectID string) (domain.ProjectData, bool) {
	key := cache.ProjectDataKey(projectID)
	if s.remote.Probe(ctx) {
		var rows []remote.ProjectDataRow
		err := s.remote.List(ctx, remote.TableProjectData, map[string]any{"project_id": projectID}, &rows)
		if err == nil {
			if len(rows) == 0 {
				return cache.LoadDocument[domain.ProjectData](ctx, s.cache, key)
			}
			data := mapper.ProjectDataFromRow(rows[0])
			if err := cache.SaveDocument(ctx, s.cache, key, data); err != nil {
				s.logger.Warn("Could not persist project data snapshot", zap.String("projectID", projectID), zap.Error(err))
			}
			return data, true
		}
		s.logger.Warn("Remote project data read failed, serving local copy",
			zap.String("projectID", projectID),
			zap.Error(err),
		)
	}
	return cache.LoadDocument[domain.ProjectData](ctx, s.cache, key)
}

// SaveProjectData stores a project's methodology data
func (s *Store) SaveProjectData(ctx context.Context, data domain.ProjectData) (domain.ProjectData, error) {
	data.UpdatedAt = s.now()
	if err := cache.SaveDocument(ctx, s.cache, cache.ProjectDataKey(data.ProjectID), data); err != nil {
		return data, fmt.Errorf("%w: %v", ErrLocalSave, err)
	}
	s.mirror(ctx, remote.TableProjectData, "upsert", data.ProjectID, func(ctx context.Context) error {
		row := mapper.ProjectDataToRow(data)
		err := s.remote.Update(ctx, remote.TableProjectData, row.ID, &row)
		if errors.Is(err, remote.ErrNotFound) {
			return s.remote.Insert(ctx, remote.TableProjectData, &row)
		}
		return err
	})
	return data, nil
}

// ============================================================================
// Evaluations & files
// ============================================================================

func (s *Store) GetEvaluations(ctx context.Context) []domain.Evaluation {
	return s.evaluations.list(ctx, s)
}

func (s *Store) CreateEvaluation(ctx context.Context, e domain.Evaluation) (domain.Evaluation, error) {
	now := s.now()
	e.ID = domain.NewID(prefixEvaluation, now)
	e.CreatedAt = now
	return s.evaluations.create(ctx, s, e)
}

func (s *Store) GetProjectFiles(ctx context.Context) []domain.ProjectFile {
	return s.files.list(ctx, s)
}

func (s *Store) GetProjectFile(ctx context.Context, id string) (domain.ProjectFile, bool) {
	return s.files.find(ctx, s, id)
}

func (s *Store) CreateProjectFile(ctx context.Context, f domain.ProjectFile) (domain.ProjectFile, error) {
	now := s.now()
	f.ID = domain.NewID(prefixFile, now)
	f.CreatedAt = now
	return s.files.create(ctx, s, f)
}

func (s *Store) DeleteProjectFile(ctx context.Context, id string) (bool, error) {
	return s.files.remove(ctx, s, id)
}

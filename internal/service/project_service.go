package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/krasavchik01/rbbb-sub002/internal/auth"
	"github.com/krasavchik01/rbbb-sub002/internal/bonus"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/methodology"
	"github.com/krasavchik01/rbbb-sub002/internal/metrics"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"github.com/krasavchik01/rbbb-sub002/internal/workflow"
	"go.uber.org/zap"
)

// Project-specific service errors
var (
	// ErrMethodologyIncomplete is returned when required procedures are still open
	ErrMethodologyIncomplete = errors.New("required methodology procedures are not done")

	// ErrProjectNotActive is returned when procedures are completed outside the working phase
	ErrProjectNotActive = errors.New("procedures can only be completed while the project is in progress")

	// ErrNoMethodology is returned when a project has no methodology instance
	ErrNoMethodology = errors.New("project has no methodology")
)

// ProjectService drives the engagement lifecycle
type ProjectService struct {
	store         *store.Store
	notifications *NotificationService
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewProjectService creates a new ProjectService. m may be nil.
func NewProjectService(
	st *store.Store,
	notifications *NotificationService,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		store:         st,
		notifications: notifications,
		metrics:       m,
		logger:        logger,
	}
}

func currentUser(ctx context.Context) (*auth.UserContext, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}
	return userCtx, nil
}

// canView reports whether the user sees the project: broad viewers, the
// creator and team members
func canView(userCtx *auth.UserContext, p domain.Project) bool {
	return userCtx.HasPermission(domain.PermissionViewAllProjects) ||
		p.CreatedBy == userCtx.UserID ||
		p.Member(userCtx.UserID) != nil
}

// List returns the projects visible to the current user
func (s *ProjectService) List(ctx context.Context, status domain.ProjectStatus) ([]domain.Project, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	result := []domain.Project{}
	for _, p := range s.store.GetProjects(ctx) {
		if status != "" && p.Status != status {
			continue
		}
		if canView(userCtx, p) {
			result = append(result, p)
		}
	}
	return result, nil
}

// GetByID returns a project visible to the current user
func (s *ProjectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := s.store.GetProject(ctx, id)
	if !ok {
		return nil, ErrProjectNotFound
	}
	if !canView(userCtx, p) {
		return nil, ErrPermissionDenied
	}
	return &p, nil
}

// Create registers a new engagement and submits it for approval in one step
func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.Project, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	actor := userCtx.Actor()

	p := domain.Project{
		Name:      req.Name,
		Type:      req.Type,
		CompanyID: req.CompanyID,
		Status:    domain.ProjectStatusNew,
		Client:    req.Client,
		Contract:  req.Contract,
		Team:      []domain.TeamMember{},
		Finances: domain.Finances{
			ContractorPayments: req.ContractorPayments,
			PreExpensePercent:  req.PreExpensePercent,
			BonusPercent:       req.BonusPercent,
		},
		AdditionalServices: req.AdditionalServices,
		CreatedBy:          actor.EmployeeID,
	}

	rule, err := workflow.Check(workflow.ActionSubmit, &p, actor)
	s.metrics.WorkflowAction(string(workflow.ActionSubmit), err)
	if err != nil {
		return nil, err
	}
	if err := s.recompute(&p); err != nil {
		return nil, err
	}
	workflow.Apply(&p, rule, actor, "", s.store.Now())

	created, err := s.store.CreateProject(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created",
		zap.String("projectID", created.ID),
		zap.String("name", created.Name),
		zap.String("createdBy", actor.EmployeeID),
	)

	s.notifications.CreateBatch(ctx, s.employeesWith(ctx, domain.PermissionApproveProject),
		domain.NotificationTypeInfo,
		"Project awaiting approval",
		fmt.Sprintf("%s was submitted by %s", created.Name, displayName(actor)),
		domain.ProjectLink(created.ID),
	)
	return &created, nil
}

// Approve approves an engagement and assigns its team in the same action
func (s *ProjectService) Approve(ctx context.Context, id string, req *domain.ApproveProjectRequest) (*domain.Project, error) {
	team, err := s.buildTeam(ctx, req.Team)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckLeadership(team); err != nil {
		return nil, err
	}

	p, err := s.transition(ctx, id, workflow.ActionApprove, req.Comment, func(p *domain.Project) error {
		p.Team = team
		return s.recompute(p)
	})
	if err != nil {
		return nil, err
	}

	leads := make([]string, 0, 2)
	for _, m := range p.Team {
		if m.Role.Family() == domain.FamilyManager || m.Role.Family() == domain.FamilyPartner {
			leads = append(leads, m.EmployeeID)
		}
	}
	s.notifications.CreateBatch(ctx, leads, domain.NotificationTypeSuccess,
		"Project approved",
		fmt.Sprintf("You lead %s", p.Name),
		domain.ProjectLink(p.ID),
	)
	return p, nil
}

// AssignTeam replaces the team of a running engagement
func (s *ProjectService) AssignTeam(ctx context.Context, id string, req *domain.AssignTeamRequest) (*domain.Project, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	team, err := s.buildTeam(ctx, req.Team)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckLeadership(team); err != nil {
		return nil, err
	}

	var previous map[string]bool
	updated, err := s.store.UpdateProject(ctx, id, func(p *domain.Project) error {
		if err := workflow.CheckAssignTeam(p, userCtx.Actor()); err != nil {
			return err
		}
		previous = make(map[string]bool, len(p.Team))
		for _, m := range p.Team {
			previous[m.EmployeeID] = true
		}
		p.Team = team
		return s.recompute(p)
	})
	if err != nil {
		return nil, mapStoreError(err, ErrProjectNotFound)
	}

	var added []string
	for _, m := range updated.Team {
		if !previous[m.EmployeeID] {
			added = append(added, m.EmployeeID)
		}
	}
	s.notifications.CreateBatch(ctx, added, domain.NotificationTypeInfo,
		"Added to project team",
		fmt.Sprintf("You were added to %s", updated.Name),
		domain.ProjectLink(updated.ID),
	)
	return &updated, nil
}

// Plan instantiates the methodology selected by the assigned partner and
// moves the project into planning
func (s *ProjectService) Plan(ctx context.Context, id string, req *domain.PlanProjectRequest) (*domain.Project, error) {
	tpl, ok := s.store.GetTemplate(ctx, req.TemplateID)
	if !ok {
		return nil, ErrTemplateNotFound
	}
	if err := methodology.ValidatePassport(tpl, req.Passport); err != nil {
		return nil, err
	}

	var data domain.ProjectData
	planned, err := s.transition(ctx, id, workflow.ActionStartPlanning, "", func(p *domain.Project) error {
		var err error
		data, err = methodology.Instantiate(p.ID, tpl, req.ElementIDs, req.Assignments, p.Team, s.store.Now())
		if err != nil {
			return err
		}
		for k, v := range req.Passport {
			data.Passport[k] = v
		}
		p.TemplateID = tpl.ID
		p.CompletionPercent = data.Completion.Percent()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Methodology is stored only after the status change commits
	if _, err := s.store.SaveProjectData(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to save methodology: %w", err)
	}
	return planned, nil
}

// StartWork moves a planned project into progress
func (s *ProjectService) StartWork(ctx context.Context, id string, req *domain.TransitionRequest) (*domain.Project, error) {
	return s.transition(ctx, id, workflow.ActionStartWork, req.Comment, nil)
}

// MarkReady closes the working phase. Every required procedure must be done.
func (s *ProjectService) MarkReady(ctx context.Context, id string, req *domain.TransitionRequest) (*domain.Project, error) {
	data, hasData := s.store.GetProjectData(ctx, id)
	return s.transition(ctx, id, workflow.ActionMarkReady, req.Comment, func(p *domain.Project) error {
		if !hasData {
			return nil
		}
		if pending := methodology.PendingRequired(data); len(pending) > 0 {
			return fmt.Errorf("%w: %v", ErrMethodologyIncomplete, pending)
		}
		return nil
	})
}

// SubmitPayment fixes the bonus distribution and sends it for sign-off
func (s *ProjectService) SubmitPayment(ctx context.Context, id string, req *domain.SubmitPaymentRequest) (*domain.Project, error) {
	return s.transition(ctx, id, workflow.ActionSubmitPayment, req.Comment, func(p *domain.Project) error {
		for employeeID, share := range req.Shares {
			m := p.Member(employeeID)
			if m == nil {
				return fmt.Errorf("%w: %s is not on the team", ErrInvalidInput, employeeID)
			}
			m.BonusPercent = share
			m.BonusManual = false
		}
		for _, o := range req.Overrides {
			m := p.Member(o.EmployeeID)
			if m == nil {
				return fmt.Errorf("%w: %s is not on the team", ErrInvalidInput, o.EmployeeID)
			}
			m.BonusAmount = o.Amount
			m.BonusManual = true
		}
		return s.recompute(p)
	})
}

// ApprovePayment signs off the distribution and completes the project.
// Completion records bonuses and opens evaluations.
func (s *ProjectService) ApprovePayment(ctx context.Context, id string, req *domain.TransitionRequest) (*domain.Project, error) {
	p, err := s.transition(ctx, id, workflow.ActionApprovePayment, req.Comment, nil)
	if err != nil {
		return nil, err
	}
	s.onCompleted(ctx, *p)
	return p, nil
}

// Cancel cancels a non-terminal project
func (s *ProjectService) Cancel(ctx context.Context, id string, req *domain.TransitionRequest) (*domain.Project, error) {
	return s.transition(ctx, id, workflow.ActionCancel, req.Comment, nil)
}

// BonusPreview recomputes the distribution without saving it
func (s *ProjectService) BonusPreview(ctx context.Context, id string) (*domain.BonusDistributionDTO, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result, err := bonus.Distribute(bonus.InputFromProject(*p))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	dto := bonus.ToDTO(p.ID, result)
	return &dto, nil
}

// GetMethodology returns the project's methodology instance
func (s *ProjectService) GetMethodology(ctx context.Context, id string) (*domain.ProjectData, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	data, ok := s.store.GetProjectData(ctx, id)
	if !ok {
		return nil, ErrNoMethodology
	}
	return &data, nil
}

// SetProcedureDone completes or reopens one procedure and updates the
// project's completion percent
func (s *ProjectService) SetProcedureDone(ctx context.Context, projectID, elementID string, done bool) (*domain.ProjectData, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := s.store.GetProject(ctx, projectID)
	if !ok {
		return nil, ErrProjectNotFound
	}
	if p.Status != domain.ProjectStatusInProgress {
		return nil, ErrProjectNotActive
	}
	if p.Member(userCtx.UserID) == nil && userCtx.Role != domain.RoleAdmin {
		return nil, workflow.ErrNotTeamMember
	}
	data, ok := s.store.GetProjectData(ctx, projectID)
	if !ok {
		return nil, ErrNoMethodology
	}

	if err := methodology.SetElementDone(&data, elementID, done, userCtx.Actor(), s.store.Now()); err != nil {
		return nil, err
	}
	saved, err := s.store.SaveProjectData(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to save methodology: %w", err)
	}

	if _, err := s.store.UpdateProject(ctx, projectID, func(p *domain.Project) error {
		p.CompletionPercent = saved.Completion.Percent()
		return nil
	}); err != nil {
		s.logger.Warn("failed to update completion percent",
			zap.String("projectID", projectID),
			zap.Error(err),
		)
	}
	return &saved, nil
}

// transition applies a workflow action. extra runs after the guard and
// before the status change; an error from it aborts the whole action.
func (s *ProjectService) transition(
	ctx context.Context,
	id string,
	action workflow.Action,
	comment string,
	extra func(p *domain.Project) error,
) (*domain.Project, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	actor := userCtx.Actor()

	var from domain.ProjectStatus
	updated, err := s.store.UpdateProject(ctx, id, func(p *domain.Project) error {
		rule, err := workflow.Check(action, p, actor)
		if err != nil {
			return err
		}
		if extra != nil {
			if err := extra(p); err != nil {
				return err
			}
		}
		from = p.Status
		workflow.Apply(p, rule, actor, comment, s.store.Now())
		return nil
	})
	s.metrics.WorkflowAction(string(action), err)
	if err != nil {
		return nil, mapStoreError(err, ErrProjectNotFound)
	}

	s.logger.Info("project status changed",
		zap.String("projectID", updated.ID),
		zap.String("action", string(action)),
		zap.String("from", string(from)),
		zap.String("to", string(updated.Status)),
		zap.String("by", actor.EmployeeID),
	)

	notificationType := domain.NotificationTypeInfo
	if updated.Status == domain.ProjectStatusCancelled {
		notificationType = domain.NotificationTypeWarning
	}
	s.notifications.NotifyTeam(ctx, updated, notificationType,
		"Project status changed",
		fmt.Sprintf("%s moved from %s to %s", updated.Name, from, updated.Status),
	)
	return &updated, nil
}

// onCompleted records bonuses and invites the team to evaluate each other
func (s *ProjectService) onCompleted(ctx context.Context, p domain.Project) {
	for _, m := range p.Team {
		if m.BonusAmount <= 0 {
			continue
		}
		bonusType := domain.BonusTypeProjectCompletion
		if m.BonusManual {
			bonusType = domain.BonusTypeManual
		}
		if _, err := s.store.CreateBonus(ctx, domain.Bonus{
			EmployeeID: m.EmployeeID,
			ProjectID:  p.ID,
			Amount:     m.BonusAmount,
			Percentage: m.BonusPercent,
			Type:       bonusType,
		}); err != nil {
			s.logger.Error("failed to record bonus",
				zap.String("projectID", p.ID),
				zap.String("employeeID", m.EmployeeID),
				zap.Error(err),
			)
		}
	}

	s.notifications.NotifyTeam(ctx, p, domain.NotificationTypeSuccess,
		"Project completed",
		fmt.Sprintf("%s is completed. Team evaluations are now open.", p.Name),
	)
}

// recompute refreshes the derived finances of the project
func (s *ProjectService) recompute(p *domain.Project) error {
	result, err := bonus.Distribute(bonus.InputFromProject(*p))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	bonus.Apply(p, result)
	return nil
}

// buildTeam validates assignments against known employees
func (s *ProjectService) buildTeam(ctx context.Context, assignments []domain.TeamAssignment) ([]domain.TeamMember, error) {
	known := make(map[string]bool)
	for _, e := range s.store.GetEmployees(ctx) {
		known[e.ID] = true
	}

	team := make([]domain.TeamMember, 0, len(assignments))
	seen := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		if !a.Role.IsValid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, a.Role)
		}
		if !known[a.EmployeeID] {
			return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, a.EmployeeID)
		}
		if seen[a.EmployeeID] {
			return nil, fmt.Errorf("%w: %s assigned twice", ErrInvalidInput, a.EmployeeID)
		}
		seen[a.EmployeeID] = true
		team = append(team, domain.TeamMember{
			EmployeeID:   a.EmployeeID,
			Role:         a.Role,
			BonusPercent: a.BonusPercent,
		})
	}
	return team, nil
}

// employeesWith lists employees whose role grants the permission
func (s *ProjectService) employeesWith(ctx context.Context, permission domain.Permission) []string {
	var ids []string
	for _, e := range s.store.GetEmployees(ctx) {
		if e.Role.Can(permission) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func displayName(actor workflow.Actor) string {
	if actor.Name != "" {
		return actor.Name
	}
	return actor.EmployeeID
}

// mapStoreError translates store not-found into the entity's service error
func mapStoreError(err error, notFound error) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound
	}
	return err
}

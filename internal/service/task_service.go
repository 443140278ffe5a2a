package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/krasavchik01/rbbb-sub002/internal/auth"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"github.com/krasavchik01/rbbb-sub002/internal/workflow"
	"go.uber.org/zap"
)

// TaskService handles business logic for project tasks
type TaskService struct {
	store         *store.Store
	notifications *NotificationService
	logger        *zap.Logger
}

// NewTaskService creates a new TaskService instance
func NewTaskService(st *store.Store, notifications *NotificationService, logger *zap.Logger) *TaskService {
	return &TaskService{
		store:         st,
		notifications: notifications,
		logger:        logger,
	}
}

// projectForWork loads a project the current user may work on: team
// members, management and admins
func (s *TaskService) projectForWork(ctx context.Context, projectID string) (*auth.UserContext, domain.Project, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, domain.Project{}, err
	}
	p, ok := s.store.GetProject(ctx, projectID)
	if !ok {
		return nil, domain.Project{}, ErrProjectNotFound
	}
	if p.Member(userCtx.UserID) == nil && !userCtx.IsManagement() {
		return nil, domain.Project{}, ErrPermissionDenied
	}
	return userCtx, p, nil
}

// ListByProject returns a project's tasks ordered by creation
func (s *TaskService) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	if _, _, err := s.projectForWork(ctx, projectID); err != nil {
		return nil, err
	}
	result := []domain.Task{}
	for _, t := range s.store.GetTasks(ctx) {
		if t.ProjectID == projectID {
			result = append(result, t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// GetByID returns a task
func (s *TaskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, ok := s.store.GetTask(ctx, id)
	if !ok {
		return nil, ErrTaskNotFound
	}
	if _, _, err := s.projectForWork(ctx, t.ProjectID); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create creates a task. Assignees must be on the project team.
func (s *TaskService) Create(ctx context.Context, req *domain.CreateTaskRequest) (*domain.Task, error) {
	userCtx, p, err := s.projectForWork(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if p.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: project is %s", workflow.ErrInvalidTransition, p.Status)
	}
	for _, id := range req.AssigneeIDs {
		if p.Member(id) == nil {
			return nil, fmt.Errorf("%w: assignee %s is not on the team", ErrInvalidInput, id)
		}
	}

	priority := req.Priority
	if !priority.IsValid() {
		priority = domain.TaskPriorityMedium
	}
	checklist := make([]domain.ChecklistItem, 0, len(req.Checklist))
	for _, item := range req.Checklist {
		if strings.TrimSpace(item.Text) == "" {
			return nil, fmt.Errorf("%w: checklist item text is required", ErrInvalidInput)
		}
		item.ID = ""
		checklist = append(checklist, item)
	}

	task, err := s.store.CreateTask(ctx, domain.Task{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         domain.TaskStatusTodo,
		Priority:       priority,
		AssigneeIDs:    nonNilStrings(req.AssigneeIDs),
		EstimatedHours: req.EstimatedHours,
		Checklist:      checklist,
		Comments:       []domain.TaskComment{},
		Attachments:    []string{},
		Labels:         nonNilStrings(req.Labels),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created",
		zap.String("taskID", task.ID),
		zap.String("projectID", task.ProjectID),
		zap.String("createdBy", userCtx.UserID),
	)

	s.notifications.CreateBatch(ctx, task.AssigneeIDs, domain.NotificationTypeInfo,
		"New task assigned",
		fmt.Sprintf("%s in %s", task.Title, p.Name),
		domain.ProjectLink(p.ID),
	)
	return &task, nil
}

// ChangeStatus moves a task through the completion gate
func (s *TaskService) ChangeStatus(ctx context.Context, id string, req *domain.ChangeTaskStatusRequest) (*domain.Task, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	var from domain.TaskStatus
	updated, err := s.store.UpdateTask(ctx, id, func(t *domain.Task) error {
		if err := workflow.CheckTaskTransition(*t, req.Status); err != nil {
			return err
		}
		from = t.Status
		t.Status = req.Status
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, ErrTaskNotFound)
	}

	s.logger.Info("task status changed",
		zap.String("taskID", id),
		zap.String("from", string(from)),
		zap.String("to", string(updated.Status)),
	)
	return &updated, nil
}

// SetChecklistItem checks or unchecks one checklist item
func (s *TaskService) SetChecklistItem(ctx context.Context, taskID, itemID string, req *domain.ChecklistToggleRequest) (*domain.Task, error) {
	if _, err := s.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateTask(ctx, taskID, func(t *domain.Task) error {
		items := append([]domain.ChecklistItem(nil), t.Checklist...)
		for i := range items {
			if items[i].ID == itemID {
				items[i].Done = req.Done
				t.Checklist = items
				return nil
			}
		}
		return ErrChecklistItemNotFound
	})
	if err != nil {
		return nil, mapStoreError(err, ErrTaskNotFound)
	}
	return &updated, nil
}

// AddComment appends a comment by the current user
func (s *TaskService) AddComment(ctx context.Context, taskID string, req *domain.AddCommentRequest) (*domain.Task, error) {
	if _, err := s.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	userCtx := auth.MustFromContext(ctx)
	comment := domain.TaskComment{
		ID:        s.store.NewCommentID(),
		AuthorID:  userCtx.UserID,
		Text:      req.Text,
		CreatedAt: s.store.Now(),
	}
	updated, err := s.store.UpdateTask(ctx, taskID, func(t *domain.Task) error {
		t.Comments = append(append([]domain.TaskComment(nil), t.Comments...), comment)
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, ErrTaskNotFound)
	}
	return &updated, nil
}

// Delete removes a task. Only management may delete tasks.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if !auth.MustFromContext(ctx).IsManagement() {
		return ErrPermissionDenied
	}
	deleted, err := s.store.DeleteTask(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

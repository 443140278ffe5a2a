package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"go.uber.org/zap"
)

// MaxHoursPerDay caps the hours one employee can log on a calendar day
const MaxHoursPerDay = 24

var (
	// ErrDailyHoursExceeded is returned when an entry would push a day over the cap
	ErrDailyHoursExceeded = errors.New("logged hours exceed 24 for the day")

	// ErrTimesheetNotFound is returned when a timesheet entry is not found
	ErrTimesheetNotFound = errors.New("timesheet entry not found")
)

// TimesheetService records hours spent on projects
type TimesheetService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewTimesheetService creates a new TimesheetService instance
func NewTimesheetService(st *store.Store, logger *zap.Logger) *TimesheetService {
	return &TimesheetService{
		store:  st,
		logger: logger,
	}
}

// LogTime records hours for the current user on a project they belong to
func (s *TimesheetService) LogTime(ctx context.Context, req *domain.LogTimeRequest) (*domain.TimesheetEntry, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Hours <= 0 || req.Hours > MaxHoursPerDay {
		return nil, fmt.Errorf("%w: hours must be in (0, 24]", ErrInvalidInput)
	}

	p, ok := s.store.GetProject(ctx, req.ProjectID)
	if !ok {
		return nil, ErrProjectNotFound
	}
	if p.Member(userCtx.UserID) == nil {
		return nil, ErrPermissionDenied
	}

	day := req.Date.UTC().Truncate(24 * time.Hour)
	total := req.Hours
	for _, e := range s.store.GetTimesheets(ctx) {
		if e.EmployeeID == userCtx.UserID && e.Date.UTC().Truncate(24*time.Hour).Equal(day) {
			total += e.Hours
		}
	}
	if total > MaxHoursPerDay {
		return nil, ErrDailyHoursExceeded
	}

	entry, err := s.store.CreateTimesheet(ctx, domain.TimesheetEntry{
		EmployeeID:  userCtx.UserID,
		ProjectID:   req.ProjectID,
		Date:        day,
		Hours:       req.Hours,
		Description: req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to log time: %w", err)
	}
	return &entry, nil
}

// List returns entries filtered by project and/or employee, newest day first
func (s *TimesheetService) List(ctx context.Context, projectID, employeeID string) ([]domain.TimesheetEntry, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if employeeID != userCtx.UserID && !userCtx.IsManagement() && !userCtx.HasPermission(domain.PermissionManageStaff) {
		employeeID = userCtx.UserID
	}

	result := []domain.TimesheetEntry{}
	for _, e := range s.store.GetTimesheets(ctx) {
		if projectID != "" && e.ProjectID != projectID {
			continue
		}
		if employeeID != "" && e.EmployeeID != employeeID {
			continue
		}
		result = append(result, e)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

// Delete removes one of the current user's entries
func (s *TimesheetService) Delete(ctx context.Context, id string) error {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return err
	}
	for _, e := range s.store.GetTimesheets(ctx) {
		if e.ID != id {
			continue
		}
		if e.EmployeeID != userCtx.UserID && !userCtx.IsManagement() {
			return ErrPermissionDenied
		}
		if _, err := s.store.DeleteTimesheet(ctx, id); err != nil {
			return fmt.Errorf("failed to delete timesheet entry: %w", err)
		}
		return nil
	}
	return ErrTimesheetNotFound
}

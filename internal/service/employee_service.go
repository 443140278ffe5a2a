package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"go.uber.org/zap"
)

// EmployeeService manages staff records
type EmployeeService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewEmployeeService creates a new EmployeeService instance
func NewEmployeeService(st *store.Store, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		store:  st,
		logger: logger,
	}
}

func requirePermission(ctx context.Context, permission domain.Permission) error {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return err
	}
	if !userCtx.HasPermission(permission) {
		return ErrPermissionDenied
	}
	return nil
}

// List returns all employees sorted by name
func (s *EmployeeService) List(ctx context.Context) []domain.Employee {
	employees := s.store.GetEmployees(ctx)
	sort.SliceStable(employees, func(i, j int) bool {
		return employees[i].Name < employees[j].Name
	})
	return employees
}

// GetByID returns an employee
func (s *EmployeeService) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	e, ok := s.store.GetEmployee(ctx, id)
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return &e, nil
}

// Create registers an employee. Emails are unique, case-insensitively.
func (s *EmployeeService) Create(ctx context.Context, req *domain.CreateEmployeeRequest) (*domain.Employee, error) {
	if err := requirePermission(ctx, domain.PermissionManageStaff); err != nil {
		return nil, err
	}
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	for _, e := range s.store.GetEmployees(ctx) {
		if strings.EqualFold(e.Email, email) {
			return nil, fmt.Errorf("%w: email %s already registered", ErrConflict, email)
		}
	}

	e, err := s.store.CreateEmployee(ctx, domain.Employee{
		Name:       req.Name,
		Email:      email,
		Role:       req.Role,
		Department: req.Department,
		Position:   req.Position,
		CompanyID:  req.CompanyID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	s.logger.Info("employee created", zap.String("employeeID", e.ID), zap.String("role", string(e.Role)))
	return &e, nil
}

// Update edits an employee. Identity fields never change.
func (s *EmployeeService) Update(ctx context.Context, id string, req *domain.UpdateEmployeeRequest) (*domain.Employee, error) {
	if err := requirePermission(ctx, domain.PermissionManageStaff); err != nil {
		return nil, err
	}
	if req.Role != nil && !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, *req.Role)
	}

	e, err := s.store.UpdateEmployee(ctx, id, func(e *domain.Employee) error {
		if req.Name != nil {
			e.Name = *req.Name
		}
		if req.Role != nil {
			e.Role = *req.Role
		}
		if req.Department != nil {
			e.Department = *req.Department
		}
		if req.Position != nil {
			e.Position = *req.Position
		}
		if req.CompanyID != nil {
			e.CompanyID = req.CompanyID
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, ErrEmployeeNotFound)
	}
	return &e, nil
}

// Delete removes an employee
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := requirePermission(ctx, domain.PermissionManageStaff); err != nil {
		return err
	}
	deleted, err := s.store.DeleteEmployee(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if !deleted {
		return ErrEmployeeNotFound
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"go.uber.org/zap"
)

var (
	// ErrCompanyNotFound is returned when a company is not found
	ErrCompanyNotFound = errors.New("company not found")

	// ErrCompanyCycle is returned when a parent link would create a cycle
	ErrCompanyCycle = errors.New("company cannot be its own ancestor")
)

// CompanyService manages the group company tree
type CompanyService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCompanyService creates a new CompanyService instance
func NewCompanyService(st *store.Store, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		store:  st,
		logger: logger,
	}
}

// List returns all companies sorted by short name
func (s *CompanyService) List(ctx context.Context) []domain.Company {
	companies := s.store.GetCompanies(ctx)
	sort.SliceStable(companies, func(i, j int) bool {
		return companies[i].ShortName < companies[j].ShortName
	})
	return companies
}

// Create registers a company under an optional parent
func (s *CompanyService) Create(ctx context.Context, req *domain.CreateCompanyRequest) (*domain.Company, error) {
	if err := requirePermission(ctx, domain.PermissionManageStaff); err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		if _, ok := s.byID(ctx)[*req.ParentID]; !ok {
			return nil, ErrCompanyNotFound
		}
	}
	c, err := s.store.CreateCompany(ctx, domain.Company{
		ShortName: req.ShortName,
		FullName:  req.FullName,
		TaxID:     req.TaxID,
		ParentID:  req.ParentID,
		IsActive:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return &c, nil
}

// SetParent moves a company in the tree. A nil parent makes it a root.
func (s *CompanyService) SetParent(ctx context.Context, id string, parentID *string) (*domain.Company, error) {
	if err := requirePermission(ctx, domain.PermissionManageStaff); err != nil {
		return nil, err
	}
	companies := s.byID(ctx)
	if _, ok := companies[id]; !ok {
		return nil, ErrCompanyNotFound
	}
	if parentID != nil {
		if _, ok := companies[*parentID]; !ok {
			return nil, ErrCompanyNotFound
		}
		visited := map[string]bool{}
		for cur := parentID; cur != nil && !visited[*cur]; cur = companies[*cur].ParentID {
			if *cur == id {
				return nil, ErrCompanyCycle
			}
			visited[*cur] = true
		}
	}

	c, err := s.store.UpdateCompany(ctx, id, func(c *domain.Company) error {
		c.ParentID = parentID
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, ErrCompanyNotFound)
	}
	return &c, nil
}

// SetActive activates or deactivates a company
func (s *CompanyService) SetActive(ctx context.Context, id string, active bool) (*domain.Company, error) {
	if err := requirePermission(ctx, domain.PermissionManageStaff); err != nil {
		return nil, err
	}
	c, err := s.store.UpdateCompany(ctx, id, func(c *domain.Company) error {
		c.IsActive = active
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, ErrCompanyNotFound)
	}
	return &c, nil
}

func (s *CompanyService) byID(ctx context.Context) map[string]domain.Company {
	companies := make(map[string]domain.Company)
	for _, c := range s.store.GetCompanies(ctx) {
		companies[c.ID] = c
	}
	return companies
}

package service

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/methodology"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"go.uber.org/zap"
)

// TemplateService manages audit methodology templates
type TemplateService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewTemplateService creates a new TemplateService instance
func NewTemplateService(st *store.Store, logger *zap.Logger) *TemplateService {
	return &TemplateService{
		store:  st,
		logger: logger,
	}
}

// List returns all templates sorted by name
func (s *TemplateService) List(ctx context.Context) []domain.Template {
	templates := s.store.GetTemplates(ctx)
	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates
}

// GetByID returns a template
func (s *TemplateService) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	tpl, ok := s.store.GetTemplate(ctx, id)
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return &tpl, nil
}

// Save validates and creates or replaces one template
func (s *TemplateService) Save(ctx context.Context, tpl domain.Template) (*domain.Template, error) {
	if err := methodology.ValidateTemplate(tpl); err != nil {
		return nil, err
	}
	saved, err := s.store.UpsertTemplate(ctx, tpl)
	if err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}
	s.logger.Info("template saved",
		zap.String("templateID", saved.ID),
		zap.Int("version", saved.Version),
	)
	return &saved, nil
}

// Import loads a YAML template document and saves every template in it.
// Nothing is saved when the document is invalid.
func (s *TemplateService) Import(ctx context.Context, r io.Reader) ([]domain.Template, error) {
	templates, err := methodology.LoadTemplates(r)
	if err != nil {
		return nil, err
	}
	saved := make([]domain.Template, 0, len(templates))
	for _, tpl := range templates {
		result, err := s.Save(ctx, tpl)
		if err != nil {
			return saved, err
		}
		saved = append(saved, *result)
	}
	return saved, nil
}

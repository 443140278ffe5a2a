package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/mapper"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"github.com/krasavchik01/rbbb-sub002/internal/workflow"
	"go.uber.org/zap"
)

// EvaluationService handles peer evaluations of completed projects
type EvaluationService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewEvaluationService creates a new EvaluationService instance
func NewEvaluationService(st *store.Store, logger *zap.Logger) *EvaluationService {
	return &EvaluationService{
		store:  st,
		logger: logger,
	}
}

// ListForProject returns a project's evaluations, oldest first. Evaluator
// identity is masked on anonymous records.
func (s *EvaluationService) ListForProject(ctx context.Context, projectID string) ([]domain.EvaluationDTO, error) {
	if _, ok := s.store.GetProject(ctx, projectID); !ok {
		return nil, ErrProjectNotFound
	}

	var evaluations []domain.Evaluation
	for _, e := range s.store.GetEvaluations(ctx) {
		if e.ProjectID == projectID {
			evaluations = append(evaluations, e)
		}
	}
	sort.SliceStable(evaluations, func(i, j int) bool {
		return evaluations[i].CreatedAt.Before(evaluations[j].CreatedAt)
	})

	dtos := make([]domain.EvaluationDTO, 0, len(evaluations))
	for _, e := range evaluations {
		dtos = append(dtos, mapper.ToEvaluationDTO(e))
	}
	return dtos, nil
}

// Submit records an evaluation by the current user. Anonymity is forced when
// the evaluated team role outranks the evaluator at management level.
func (s *EvaluationService) Submit(ctx context.Context, req *domain.CreateEvaluationRequest) (*domain.EvaluationDTO, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	p, ok := s.store.GetProject(ctx, req.ProjectID)
	if !ok {
		return nil, ErrProjectNotFound
	}
	if err := workflow.CheckEvaluation(&p, userCtx.UserID, req.EvaluatedEmployeeID, req.Rating); err != nil {
		return nil, err
	}

	for _, e := range s.store.GetEvaluations(ctx) {
		if e.ProjectID == req.ProjectID && e.EvaluatorID == userCtx.UserID && e.EvaluatedEmployeeID == req.EvaluatedEmployeeID {
			return nil, fmt.Errorf("%w: evaluation already submitted", ErrConflict)
		}
	}

	// Either the staff role or the role held on this project can mandate anonymity
	evaluatedRole := p.Member(req.EvaluatedEmployeeID).Role
	evaluatorRole := p.Member(userCtx.UserID).Role
	anonymous := req.IsAnonymous ||
		workflow.AnonymityMandated(userCtx.Role, evaluatedRole) ||
		workflow.AnonymityMandated(evaluatorRole, evaluatedRole)

	created, err := s.store.CreateEvaluation(ctx, domain.Evaluation{
		ProjectID:           req.ProjectID,
		EvaluatedEmployeeID: req.EvaluatedEmployeeID,
		EvaluatedRole:       evaluatedRole,
		EvaluatorID:         userCtx.UserID,
		EvaluatorName:       userCtx.DisplayName,
		EvaluatorRole:       evaluatorRole,
		Rating:              req.Rating,
		Comment:             req.Comment,
		IsAnonymous:         anonymous,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save evaluation: %w", err)
	}

	s.logger.Info("evaluation submitted",
		zap.String("evaluationID", created.ID),
		zap.String("projectID", created.ProjectID),
		zap.Bool("anonymous", created.IsAnonymous),
		zap.Bool("anonymityForced", anonymous && !req.IsAnonymous),
	)

	dto := mapper.ToEvaluationDTO(created)
	return &dto, nil
}

package handler

import (
	"net/http"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"go.uber.org/zap"
)

// EvaluationHandler serves peer evaluations of completed projects
type EvaluationHandler struct {
	evaluationService *service.EvaluationService
	logger            *zap.Logger
}

// NewEvaluationHandler creates a new EvaluationHandler instance
func NewEvaluationHandler(evaluationService *service.EvaluationService, logger *zap.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationService: evaluationService,
		logger:            logger,
	}
}

// ListForProject godoc
// @Summary List project evaluations
// @Description Evaluations of a project, oldest first. Evaluator fields are blank on anonymous evaluations.
// @Tags Evaluations
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {array} domain.EvaluationDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /project-evaluations/{projectId} [get]
func (h *EvaluationHandler) ListForProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "projectId")
	if !ok {
		return
	}

	evaluations, err := h.evaluationService.ListForProject(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list evaluations")
		return
	}

	respondJSON(w, http.StatusOK, evaluations)
}

// Submit godoc
// @Summary Submit an evaluation
// @Description Rate a teammate on a completed project. Evaluations of a higher management role are always stored anonymous.
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param request body domain.CreateEvaluationRequest true "Evaluation"
// @Success 201 {object} domain.EvaluationDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Project not completed or already evaluated"
// @Security UserHeaders
// @Router /project-evaluations [post]
func (h *EvaluationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEvaluationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	evaluation, err := h.evaluationService.Submit(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "submit evaluation")
		return
	}

	respondJSON(w, http.StatusCreated, evaluation)
}

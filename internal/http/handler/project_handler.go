package handler

import (
	"context"
	"net/http"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"go.uber.org/zap"
)

// ProjectHandler serves the engagement lifecycle
type ProjectHandler struct {
	projectService *service.ProjectService
	logger         *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler instance
func NewProjectHandler(projectService *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// List godoc
// @Summary List projects
// @Description Projects visible to the current user
// @Tags Projects
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {array} domain.Project
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security UserHeaders
// @Router /projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.ProjectStatus(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Invalid status filter")
		return
	}

	projects, err := h.projectService.List(r.Context(), status)
	if err != nil {
		respondServiceError(w, h.logger, err, "list projects")
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

// Create godoc
// @Summary Create project
// @Description Register an engagement and submit it for approval
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body domain.CreateProjectRequest true "Project data"
// @Success 201 {object} domain.Project
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security UserHeaders
// @Router /projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProjectRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	project, err := h.projectService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create project")
		return
	}

	w.Header().Set("Location", "/api/projects/"+project.ID)
	respondJSON(w, http.StatusCreated, project)
}

// GetByID godoc
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} domain.Project
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	project, err := h.projectService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get project")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// Approve godoc
// @Summary Approve project
// @Description Approve a pending project and assign its team. The team needs a manager and a partner.
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.ApproveProjectRequest true "Team"
// @Success 200 {object} domain.Project
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/approve [post]
func (h *ProjectHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.ApproveProjectRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	project, err := h.projectService.Approve(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "approve project")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// AssignTeam godoc
// @Summary Replace project team
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.AssignTeamRequest true "Team"
// @Success 200 {object} domain.Project
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/team [put]
func (h *ProjectHandler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.AssignTeamRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	project, err := h.projectService.AssignTeam(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "assign team")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// Plan godoc
// @Summary Plan project
// @Description The assigned partner selects the methodology and procedures
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.PlanProjectRequest true "Procedure selection"
// @Success 200 {object} domain.Project
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/plan [post]
func (h *ProjectHandler) Plan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.PlanProjectRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	project, err := h.projectService.Plan(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "plan project")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// SubmitPayment godoc
// @Summary Submit bonus distribution
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.SubmitPaymentRequest true "Shares and manual amounts"
// @Success 200 {object} domain.Project
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/payment [post]
func (h *ProjectHandler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.SubmitPaymentRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	project, err := h.projectService.SubmitPayment(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "submit payment")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// StartWork godoc
// @Summary Start fieldwork
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.TransitionRequest false "Comment"
// @Success 200 {object} domain.Project
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/start [post]
func (h *ProjectHandler) StartWork(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "start work", h.projectService.StartWork)
}

// MarkReady godoc
// @Summary Mark project ready to complete
// @Description Every required procedure of the methodology must be done
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.TransitionRequest false "Comment"
// @Success 200 {object} domain.Project
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/ready [post]
func (h *ProjectHandler) MarkReady(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "mark project ready", h.projectService.MarkReady)
}

// ApprovePayment godoc
// @Summary Approve bonus payment
// @Description Signs off the distribution and completes the project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.TransitionRequest false "Comment"
// @Success 200 {object} domain.Project
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/payment/approve [post]
func (h *ProjectHandler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "approve payment", h.projectService.ApprovePayment)
}

// Cancel godoc
// @Summary Cancel project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.TransitionRequest false "Reason"
// @Success 200 {object} domain.Project
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/cancel [post]
func (h *ProjectHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancel project", h.projectService.Cancel)
}

// BonusPreview godoc
// @Summary Preview bonus distribution
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} domain.BonusDistributionDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/bonus [get]
func (h *ProjectHandler) BonusPreview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	preview, err := h.projectService.BonusPreview(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "compute bonus")
		return
	}
	respondJSON(w, http.StatusOK, preview)
}

// GetMethodology godoc
// @Summary Get project methodology
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} domain.ProjectData
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/methodology [get]
func (h *ProjectHandler) GetMethodology(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	data, err := h.projectService.GetMethodology(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get methodology")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// SetProcedureDone godoc
// @Summary Complete or reopen a procedure
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param elementId path string true "Element ID"
// @Param request body domain.ProcedureDoneRequest true "Done flag"
// @Success 200 {object} domain.ProjectData
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/procedures/{elementId} [put]
func (h *ProjectHandler) SetProcedureDone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	elementID, ok := pathID(w, r, "elementId")
	if !ok {
		return
	}
	var req domain.ProcedureDoneRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	data, err := h.projectService.SetProcedureDone(r.Context(), id, elementID, req.Done)
	if err != nil {
		respondServiceError(w, h.logger, err, "update procedure")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// transition serves the workflow actions that only carry a comment
func (h *ProjectHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	apply func(ctx context.Context, id string, req *domain.TransitionRequest) (*domain.Project, error),
) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.TransitionRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	project, err := apply(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, action)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

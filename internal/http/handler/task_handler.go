package handler

import (
	"net/http"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"go.uber.org/zap"
)

// TaskHandler handles HTTP requests for project tasks
type TaskHandler struct {
	taskService *service.TaskService
	logger      *zap.Logger
}

// NewTaskHandler creates a new TaskHandler instance
func NewTaskHandler(taskService *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListByProject godoc
// @Summary List project tasks
// @Tags Tasks
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} domain.Task
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/tasks [get]
func (h *TaskHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	tasks, err := h.taskService.ListByProject(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list tasks")
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// Create godoc
// @Summary Create task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body domain.CreateTaskRequest true "Task"
// @Success 201 {object} domain.Task
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security UserHeaders
// @Router /tasks [post]
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTaskRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	task, err := h.taskService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create task")
		return
	}
	w.Header().Set("Location", "/api/tasks/"+task.ID)
	respondJSON(w, http.StatusCreated, task)
}

// GetByID godoc
// @Summary Get task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} domain.Task
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	task, err := h.taskService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// ChangeStatus godoc
// @Summary Change task status
// @Description A task is done only when every required checklist item is checked, and never straight from blocked
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body domain.ChangeTaskStatusRequest true "Status"
// @Success 200 {object} domain.Task
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security UserHeaders
// @Router /tasks/{id}/status [put]
func (h *TaskHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.ChangeTaskStatusRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	task, err := h.taskService.ChangeStatus(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "change task status")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// SetChecklistItem godoc
// @Summary Check or uncheck a checklist item
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param itemId path string true "Checklist item ID"
// @Param request body domain.ChecklistToggleRequest true "Done flag"
// @Success 200 {object} domain.Task
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /tasks/{id}/checklist/{itemId} [put]
func (h *TaskHandler) SetChecklistItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	var req domain.ChecklistToggleRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	task, err := h.taskService.SetChecklistItem(r.Context(), id, itemID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update checklist")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// AddComment godoc
// @Summary Comment on a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body domain.AddCommentRequest true "Comment"
// @Success 201 {object} domain.Task
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /tasks/{id}/comments [post]
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.AddCommentRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	task, err := h.taskService.AddComment(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "add comment")
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// Delete godoc
// @Summary Delete task
// @Tags Tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.taskService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"go.uber.org/zap"
)

// TimesheetHandler handles HTTP requests for logged hours
type TimesheetHandler struct {
	timesheetService *service.TimesheetService
	logger           *zap.Logger
}

// NewTimesheetHandler creates a new TimesheetHandler instance
func NewTimesheetHandler(timesheetService *service.TimesheetService, logger *zap.Logger) *TimesheetHandler {
	return &TimesheetHandler{
		timesheetService: timesheetService,
		logger:           logger,
	}
}

// List godoc
// @Summary List timesheet entries
// @Description Staff without management or HR rights only see their own entries
// @Tags Timesheets
// @Produce json
// @Param projectId query string false "Project ID"
// @Param employeeId query string false "Employee ID"
// @Success 200 {array} domain.TimesheetEntry
// @Failure 401 {object} domain.APIError
// @Security UserHeaders
// @Router /timesheets [get]
func (h *TimesheetHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.timesheetService.List(r.Context(), q.Get("projectId"), q.Get("employeeId"))
	if err != nil {
		respondServiceError(w, h.logger, err, "list timesheets")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// LogTime godoc
// @Summary Log hours
// @Tags Timesheets
// @Accept json
// @Produce json
// @Param request body domain.LogTimeRequest true "Hours"
// @Success 201 {object} domain.TimesheetEntry
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError "More than 24 hours on one day"
// @Security UserHeaders
// @Router /timesheets [post]
func (h *TimesheetHandler) LogTime(w http.ResponseWriter, r *http.Request) {
	var req domain.LogTimeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	entry, err := h.timesheetService.LogTime(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "log time")
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// Delete godoc
// @Summary Delete timesheet entry
// @Tags Timesheets
// @Param id path string true "Entry ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /timesheets/{id} [delete]
func (h *TimesheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.timesheetService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete timesheet entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"go.uber.org/zap"
)

// EmployeeHandler handles HTTP requests for staff
type EmployeeHandler struct {
	employeeService *service.EmployeeService
	logger          *zap.Logger
}

// NewEmployeeHandler creates a new EmployeeHandler instance
func NewEmployeeHandler(employeeService *service.EmployeeService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
		logger:          logger,
	}
}

// List godoc
// @Summary List employees
// @Tags Employees
// @Produce json
// @Success 200 {array} domain.Employee
// @Security UserHeaders
// @Router /employees [get]
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.employeeService.List(r.Context()))
}

// GetByID godoc
// @Summary Get employee
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} domain.Employee
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /employees/{id} [get]
func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	employee, err := h.employeeService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get employee")
		return
	}
	respondJSON(w, http.StatusOK, employee)
}

// Create godoc
// @Summary Create employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param request body domain.CreateEmployeeRequest true "Employee"
// @Success 201 {object} domain.Employee
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Email already registered"
// @Security UserHeaders
// @Router /employees [post]
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEmployeeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	employee, err := h.employeeService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create employee")
		return
	}
	w.Header().Set("Location", "/api/employees/"+employee.ID)
	respondJSON(w, http.StatusCreated, employee)
}

// Update godoc
// @Summary Update employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body domain.UpdateEmployeeRequest true "Changed fields"
// @Success 200 {object} domain.Employee
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateEmployeeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	employee, err := h.employeeService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update employee")
		return
	}
	respondJSON(w, http.StatusOK, employee)
}

// Delete godoc
// @Summary Delete employee
// @Tags Employees
// @Param id path string true "Employee ID"
// @Success 204
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.employeeService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete employee")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"go.uber.org/zap"
)

type CompanyHandler struct {
	companyService *service.CompanyService
	logger         *zap.Logger
}

func NewCompanyHandler(companyService *service.CompanyService, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		logger:         logger,
	}
}

// @Summary Get all companies
// @Tags Companies
// @Produce json
// @Success 200 {array} domain.Company
// @Security UserHeaders
// @Router /companies [get]
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	companies := h.companyService.List(r.Context())
	respondJSON(w, http.StatusOK, companies)
}

// @Summary Create company
// @Tags Companies
// @Accept json
// @Produce json
// @Param request body domain.CreateCompanyRequest true "Company"
// @Success 201 {object} domain.Company
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security UserHeaders
// @Router /companies [post]
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCompanyRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	company, err := h.companyService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create company")
		return
	}
	respondJSON(w, http.StatusCreated, company)
}

// @Summary Move company in the group tree
// @Tags Companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param request body domain.SetCompanyParentRequest true "Parent"
// @Success 200 {object} domain.Company
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Would create a cycle"
// @Security UserHeaders
// @Router /companies/{id}/parent [put]
func (h *CompanyHandler) SetParent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.SetCompanyParentRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	company, err := h.companyService.SetParent(r.Context(), id, req.ParentID)
	if err != nil {
		respondServiceError(w, h.logger, err, "move company")
		return
	}
	respondJSON(w, http.StatusOK, company)
}

// @Summary Activate or deactivate company
// @Tags Companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param request body domain.SetCompanyActiveRequest true "Active flag"
// @Success 200 {object} domain.Company
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /companies/{id}/active [put]
func (h *CompanyHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.SetCompanyActiveRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	company, err := h.companyService.SetActive(r.Context(), id, req.Active)
	if err != nil {
		respondServiceError(w, h.logger, err, "update company")
		return
	}
	respondJSON(w, http.StatusOK, company)
}

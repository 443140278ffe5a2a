package handler

import (
	"encoding/json"
	"net/http"

	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"go.uber.org/zap"
)

// TemplateHandler serves methodology templates
type TemplateHandler struct {
	templateService *service.TemplateService
	logger          *zap.Logger
}

// NewTemplateHandler creates a new TemplateHandler instance
func NewTemplateHandler(templateService *service.TemplateService, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		logger:          logger,
	}
}

// List godoc
// @Summary List templates
// @Tags Templates
// @Produce json
// @Success 200 {array} domain.Template
// @Security UserHeaders
// @Router /templates [get]
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.templateService.List(r.Context()))
}

// GetByID godoc
// @Summary Get template
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} domain.Template
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /templates/{id} [get]
func (h *TemplateHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	tpl, err := h.templateService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get template")
		return
	}
	respondJSON(w, http.StatusOK, tpl)
}

// Save godoc
// @Summary Create or replace template
// @Description Replacing an existing template bumps its version
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body domain.Template true "Template"
// @Success 200 {object} domain.Template
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security UserHeaders
// @Router /templates/{id} [put]
func (h *TemplateHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var tpl domain.Template
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	tpl.ID = id

	saved, err := h.templateService.Save(r.Context(), tpl)
	if err != nil {
		respondServiceError(w, h.logger, err, "save template")
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

// Import godoc
// @Summary Import templates
// @Description Imports a YAML template document. Nothing is saved when the document is invalid.
// @Tags Templates
// @Accept application/x-yaml
// @Produce json
// @Success 200 {array} domain.Template
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security UserHeaders
// @Router /templates/import [post]
func (h *TemplateHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4<<20)
	saved, err := h.templateService.Import(r.Context(), r.Body)
	if err != nil {
		respondServiceError(w, h.logger, err, "import templates")
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

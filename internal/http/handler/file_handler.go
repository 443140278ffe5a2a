package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/krasavchik01/rbbb-sub002/internal/service"
	"go.uber.org/zap"
)

// FileHandler serves project attachments
type FileHandler struct {
	fileService *service.FileService
	maxUploadMB int64
	logger      *zap.Logger
}

// NewFileHandler creates a new FileHandler instance
func NewFileHandler(fileService *service.FileService, maxUploadMB int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxUploadMB: maxUploadMB,
		logger:      logger,
	}
}

// Upload godoc
// @Summary Upload project file
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Project ID"
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.ProjectFile
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/files [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	record, err := h.fileService.UploadToProject(r.Context(), projectID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondServiceError(w, h.logger, err, "upload file")
		return
	}
	respondJSON(w, http.StatusCreated, record)
}

// ListByProject godoc
// @Summary List project files
// @Tags Files
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} domain.ProjectFile
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /projects/{id}/files [get]
func (h *FileHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	files, err := h.fileService.ListByProject(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list files")
		return
	}
	respondJSON(w, http.StatusOK, files)
}

// GetByID godoc
// @Summary Get file metadata
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} domain.ProjectFile
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /files/{id} [get]
func (h *FileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	file, err := h.fileService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get file")
		return
	}
	respondJSON(w, http.StatusOK, file)
}

// Download godoc
// @Summary Download file
// @Tags Files
// @Produce octet-stream
// @Param id path string true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	reader, file, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "download file")
		return
	}
	defer reader.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("failed to stream file", zap.Error(err), zap.String("file_id", id))
	}
}

// Delete godoc
// @Summary Delete file
// @Tags Files
// @Param id path string true "File ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security UserHeaders
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.fileService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete file")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

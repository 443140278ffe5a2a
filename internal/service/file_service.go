package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/krasavchik01/rbbb-sub002/internal/auth"
	"github.com/krasavchik01/rbbb-sub002/internal/domain"
	"github.com/krasavchik01/rbbb-sub002/internal/storage"
	"github.com/krasavchik01/rbbb-sub002/internal/store"
	"go.uber.org/zap"
)

// FileService stores project attachments and keeps the project's file list current
type FileService struct {
	store   *store.Store
	storage storage.Storage
	logger  *zap.Logger
}

// NewFileService creates a new FileService instance
func NewFileService(st *store.Store, fileStorage storage.Storage, logger *zap.Logger) *FileService {
	return &FileService{
		store:   st,
		storage: fileStorage,
		logger:  logger,
	}
}

// visibleProject loads a project the current user can see
func (s *FileService) visibleProject(ctx context.Context, projectID string) (*auth.UserContext, domain.Project, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, domain.Project{}, err
	}
	p, ok := s.store.GetProject(ctx, projectID)
	if !ok {
		return nil, domain.Project{}, ErrProjectNotFound
	}
	if !canView(userCtx, p) {
		return nil, domain.Project{}, ErrPermissionDenied
	}
	return userCtx, p, nil
}

// UploadToProject uploads a file and attaches it to a project
func (s *FileService) UploadToProject(ctx context.Context, projectID, filename, contentType string, data io.Reader) (*domain.ProjectFile, error) {
	userCtx, p, err := s.visibleProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	filename = path.Base(filename)
	if filename == "." || filename == "/" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}

	storagePath, size, err := s.storage.Upload(ctx, p.ID, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	file, err := s.store.CreateProjectFile(ctx, domain.ProjectFile{
		ProjectID:   p.ID,
		Name:        filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
		UploadedBy:  userCtx.UserID,
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to cleanup file from storage after save error",
				zap.Error(delErr),
				zap.String("storagePath", storagePath),
			)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	if _, err := s.store.UpdateProject(ctx, p.ID, func(p *domain.Project) error {
		p.Files = append(append([]string(nil), p.Files...), file.ID)
		return nil
	}); err != nil {
		s.logger.Warn("failed to link file to project",
			zap.String("projectID", p.ID),
			zap.String("fileID", file.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("file uploaded",
		zap.String("fileID", file.ID),
		zap.String("projectID", p.ID),
		zap.Int64("size", size),
	)
	return &file, nil
}

// ListByProject returns the files attached to a project, newest first
func (s *FileService) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectFile, error) {
	if _, _, err := s.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}
	result := []domain.ProjectFile{}
	for _, f := range s.store.GetProjectFiles(ctx) {
		if f.ProjectID == projectID {
			result = append(result, f)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GetByID returns a file record
func (s *FileService) GetByID(ctx context.Context, id string) (*domain.ProjectFile, error) {
	f, ok := s.store.GetProjectFile(ctx, id)
	if !ok {
		return nil, ErrFileNotFound
	}
	if _, _, err := s.visibleProject(ctx, f.ProjectID); err != nil {
		return nil, err
	}
	return &f, nil
}

// Download opens a file's content. The caller closes the reader.
func (s *FileService) Download(ctx context.Context, id string) (io.ReadCloser, *domain.ProjectFile, error) {
	f, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.storage.Download(ctx, f.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download file: %w", err)
	}
	return reader, f, nil
}

// Delete removes a file record, its content and the project link
func (s *FileService) Delete(ctx context.Context, id string) error {
	f, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.store.DeleteProjectFile(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	if err := s.storage.Delete(ctx, f.StoragePath); err != nil {
		s.logger.Warn("failed to delete file from storage",
			zap.String("storagePath", f.StoragePath),
			zap.Error(err),
		)
	}
	if _, err := s.store.UpdateProject(ctx, f.ProjectID, func(p *domain.Project) error {
		kept := make([]string, 0, len(p.Files))
		for _, fid := range p.Files {
			if fid != id {
				kept = append(kept, fid)
			}
		}
		p.Files = kept
		return nil
	}); err != nil {
		s.logger.Warn("failed to unlink file from project",
			zap.String("projectID", f.ProjectID),
			zap.Error(err),
		)
	}
	return nil
}

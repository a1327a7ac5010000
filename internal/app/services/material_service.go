package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/lecturehub/internal/app/auth"
	"github.com/yigit/lecturehub/internal/app/models"
	"github.com/yigit/lecturehub/internal/app/models/dto"
	"github.com/yigit/lecturehub/internal/app/repositories"
	"github.com/yigit/lecturehub/internal/pkg/apperrors"
	"github.com/yigit/lecturehub/internal/pkg/filestorage"
)

// UploadPolicy bounds what the upload endpoint accepts and where blobs land
type UploadPolicy struct {
	MaxFileSize       int64
	AllowedExtensions []string
	Folder            string
}

// FileUpload is the file part of an upload request
type FileUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// MaterialService handles the material catalog
type MaterialService interface {
	Upload(ctx context.Context, lecturerID int64, req *dto.CreateMaterialRequest, file *FileUpload) (*dto.MaterialResponse, error)
	List(ctx context.Context, filter repositories.MaterialFilter) ([]*dto.MaterialResponse, error)
	Search(ctx context.Context, query string) ([]*dto.MaterialResponse, error)
	// ResolveFileURL returns the blob URL a view or download redirects to
	ResolveFileURL(ctx context.Context, materialID int64) (string, error)
	Delete(ctx context.Context, materialID, lecturerID int64) error
}

type materialServiceImpl struct {
	materialRepo repositories.MaterialStore
	authzService *auth.AuthorizationService
	store        filestorage.BlobStore
	policy       UploadPolicy
	logger       zerolog.Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(
	materialRepo repositories.MaterialStore,
	authzService *auth.AuthorizationService,
	store filestorage.BlobStore,
	policy UploadPolicy,
	logger zerolog.Logger,
) MaterialService {
	return &materialServiceImpl{
		materialRepo: materialRepo,
		authzService: authzService,
		store:        store,
		policy:       policy,
		logger:       logger,
	}
}

// allowedTypesLabel renders the extension allow-list for error messages (".pdf" -> "PDF")
func (p UploadPolicy) allowedTypesLabel() string {
	labels := make([]string, 0, len(p.AllowedExtensions))
	for _, ext := range p.AllowedExtensions {
		labels = append(labels, strings.ToUpper(strings.TrimPrefix(ext, ".")))
	}
	return strings.Join(labels, ", ")
}

// validate runs every upload check that needs no I/O
func (p UploadPolicy) validate(req *dto.CreateMaterialRequest, file *FileUpload) (string, error) {
	if file == nil || file.Content == nil {
		return "", apperrors.NewBadRequestError("No file uploaded")
	}
	if req.Title == "" || req.Subject == "" || req.Code == "" {
		return "", apperrors.NewBadRequestError("Title, subject and code are required")
	}

	ext := models.FileExtension(file.Filename)
	if !models.IsAllowedExtension(ext, p.AllowedExtensions) {
		return "", apperrors.NewCustomError(apperrors.ErrUnsupportedFileType,
			fmt.Sprintf("Invalid file type. Only %s allowed", p.allowedTypesLabel()))
	}

	if p.MaxFileSize > 0 && file.Size > p.MaxFileSize {
		return "", apperrors.NewCustomError(apperrors.ErrFileTooLarge, "File too large")
	}
	return ext, nil
}

// Upload stores the file, then records the material and its course in one transaction
func (s *materialServiceImpl) Upload(ctx context.Context, lecturerID int64, req *dto.CreateMaterialRequest, file *FileUpload) (*dto.MaterialResponse, error) {
	req.Normalize()
	ext, err := s.policy.validate(req, file)
	if err != nil {
		return nil, err
	}

	contentType, body, err := filestorage.SniffContentType(file.Filename, file.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	stored, err := s.store.Upload(ctx, filestorage.UploadInput{
		Folder:      s.policy.Folder,
		Filename:    file.Filename,
		Body:        body,
		Size:        file.Size,
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("lecturerID", lecturerID).Str("filename", file.Filename).Msg("Blob upload failed")
		return nil, apperrors.NewCustomError(fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err), "Failed to upload file")
	}

	size := file.Size
	if size <= 0 {
		size = stored.Size
	}

	material := &models.LectureMaterial{
		Title:      req.Title,
		Subject:    req.Subject,
		Code:       req.Code,
		Filename:   file.Filename,
		Filepath:   stored.URL,
		FileSize:   size,
		FileType:   ext,
		LecturerID: lecturerID,
	}

	courseCreated, err := s.materialRepo.CreateWithCourse(ctx, material)
	if err != nil {
		// The blob stays behind; there is no compensating delete
		s.logger.Error().Err(err).Str("objectKey", stored.Key).Int64("lecturerID", lecturerID).Msg("Failed to record material, stored blob is orphaned")
		return nil, fmt.Errorf("failed to create material: %w", err)
	}

	s.logger.Info().
		Int64("materialID", material.ID).
		Int64("lecturerID", lecturerID).
		Str("code", material.Code).
		Bool("courseCreated", courseCreated).
		Msg("Material uploaded")

	created, err := s.materialRepo.GetByID(ctx, material.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created material: %w", err)
	}
	return dto.NewMaterialResponse(created), nil
}

// List returns materials newest first, optionally filtered
func (s *materialServiceImpl) List(ctx context.Context, filter repositories.MaterialFilter) ([]*dto.MaterialResponse, error) {
	materials, err := s.materialRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return dto.NewMaterialListResponse(materials), nil
}

// Search matches title, code or subject case-insensitively. A blank query lists everything.
func (s *materialServiceImpl) Search(ctx context.Context, query string) ([]*dto.MaterialResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, repositories.MaterialFilter{})
	}

	materials, err := s.materialRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search materials: %w", err)
	}
	return dto.NewMaterialListResponse(materials), nil
}

func (s *materialServiceImpl) ResolveFileURL(ctx context.Context, materialID int64) (string, error) {
	material, err := s.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMaterialNotFound) {
			return "", apperrors.NewCustomError(apperrors.ErrMaterialNotFound, "File not found")
		}
		return "", fmt.Errorf("failed to get material: %w", err)
	}

	if !material.IsRemote() {
		return "", apperrors.NewCustomError(apperrors.ErrGone, "This file is no longer available. Please contact the administrator.")
	}
	return material.Filepath, nil
}

// Delete removes an owned material. Blob removal is best effort; the row is deleted regardless.
func (s *materialServiceImpl) Delete(ctx context.Context, materialID, lecturerID int64) error {
	if err := s.authzService.ValidateMaterialOwnership(ctx, materialID, lecturerID); err != nil {
		return err
	}

	material, err := s.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMaterialNotFound) {
			return apperrors.NewCustomError(apperrors.ErrMaterialNotFound, "Material not found")
		}
		return fmt.Errorf("failed to get material: %w", err)
	}

	if material.IsRemote() {
		s.deleteBlob(ctx, material)
	}

	if err := s.materialRepo.Delete(ctx, materialID); err != nil {
		if errors.Is(err, apperrors.ErrMaterialNotFound) {
			return apperrors.NewCustomError(apperrors.ErrMaterialNotFound, "Material not found")
		}
		return fmt.Errorf("failed to delete material: %w", err)
	}

	s.logger.Info().Int64("materialID", materialID).Int64("lecturerID", lecturerID).Msg("Material deleted")
	return nil
}

func (s *materialServiceImpl) deleteBlob(ctx context.Context, material *models.LectureMaterial) {
	key, err := s.store.KeyFromURL(material.Filepath)
	if err != nil {
		s.logger.Warn().Err(err).Int64("materialID", material.ID).Str("filepath", material.Filepath).Msg("Cannot derive object key, skipping blob delete")
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Int64("materialID", material.ID).Str("objectKey", key).Msg("Blob delete failed, continuing with row delete")
	}
}

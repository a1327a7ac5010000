package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/lecturehub/internal/app/repositories"
	"github.com/yigit/lecturehub/internal/pkg/apperrors"
	"github.com/yigit/lecturehub/internal/pkg/logger"
)

// AuthorizationService handles ownership checks on lecture materials
type AuthorizationService struct {
	materialRepo repositories.MaterialStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(materialRepo repositories.MaterialStore) *AuthorizationService {
	return &AuthorizationService{
		materialRepo: materialRepo,
	}
}

// CanModifyMaterial checks if the lecturer uploaded the material
func (s *AuthorizationService) CanModifyMaterial(ctx context.Context, materialID, lecturerID int64) (bool, error) {
	ownerID, err := s.materialRepo.GetOwnerID(ctx, materialID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMaterialNotFound) {
			return false, apperrors.NewCustomError(apperrors.ErrMaterialNotFound, "Material not found")
		}
		logger.Error().Err(err).Int64("materialID", materialID).Int64("lecturerID", lecturerID).Msg("Error fetching material owner ID")
		return false, fmt.Errorf("failed to check material ownership: %w", err)
	}
	return ownerID == lecturerID, nil
}

// ValidateMaterialOwnership returns an error unless the lecturer owns the material
func (s *AuthorizationService) ValidateMaterialOwnership(ctx context.Context, materialID, lecturerID int64) error {
	canModify, err := s.CanModifyMaterial(ctx, materialID, lecturerID)
	if err != nil {
		return err
	}
	if !canModify {
		logger.Warn().Int64("materialID", materialID).Int64("lecturerID", lecturerID).Msg("Rejected modification of a material owned by another lecturer")
		return apperrors.NewForbiddenError("You can only delete your own materials")
	}
	return nil
}

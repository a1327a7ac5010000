package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	appModels "github.com/yigit/lecturehub/internal/app/models"
	appRepos "github.com/yigit/lecturehub/internal/app/repositories"
	"github.com/yigit/lecturehub/internal/config"
	"github.com/yigit/lecturehub/internal/pkg/apperrors"
	"github.com/yigit/lecturehub/internal/pkg/auth"
)

// ErrSeedPasswordMissing is returned when seeding is enabled without a password
var ErrSeedPasswordMissing = errors.New("seed password is required when seeding is enabled")

// CreateDefaultLecturer creates the first lecturer account so the session-gated signup can be used.
// It does nothing when seeding is disabled or the PF number is already registered.
func CreateDefaultLecturer(ctx context.Context, lecturerRepo appRepos.LecturerStore, cfg *config.Config, lgr zerolog.Logger) error {
	if !cfg.Seed.Enabled {
		return nil
	}

	pfNumber := strings.TrimSpace(cfg.Seed.PFNumber)
	if pfNumber == "" {
		return fmt.Errorf("seed pf_number is required when seeding is enabled")
	}
	if cfg.Seed.Password == "" {
		return ErrSeedPasswordMissing
	}

	lgr.Info().Str("pfNumber", pfNumber).Msg("Checking/Creating default lecturer...")

	pfTaken, _, err := lecturerRepo.Exists(ctx, pfNumber, "")
	if err != nil {
		return fmt.Errorf("failed to check default lecturer: %w", err)
	}
	if pfTaken {
		lgr.Info().Str("pfNumber", pfNumber).Msg("Default lecturer already exists, skipping")
		return nil
	}

	hashedPassword, err := auth.HashPassword(cfg.Seed.Password)
	if err != nil {
		return err
	}

	lecturer := &appModels.Lecturer{
		PFNumber: pfNumber,
		Title:    cfg.Seed.Title,
		Password: hashedPassword,
	}
	if v := strings.TrimSpace(cfg.Seed.FirstName); v != "" {
		lecturer.FirstName = &v
	}
	if v := strings.TrimSpace(cfg.Seed.LastName); v != "" {
		lecturer.LastName = &v
	}
	if v := strings.TrimSpace(cfg.Seed.Email); v != "" {
		lecturer.Email = &v
	}

	if _, err := lecturerRepo.Create(ctx, lecturer); err != nil {
		// Another instance seeded first
		if apperrors.Is(err, apperrors.ErrIdentifierExists, apperrors.ErrEmailAlreadyExists) {
			lgr.Warn().Err(err).Str("pfNumber", pfNumber).Msg("Default lecturer conflicts with an existing account, skipping")
			return nil
		}
		return fmt.Errorf("failed to create default lecturer: %w", err)
	}

	lgr.Info().Int64("lecturerID", lecturer.ID).Str("pfNumber", pfNumber).Msg("Default lecturer created")
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/lecturehub/internal/app/models"
	"github.com/yigit/lecturehub/internal/app/models/dto"
	"github.com/yigit/lecturehub/internal/app/repositories"
	"github.com/yigit/lecturehub/internal/pkg/apperrors"
	"github.com/yigit/lecturehub/internal/pkg/auth"
)

const minPasswordLength = 6

// LoginResult is a verified lecturer together with the freshly issued session token
type LoginResult struct {
	Lecturer  *dto.LecturerResponse
	Token     string
	ExpiresAt time.Time
}

// AuthService handles lecturer login, signup and profile lookup
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error)
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.LecturerResponse, error)
	Me(ctx context.Context, lecturerID int64) (*dto.LecturerResponse, error)
}

type authServiceImpl struct {
	lecturerRepo repositories.LecturerStore
	courseRepo   repositories.CourseStore
	sessions     *auth.SessionService
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	lecturerRepo repositories.LecturerStore,
	courseRepo repositories.CourseStore,
	sessions *auth.SessionService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		lecturerRepo: lecturerRepo,
		courseRepo:   courseRepo,
		sessions:     sessions,
		logger:       logger,
	}
}

func invalidCredentials() error {
	return apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid credentials")
}

// Login authenticates a lecturer by PF number or email
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperrors.NewBadRequestError("Username and password are required")
	}

	lecturer, err := s.lecturerRepo.GetByIdentifier(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrLecturerNotFound) {
			s.logger.Info().Str("username", username).Msg("Login attempt for unknown lecturer")
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("failed to look up lecturer: %w", err)
	}

	if !auth.CheckPassword(lecturer.Password, req.Password) {
		s.logger.Info().Str("username", username).Msg("Login attempt with wrong password")
		return nil, invalidCredentials()
	}

	token, expiresAt, err := s.sessions.Issue(lecturer.ID, lecturer.PFNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	if err := s.attachCourses(ctx, lecturer); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("lecturerID", lecturer.ID).Msg("Lecturer logged in")
	return &LoginResult{
		Lecturer:  dto.NewLecturerResponse(lecturer),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Signup creates a lecturer account. Courses are created later by uploads.
func (s *authServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.LecturerResponse, error) {
	req.Normalize()

	if req.PFNumber == "" || req.Title == "" || req.Password == "" {
		return nil, apperrors.NewBadRequestError("PF Number, title, and password are required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperrors.NewBadRequestError("Password must be at least 6 characters long")
	}

	pfTaken, emailTaken, err := s.lecturerRepo.Exists(ctx, req.PFNumber, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking existing lecturers: %w", err)
	}
	if pfTaken || emailTaken {
		return nil, lecturerExists(apperrors.ErrIdentifierExists)
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	lecturer := &models.Lecturer{
		PFNumber:  req.PFNumber,
		Title:     req.Title,
		FirstName: optional(req.FirstName),
		LastName:  optional(req.LastName),
		Email:     optional(req.Email),
		Password:  hashedPassword,
	}

	if _, err := s.lecturerRepo.Create(ctx, lecturer); err != nil {
		// A concurrent signup can win the race past the existence check
		if apperrors.Is(err, apperrors.ErrIdentifierExists, apperrors.ErrEmailAlreadyExists, apperrors.ErrConflict) {
			return nil, lecturerExists(err)
		}
		return nil, fmt.Errorf("lecturer creation error: %w", err)
	}

	s.logger.Info().Int64("lecturerID", lecturer.ID).Str("pfNumber", lecturer.PFNumber).Msg("Lecturer account created")
	return dto.NewLecturerResponse(lecturer), nil
}

// Me returns the profile of the session's lecturer with their courses
func (s *authServiceImpl) Me(ctx context.Context, lecturerID int64) (*dto.LecturerResponse, error) {
	if lecturerID <= 0 {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}

	lecturer, err := s.lecturerRepo.GetByID(ctx, lecturerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrLecturerNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrLecturerNotFound, "Lecturer not found")
		}
		return nil, fmt.Errorf("failed to get lecturer: %w", err)
	}

	if err := s.attachCourses(ctx, lecturer); err != nil {
		return nil, err
	}
	return dto.NewLecturerResponse(lecturer), nil
}

func (s *authServiceImpl) attachCourses(ctx context.Context, lecturer *models.Lecturer) error {
	courses, err := s.courseRepo.ListByLecturer(ctx, lecturer.ID)
	if err != nil {
		return fmt.Errorf("failed to list lecturer courses: %w", err)
	}
	lecturer.Courses = courses
	return nil
}

func lecturerExists(cause error) error {
	return apperrors.NewCustomError(cause, "Lecturer with this PF Number or email already exists")
}

// optional maps a blank form value to NULL
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

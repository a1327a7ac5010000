package services

import (
	"context"
	"fmt"

	"github.com/yigit/lecturehub/internal/app/models/dto"
	"github.com/yigit/lecturehub/internal/app/repositories"
	"github.com/yigit/lecturehub/internal/pkg/apperrors"
	"github.com/yigit/lecturehub/internal/pkg/helpers"
)

// CourseService lists the courses a lecturer has uploaded to
type CourseService interface {
	ListWithCounts(ctx context.Context, lecturerID int64) ([]dto.CourseWithCountResponse, error)
	MaterialsBySlug(ctx context.Context, lecturerID int64, slug string) (*dto.CourseMaterialsResponse, error)
}

type courseServiceImpl struct {
	courseRepo   repositories.CourseStore
	materialRepo repositories.MaterialStore
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo repositories.CourseStore, materialRepo repositories.MaterialStore) CourseService {
	return &courseServiceImpl{
		courseRepo:   courseRepo,
		materialRepo: materialRepo,
	}
}

func (s *courseServiceImpl) ListWithCounts(ctx context.Context, lecturerID int64) ([]dto.CourseWithCountResponse, error) {
	courses, err := s.courseRepo.ListWithMaterialCounts(ctx, lecturerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return dto.NewCourseListResponse(courses), nil
}

// MaterialsBySlug resolves slug against the lecturer's stored course codes
func (s *courseServiceImpl) MaterialsBySlug(ctx context.Context, lecturerID int64, slug string) (*dto.CourseMaterialsResponse, error) {
	courses, err := s.courseRepo.ListByLecturer(ctx, lecturerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	for _, course := range courses {
		if helpers.SlugifyCourseCode(course.CourseCode) != slug {
			continue
		}

		code := course.CourseCode
		materials, err := s.materialRepo.List(ctx, repositories.MaterialFilter{
			LecturerID: &lecturerID,
			Code:       &code,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list course materials: %w", err)
		}

		return &dto.CourseMaterialsResponse{
			Course: dto.CourseSummary{
				ID:         course.ID,
				CourseCode: course.CourseCode,
				CourseName: course.CourseName,
				Slug:       slug,
			},
			Materials: dto.NewMaterialListResponse(materials),
		}, nil
	}

	return nil, apperrors.NewResourceNotFoundError("Course not found")
}

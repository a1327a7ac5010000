package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/lecturehub/internal/app/models"
	"github.com/yigit/lecturehub/internal/pkg/logger"
)

// CourseRepository handles reads of lecturer courses.
type CourseRepository struct {
	DB *pgxpool.Pool
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{DB: db}
}

func buildListCourses(lecturerID int64) squirrel.SelectBuilder {
	return squirrel.Select("id", "lecturer_id", "course_code", "course_name", "created_at").
		From("lecturer_courses").
		Where(squirrel.Eq{"lecturer_id": lecturerID}).
		OrderBy("course_code ASC").
		PlaceholderFormat(squirrel.Dollar)
}

// ListByLecturer returns the courses of a lecturer ordered by code.
func (r *CourseRepository) ListByLecturer(ctx context.Context, lecturerID int64) ([]*models.LecturerCourse, error) {
	sql, args, err := buildListCourses(lecturerID).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("lecturerID", lecturerID).Msg("Error executing list courses query")
		return nil, err
	}
	defer rows.Close()

	courses := make([]*models.LecturerCourse, 0)
	for rows.Next() {
		var c models.LecturerCourse
		if err := rows.Scan(&c.ID, &c.LecturerID, &c.CourseCode, &c.CourseName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return courses, nil
}

func buildListCoursesWithCounts(lecturerID int64) squirrel.SelectBuilder {
	return squirrel.Select(
		"c.id", "c.lecturer_id", "c.course_code", "c.course_name", "c.created_at",
		"COUNT(m.id) AS material_count",
	).From("lecturer_courses c").
		LeftJoin("lecture_materials m ON m.lecturer_id = c.lecturer_id AND m.code = c.course_code").
		Where(squirrel.Eq{"c.lecturer_id": lecturerID}).
		GroupBy("c.id").
		OrderBy("c.course_code ASC").
		PlaceholderFormat(squirrel.Dollar)
}

// ListWithMaterialCounts returns the lecturer's courses with the number of their materials sharing each code.
func (r *CourseRepository) ListWithMaterialCounts(ctx context.Context, lecturerID int64) ([]*models.CourseWithCount, error) {
	sql, args, err := buildListCoursesWithCounts(lecturerID).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses with counts SQL")
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("lecturerID", lecturerID).Msg("Error executing list courses with counts query")
		return nil, err
	}
	defer rows.Close()

	courses := make([]*models.CourseWithCount, 0)
	for rows.Next() {
		var c models.CourseWithCount
		if err := rows.Scan(&c.ID, &c.LecturerID, &c.CourseCode, &c.CourseName, &c.CreatedAt, &c.MaterialCount); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return courses, nil
}

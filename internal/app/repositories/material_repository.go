package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/lecturehub/internal/app/models"
	"github.com/yigit/lecturehub/internal/db"
	"github.com/yigit/lecturehub/internal/pkg/apperrors"
	"github.com/yigit/lecturehub/internal/pkg/logger"
)

// MaterialRepository handles database operations for lecture materials.
type MaterialRepository struct {
	DB *db.PostgresDB
}

// NewMaterialRepository creates a new instance of MaterialRepository.
func NewMaterialRepository(database *db.PostgresDB) *MaterialRepository {
	return &MaterialRepository{DB: database}
}

// Common select query builder for materials joined with their lecturer
func selectMaterialQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"m.id", "m.title", "m.subject", "m.code", "m.filename", "m.filepath",
		"m.file_size", "m.file_type", "m.upload_date", "m.lecturer_id",
		"l.title AS lecturer_title", "l.first_name", "l.last_name", "l.pf_number",
	).From("lecture_materials m").
		Join("lecturers l ON l.id = m.lecturer_id").
		PlaceholderFormat(squirrel.Dollar)
}

// ScanMaterial scans a row of selectMaterialQuery into a LectureMaterial.
func ScanMaterial(row pgx.Row) (*models.LectureMaterial, error) {
	var m models.LectureMaterial
	var lecturer models.LecturerDisplay
	err := row.Scan(
		&m.ID, &m.Title, &m.Subject, &m.Code, &m.Filename, &m.Filepath,
		&m.FileSize, &m.FileType, &m.UploadDate, &m.LecturerID,
		&lecturer.Title, &lecturer.FirstName, &lecturer.LastName, &lecturer.PFNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMaterialNotFound
		}
		logger.Error().Err(err).Msg("Error scanning lecture material")
		return nil, err
	}
	m.Lecturer = &lecturer
	return &m, nil
}

func buildInsertMaterial(m *models.LectureMaterial) (string, []interface{}, error) {
	return squirrel.Insert("lecture_materials").
		Columns("title", "subject", "code", "filename", "filepath", "file_size", "file_type", "lecturer_id").
		Values(m.Title, m.Subject, m.Code, m.Filename, m.Filepath, m.FileSize, m.FileType, m.LecturerID).
		Suffix("RETURNING id, upload_date").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func buildFindCourse(lecturerID int64, code string) (string, []interface{}, error) {
	return squirrel.Select("id").
		From("lecturer_courses").
		Where(squirrel.Eq{"lecturer_id": lecturerID, "course_code": code}).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func buildInsertCourse(lecturerID int64, code, name string) (string, []interface{}, error) {
	return squirrel.Insert("lecturer_courses").
		Columns("lecturer_id", "course_code", "course_name").
		Values(lecturerID, code, name).
		Suffix("ON CONFLICT (lecturer_id, course_code) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// CreateWithCourse inserts the material and auto-provisions its course in one transaction.
// The course name is the material subject.
func (r *MaterialRepository) CreateWithCourse(ctx context.Context, m *models.LectureMaterial) (bool, error) {
	insertSQL, insertArgs, err := buildInsertMaterial(m)
	if err != nil {
		logger.Error().Err(err).Msg("Error building create material SQL")
		return false, err
	}
	findSQL, findArgs, err := buildFindCourse(m.LecturerID, m.Code)
	if err != nil {
		logger.Error().Err(err).Msg("Error building find course SQL")
		return false, err
	}
	courseSQL, courseArgs, err := buildInsertCourse(m.LecturerID, m.Code, m.Subject)
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return false, err
	}

	var courseCreated bool
	err = r.DB.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertSQL, insertArgs...).Scan(&m.ID, &m.UploadDate); err != nil {
			return fmt.Errorf("insert material: %w", err)
		}

		var courseID int64
		err := tx.QueryRow(ctx, findSQL, findArgs...).Scan(&courseID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("find course: %w", err)
		}

		tag, err := tx.Exec(ctx, courseSQL, courseArgs...)
		if err != nil {
			return fmt.Errorf("insert course: %w", err)
		}
		courseCreated = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("lecturerID", m.LecturerID).Str("code", m.Code).Msg("Error creating material with course")
		return false, err
	}

	return courseCreated, nil
}

// GetByID retrieves a single material with its lecturer.
func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*models.LectureMaterial, error) {
	sql, args, err := selectMaterialQuery().Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get material by ID SQL")
		return nil, err
	}
	return ScanMaterial(r.DB.Pool.QueryRow(ctx, sql, args...))
}

// GetOwnerID returns the lecturer that owns a material.
func (r *MaterialRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	sql, args, err := squirrel.Select("lecturer_id").
		From("lecture_materials").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get material owner SQL")
		return 0, err
	}

	var ownerID int64
	if err := r.DB.Pool.QueryRow(ctx, sql, args...).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrMaterialNotFound
		}
		logger.Error().Err(err).Int64("materialID", id).Msg("Error executing get material owner query")
		return 0, err
	}
	return ownerID, nil
}

func buildListMaterials(filter MaterialFilter) squirrel.SelectBuilder {
	q := selectMaterialQuery()
	if filter.LecturerID != nil {
		q = q.Where(squirrel.Eq{"m.lecturer_id": *filter.LecturerID})
	}
	if filter.Code != nil {
		q = q.Where(squirrel.Eq{"m.code": *filter.Code})
	}
	return q.OrderBy("m.upload_date DESC", "m.id DESC")
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func buildSearchMaterials(query string) squirrel.SelectBuilder {
	pattern := "%" + escapeLike(query) + "%"
	return selectMaterialQuery().
		Where(squirrel.Or{
			squirrel.ILike{"m.title": pattern},
			squirrel.ILike{"m.code": pattern},
			squirrel.ILike{"m.subject": pattern},
		}).
		OrderBy("m.upload_date DESC", "m.id DESC")
}

// List returns materials matching filter, newest first.
func (r *MaterialRepository) List(ctx context.Context, filter MaterialFilter) ([]*models.LectureMaterial, error) {
	return r.queryMaterials(ctx, buildListMaterials(filter), "list")
}

// Search returns materials whose title, code or subject contain query, ignoring case.
func (r *MaterialRepository) Search(ctx context.Context, query string) ([]*models.LectureMaterial, error) {
	return r.queryMaterials(ctx, buildSearchMaterials(query), "search")
}

func (r *MaterialRepository) queryMaterials(ctx context.Context, q squirrel.SelectBuilder, op string) ([]*models.LectureMaterial, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building material query SQL")
		return nil, err
	}

	rows, err := r.DB.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing material query")
		return nil, err
	}
	defer rows.Close()

	materials := make([]*models.LectureMaterial, 0)
	for rows.Next() {
		m, err := ScanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error after iterating through material rows")
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return materials, nil
}

// Delete removes a material row.
func (r *MaterialRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := squirrel.Delete("lecture_materials").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete material SQL")
		return err
	}

	tag, err := r.DB.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("materialID", id).Msg("Error executing delete material query")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}
	return nil
}

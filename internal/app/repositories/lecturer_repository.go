package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/lecturehub/internal/app/models"
	"github.com/yigit/lecturehub/internal/pkg/apperrors"
	"github.com/yigit/lecturehub/internal/pkg/dberrors"
	"github.com/yigit/lecturehub/internal/pkg/logger"
)

// Unique constraint names from migrations/000001_init.sql
const (
	constraintLecturerPFNumber = "lecturers_pf_number_key"
	constraintLecturerEmail    = "lecturers_email_key"
)

// LecturerRepository handles database operations for lecturers.
type LecturerRepository struct {
	DB *pgxpool.Pool
}

// NewLecturerRepository creates a new instance of LecturerRepository.
func NewLecturerRepository(db *pgxpool.Pool) *LecturerRepository {
	return &LecturerRepository{DB: db}
}

var lecturerColumns = []string{
	"id", "pf_number", "title", "first_name", "last_name", "email", "password", "created_at", "updated_at",
}

func selectLecturerQuery() squirrel.SelectBuilder {
	return squirrel.Select(lecturerColumns...).
		From("lecturers").
		PlaceholderFormat(squirrel.Dollar)
}

// ScanLecturer scans a row into a Lecturer.
func ScanLecturer(row pgx.Row) (*models.Lecturer, error) {
	var l models.Lecturer
	err := row.Scan(
		&l.ID, &l.PFNumber, &l.Title, &l.FirstName, &l.LastName, &l.Email, &l.Password,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLecturerNotFound
		}
		logger.Error().Err(err).Msg("Error scanning lecturer")
		return nil, err
	}
	return &l, nil
}

func buildInsertLecturer(l *models.Lecturer) (string, []interface{}, error) {
	return squirrel.Insert("lecturers").
		Columns("pf_number", "title", "first_name", "last_name", "email", "password").
		Values(l.PFNumber, l.Title, l.FirstName, l.LastName, l.Email, l.Password).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// Create inserts a lecturer. Losing a unique race maps to the same conflict errors as the pre-check.
func (r *LecturerRepository) Create(ctx context.Context, l *models.Lecturer) (int64, error) {
	sql, args, err := buildInsertLecturer(l)
	if err != nil {
		logger.Error().Err(err).Msg("Error building create lecturer SQL")
		return 0, err
	}

	err = r.DB.QueryRow(ctx, sql, args...).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, constraintLecturerPFNumber):
			return 0, apperrors.ErrIdentifierExists
		case dberrors.IsDuplicateConstraintError(err, constraintLecturerEmail):
			return 0, apperrors.ErrEmailAlreadyExists
		case dberrors.IsUniqueViolation(err):
			return 0, apperrors.ErrConflict
		}
		logger.Error().Err(err).Str("pfNumber", l.PFNumber).Msg("Error executing create lecturer query")
		return 0, fmt.Errorf("create lecturer: %w", err)
	}

	return l.ID, nil
}

// GetByID retrieves a lecturer by primary key.
func (r *LecturerRepository) GetByID(ctx context.Context, id int64) (*models.Lecturer, error) {
	sql, args, err := selectLecturerQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get lecturer by ID SQL")
		return nil, err
	}
	return ScanLecturer(r.DB.QueryRow(ctx, sql, args...))
}

func buildGetByIdentifier(identifier string) squirrel.SelectBuilder {
	return selectLecturerQuery().
		Where(squirrel.Or{
			squirrel.Eq{"pf_number": identifier},
			squirrel.Eq{"email": identifier},
		}).
		// A PF number match wins over an email match
		OrderByClause("(pf_number = ?) DESC", identifier).
		Limit(1)
}

// GetByIdentifier finds a lecturer whose PF number or email equals identifier.
func (r *LecturerRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Lecturer, error) {
	sql, args, err := buildGetByIdentifier(identifier).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get lecturer by identifier SQL")
		return nil, err
	}
	return ScanLecturer(r.DB.QueryRow(ctx, sql, args...))
}

func buildExistsQuery(pfNumber, email string) squirrel.SelectBuilder {
	cond := squirrel.Or{squirrel.Eq{"pf_number": pfNumber}}
	if email != "" {
		cond = append(cond, squirrel.Eq{"email": email})
	}
	return squirrel.Select("pf_number", "email").
		From("lecturers").
		Where(cond).
		PlaceholderFormat(squirrel.Dollar)
}

// Exists reports whether the PF number or the email are already registered.
func (r *LecturerRepository) Exists(ctx context.Context, pfNumber, email string) (bool, bool, error) {
	sql, args, err := buildExistsQuery(pfNumber, email).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building lecturer exists SQL")
		return false, false, err
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing lecturer exists query")
		return false, false, err
	}
	defer rows.Close()

	var pfTaken, emailTaken bool
	for rows.Next() {
		var pf string
		var em *string
		if err := rows.Scan(&pf, &em); err != nil {
			return false, false, err
		}
		if pf == pfNumber {
			pfTaken = true
		}
		if email != "" && em != nil && *em == email {
			emailTaken = true
		}
	}
	if err := rows.Err(); err != nil {
		return false, false, fmt.Errorf("database iteration error: %w", err)
	}

	return pfTaken, emailTaken, nil
}

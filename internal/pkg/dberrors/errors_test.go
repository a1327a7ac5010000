package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolationClassification(t *testing.T) {
	dup := fmt.Errorf("insert lecturer: %w", &pgconn.PgError{Code: "23505", ConstraintName: "lecturers_pf_number_key"})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "lecture_materials_lecturer_id_fkey"}

	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsDuplicateConstraintError(dup, "lecturers_pf_number_key"))
	assert.False(t, IsDuplicateConstraintError(dup, "lecturers_email_key"))
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

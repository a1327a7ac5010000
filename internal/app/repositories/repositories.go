package repositories

import (
	"context"

	"github.com/yigit/lecturehub/internal/app/models"
	"github.com/yigit/lecturehub/internal/db"
)

// LecturerStore persists lecturer accounts
type LecturerStore interface {
	Create(ctx context.Context, lecturer *models.Lecturer) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Lecturer, error)
	// GetByIdentifier matches either the PF number or the email
	GetByIdentifier(ctx context.Context, identifier string) (*models.Lecturer, error)
	// Exists reports which of pfNumber and email (when non-empty) are already taken
	Exists(ctx context.Context, pfNumber, email string) (pfTaken, emailTaken bool, err error)
}

// CourseStore reads lecturer courses. Courses are only written by MaterialStore.CreateWithCourse.
type CourseStore interface {
	ListByLecturer(ctx context.Context, lecturerID int64) ([]*models.LecturerCourse, error)
	ListWithMaterialCounts(ctx context.Context, lecturerID int64) ([]*models.CourseWithCount, error)
}

// MaterialFilter narrows a material listing; nil fields are not applied
type MaterialFilter struct {
	LecturerID *int64
	Code       *string
}

// MaterialStore persists lecture materials
type MaterialStore interface {
	// CreateWithCourse inserts the material and, in the same transaction, the
	// (lecturer, code) course when missing. It fills material.ID and UploadDate.
	CreateWithCourse(ctx context.Context, material *models.LectureMaterial) (courseCreated bool, err error)
	GetByID(ctx context.Context, id int64) (*models.LectureMaterial, error)
	GetOwnerID(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, filter MaterialFilter) ([]*models.LectureMaterial, error)
	Search(ctx context.Context, query string) ([]*models.LectureMaterial, error)
	Delete(ctx context.Context, id int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	LecturerRepository LecturerStore
	CourseRepository   CourseStore
	MaterialRepository MaterialStore
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		LecturerRepository: NewLecturerRepository(database.Pool),
		CourseRepository:   NewCourseRepository(database.Pool),
		MaterialRepository: NewMaterialRepository(database),
	}
}

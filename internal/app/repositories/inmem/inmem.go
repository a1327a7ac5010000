// Package inmem implements the repository interfaces over maps, for tests and local runs without Postgres.
package inmem

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/lecturehub/internal/app/models"
	"github.com/yigit/lecturehub/internal/app/repositories"
	"github.com/yigit/lecturehub/internal/pkg/apperrors"
)

// DB is the shared in-memory state behind all three repositories
type DB struct {
	mutex     sync.RWMutex
	pkCount   int64
	lecturers map[int64]*models.Lecturer
	courses   map[int64]*models.LecturerCourse
	materials map[int64]*models.LectureMaterial

	// FailCreateMaterial, when set, aborts CreateWithCourse before anything is stored
	FailCreateMaterial error
}

// NewDB creates an empty database
func NewDB() *DB {
	return &DB{
		lecturers: make(map[int64]*models.Lecturer),
		courses:   make(map[int64]*models.LecturerCourse),
		materials: make(map[int64]*models.LectureMaterial),
	}
}

// NewRepositories wires the repositories over db
func NewRepositories(db *DB) *repositories.Repositories {
	return &repositories.Repositories{
		LecturerRepository: &lecturerRepository{db: db},
		CourseRepository:   &courseRepository{db: db},
		MaterialRepository: &materialRepository{db: db},
	}
}

func (db *DB) nextPK() int64 {
	db.pkCount++
	return db.pkCount
}

// CourseCount returns the number of stored lecturer courses
func (db *DB) CourseCount() int {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return len(db.courses)
}

// MaterialCount returns the number of stored materials
func (db *DB) MaterialCount() int {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return len(db.materials)
}

// PutMaterial stores a material as-is, bypassing the upload path
func (db *DB) PutMaterial(m models.LectureMaterial) int64 {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	m.ID = db.nextPK()
	if m.UploadDate.IsZero() {
		m.UploadDate = time.Now()
	}
	db.materials[m.ID] = &m
	return m.ID
}

type lecturerRepository struct {
	db *DB
}

func (repo *lecturerRepository) Create(ctx context.Context, l *models.Lecturer) (int64, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.lecturers {
		if existing.PFNumber == l.PFNumber {
			return 0, apperrors.ErrIdentifierExists
		}
		if l.Email != nil && existing.Email != nil && *existing.Email == *l.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}

	now := time.Now()
	stored := *l
	stored.ID = repo.db.nextPK()
	stored.CreatedAt, stored.UpdatedAt = now, now
	stored.Courses = nil
	repo.db.lecturers[stored.ID] = &stored

	l.ID, l.CreatedAt, l.UpdatedAt = stored.ID, now, now
	return stored.ID, nil
}

func (repo *lecturerRepository) GetByID(ctx context.Context, id int64) (*models.Lecturer, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if l, ok := repo.db.lecturers[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, apperrors.ErrLecturerNotFound
}

func (repo *lecturerRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Lecturer, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var byEmail *models.Lecturer
	for _, l := range repo.db.lecturers {
		if l.PFNumber == identifier {
			cp := *l
			return &cp, nil
		}
		if l.Email != nil && *l.Email == identifier && byEmail == nil {
			cp := *l
			byEmail = &cp
		}
	}
	if byEmail != nil {
		return byEmail, nil
	}
	return nil, apperrors.ErrLecturerNotFound
}

func (repo *lecturerRepository) Exists(ctx context.Context, pfNumber, email string) (bool, bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var pfTaken, emailTaken bool
	for _, l := range repo.db.lecturers {
		if l.PFNumber == pfNumber {
			pfTaken = true
		}
		if email != "" && l.Email != nil && *l.Email == email {
			emailTaken = true
		}
	}
	return pfTaken, emailTaken, nil
}

type courseRepository struct {
	db *DB
}

func (repo *courseRepository) query(lecturerID int64) []*models.LecturerCourse {
	courses := make([]*models.LecturerCourse, 0)
	for _, c := range repo.db.courses {
		if c.LecturerID == lecturerID {
			cp := *c
			courses = append(courses, &cp)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CourseCode < courses[j].CourseCode })
	return courses
}

func (repo *courseRepository) ListByLecturer(ctx context.Context, lecturerID int64) ([]*models.LecturerCourse, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(lecturerID), nil
}

func (repo *courseRepository) ListWithMaterialCounts(ctx context.Context, lecturerID int64) ([]*models.CourseWithCount, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := make([]*models.CourseWithCount, 0)
	for _, c := range repo.query(lecturerID) {
		var n int64
		for _, m := range repo.db.materials {
			if m.LecturerID == lecturerID && m.Code == c.CourseCode {
				n++
			}
		}
		out = append(out, &models.CourseWithCount{LecturerCourse: *c, MaterialCount: n})
	}
	return out, nil
}

type materialRepository struct {
	db *DB
}

func (repo *materialRepository) CreateWithCourse(ctx context.Context, m *models.LectureMaterial) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.db.FailCreateMaterial != nil {
		return false, repo.db.FailCreateMaterial
	}
	if _, ok := repo.db.lecturers[m.LecturerID]; !ok {
		return false, apperrors.ErrLecturerNotFound
	}

	stored := *m
	stored.ID = repo.db.nextPK()
	stored.UploadDate = time.Now()
	stored.Lecturer = nil
	repo.db.materials[stored.ID] = &stored
	m.ID, m.UploadDate = stored.ID, stored.UploadDate

	for _, c := range repo.db.courses {
		if c.LecturerID == m.LecturerID && c.CourseCode == m.Code {
			return false, nil
		}
	}
	id := repo.db.nextPK()
	repo.db.courses[id] = &models.LecturerCourse{
		ID:         id,
		LecturerID: m.LecturerID,
		CourseCode: m.Code,
		CourseName: m.Subject,
		CreatedAt:  stored.UploadDate,
	}
	return true, nil
}

// withLecturer copies m and attaches the lecturer projection; caller holds the lock
func (repo *materialRepository) withLecturer(m *models.LectureMaterial) *models.LectureMaterial {
	cp := *m
	if l, ok := repo.db.lecturers[m.LecturerID]; ok {
		cp.Lecturer = &models.LecturerDisplay{
			Title:     l.Title,
			FirstName: l.FirstName,
			LastName:  l.LastName,
			PFNumber:  l.PFNumber,
		}
	}
	return &cp
}

func (repo *materialRepository) GetByID(ctx context.Context, id int64) (*models.LectureMaterial, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if m, ok := repo.db.materials[id]; ok {
		return repo.withLecturer(m), nil
	}
	return nil, apperrors.ErrMaterialNotFound
}

func (repo *materialRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if m, ok := repo.db.materials[id]; ok {
		return m.LecturerID, nil
	}
	return 0, apperrors.ErrMaterialNotFound
}

func (repo *materialRepository) collect(match func(*models.LectureMaterial) bool) []*models.LectureMaterial {
	out := make([]*models.LectureMaterial, 0)
	for _, m := range repo.db.materials {
		if match(m) {
			out = append(out, repo.withLecturer(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadDate.Equal(out[j].UploadDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].UploadDate.After(out[j].UploadDate)
	})
	return out
}

func (repo *materialRepository) List(ctx context.Context, filter repositories.MaterialFilter) ([]*models.LectureMaterial, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.collect(func(m *models.LectureMaterial) bool {
		if filter.LecturerID != nil && m.LecturerID != *filter.LecturerID {
			return false
		}
		if filter.Code != nil && m.Code != *filter.Code {
			return false
		}
		return true
	}), nil
}

func (repo *materialRepository) Search(ctx context.Context, query string) ([]*models.LectureMaterial, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	q := strings.ToLower(query)
	return repo.collect(func(m *models.LectureMaterial) bool {
		return strings.Contains(strings.ToLower(m.Title), q) ||
			strings.Contains(strings.ToLower(m.Code), q) ||
			strings.Contains(strings.ToLower(m.Subject), q)
	}), nil
}

func (repo *materialRepository) Delete(ctx context.Context, id int64) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.materials[id]; !ok {
		return apperrors.ErrMaterialNotFound
	}
	delete(repo.db.materials, id)
	return nil
}

package dto

import (
	"strings"
	"time"

	"github.com/yigit/lecturehub/internal/app/models"
	"github.com/yigit/lecturehub/internal/pkg/helpers"
)

// CreateMaterialRequest holds the text fields of the multipart upload form
type CreateMaterialRequest struct {
	Title   string `form:"title"`
	Subject string `form:"subject"`
	Code    string `form:"code"`
}

// Normalize trims surrounding whitespace from every field
func (r *CreateMaterialRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Code = strings.TrimSpace(r.Code)
}

// MaterialListQuery are the optional list filters
type MaterialListQuery struct {
	LecturerID string `form:"lecturerId"`
	Code       string `form:"code"`
}

// MaterialResponse is a material with its lecturer projection
type MaterialResponse struct {
	ID            int64                   `json:"id"`
	Title         string                  `json:"title"`
	Subject       string                  `json:"subject"`
	Code          string                  `json:"code"`
	Filename      string                  `json:"filename"`
	Filepath      string                  `json:"filepath"`
	FileSize      int64                   `json:"fileSize"`
	FileSizeLabel string                  `json:"fileSizeLabel"`
	FileType      string                  `json:"fileType"`
	Kind          models.MaterialKind     `json:"kind"`
	UploadDate    time.Time               `json:"uploadDate"`
	LecturerID    int64                   `json:"lecturerId"`
	Lecturer      *models.LecturerDisplay `json:"lecturer,omitempty"`
}

// NewMaterialResponse converts a material model
func NewMaterialResponse(m *models.LectureMaterial) *MaterialResponse {
	if m == nil {
		return nil
	}
	return &MaterialResponse{
		ID:            m.ID,
		Title:         m.Title,
		Subject:       m.Subject,
		Code:          m.Code,
		Filename:      m.Filename,
		Filepath:      m.Filepath,
		FileSize:      m.FileSize,
		FileSizeLabel: helpers.FormatFileSize(m.FileSize),
		FileType:      m.FileType,
		Kind:          m.Kind(),
		UploadDate:    m.UploadDate,
		LecturerID:    m.LecturerID,
		Lecturer:      m.Lecturer,
	}
}

// NewMaterialListResponse converts a slice, never returning nil
func NewMaterialListResponse(materials []*models.LectureMaterial) []*MaterialResponse {
	out := make([]*MaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, NewMaterialResponse(m))
	}
	return out
}

// CourseWithCountResponse is one entry of the lecturer course list
type CourseWithCountResponse struct {
	ID            int64  `json:"id"`
	CourseCode    string `json:"courseCode"`
	CourseName    string `json:"courseName"`
	MaterialCount int64  `json:"materialCount"`
	Slug          string `json:"slug"`
}

// NewCourseListResponse converts course rows
func NewCourseListResponse(courses []*models.CourseWithCount) []CourseWithCountResponse {
	out := make([]CourseWithCountResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseWithCountResponse{
			ID:            c.ID,
			CourseCode:    c.CourseCode,
			CourseName:    c.CourseName,
			MaterialCount: c.MaterialCount,
			Slug:          helpers.SlugifyCourseCode(c.CourseCode),
		})
	}
	return out
}

// CourseMaterialsResponse lists the materials of one lecturer course
type CourseMaterialsResponse struct {
	Course    CourseSummary       `json:"course"`
	Materials []*MaterialResponse `json:"materials"`
}

// HealthResponse reports service liveness
type HealthResponse struct {
	Message   string    `json:"message"`
	Version   string    `json:"version"`
	Status    string    `json:"status"`
	Database  string    `json:"database,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

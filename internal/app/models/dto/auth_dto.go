package dto

import (
	"strings"

	"github.com/yigit/lecturehub/internal/app/models"
	"github.com/yigit/lecturehub/internal/pkg/helpers"
)

// LoginRequest accepts either the PF number or the email as username
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest creates a new lecturer account
type SignupRequest struct {
	PFNumber  string `json:"pfNumber" binding:"required"`
	Title     string `json:"title" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"omitempty,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

// Normalize trims surrounding whitespace from every text field except the password
func (r *SignupRequest) Normalize() {
	r.PFNumber = strings.TrimSpace(r.PFNumber)
	r.Title = strings.TrimSpace(r.Title)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
}

// CourseSummary is a course as listed on a lecturer profile
type CourseSummary struct {
	ID         int64  `json:"id"`
	CourseCode string `json:"courseCode"`
	CourseName string `json:"courseName"`
	Slug       string `json:"slug"`
}

// LecturerResponse is the sanitized lecturer profile
type LecturerResponse struct {
	ID        int64           `json:"id"`
	PFNumber  string          `json:"pfNumber"`
	Title     string          `json:"title"`
	FirstName *string         `json:"firstName,omitempty"`
	LastName  *string         `json:"lastName,omitempty"`
	Email     *string         `json:"email,omitempty"`
	Courses   []CourseSummary `json:"courses"`
}

// NewLecturerResponse strips the password hash and flattens courses
func NewLecturerResponse(l *models.Lecturer) *LecturerResponse {
	if l == nil {
		return nil
	}

	resp := &LecturerResponse{
		ID:        l.ID,
		PFNumber:  l.PFNumber,
		Title:     l.Title,
		FirstName: l.FirstName,
		LastName:  l.LastName,
		Email:     l.Email,
		Courses:   make([]CourseSummary, 0, len(l.Courses)),
	}
	for _, c := range l.Courses {
		resp.Courses = append(resp.Courses, CourseSummary{
			ID:         c.ID,
			CourseCode: c.CourseCode,
			CourseName: c.CourseName,
			Slug:       helpers.SlugifyCourseCode(c.CourseCode),
		})
	}
	return resp
}

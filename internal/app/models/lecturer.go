package models

import "time"

// Lecturer defines the account model based on the 'lecturers' table.
// PFNumber is the unique staff identifier; Email is unique when present and also accepted at login.
type Lecturer struct {
	ID        int64     `json:"id" db:"id"`
	PFNumber  string    `json:"pfNumber" db:"pf_number"`
	Title     string    `json:"title" db:"title"`
	FirstName *string   `json:"firstName,omitempty" db:"first_name"`
	LastName  *string   `json:"lastName,omitempty" db:"last_name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Courses []*LecturerCourse `json:"courses,omitempty"`
}

// LecturerCourse pairs a lecturer with a course code. Created on first upload of that code.
type LecturerCourse struct {
	ID         int64     `json:"id" db:"id"`
	LecturerID int64     `json:"lecturerId" db:"lecturer_id"`
	CourseCode string    `json:"courseCode" db:"course_code"`
	CourseName string    `json:"courseName" db:"course_name"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// CourseWithCount is a lecturer course together with how many materials carry its code
type CourseWithCount struct {
	LecturerCourse
	MaterialCount int64 `json:"materialCount"`
}

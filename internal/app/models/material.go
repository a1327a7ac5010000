package models

import (
	"path"
	"strings"
	"time"
)

// LectureMaterial represents one uploaded file in the 'lecture_materials' table.
// Filepath holds the durable blob URL; rows created before the object store may hold a local path.
type LectureMaterial struct {
	ID         int64     `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Subject    string    `json:"subject" db:"subject"`
	Code       string    `json:"code" db:"code"`
	Filename   string    `json:"filename" db:"filename"`
	Filepath   string    `json:"filepath" db:"filepath"`
	FileSize   int64     `json:"fileSize" db:"file_size"`
	FileType   string    `json:"fileType" db:"file_type"`
	UploadDate time.Time `json:"uploadDate" db:"upload_date"`
	LecturerID int64     `json:"lecturerId" db:"lecturer_id"`

	// Relations (populated when needed)
	Lecturer *LecturerDisplay `json:"lecturer,omitempty"`
}

// LecturerDisplay is the public projection of a lecturer attached to materials
type LecturerDisplay struct {
	Title     string  `json:"title"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	PFNumber  string  `json:"pfNumber"`
}

// IsRemote reports whether Filepath points at the object store
func (m *LectureMaterial) IsRemote() bool {
	return strings.HasPrefix(m.Filepath, "http")
}

// MaterialKind classifies a material for display
type MaterialKind string

// MaterialKind constants
const (
	MaterialKindPDF        MaterialKind = "pdf"
	MaterialKindWord       MaterialKind = "word"
	MaterialKindPowerPoint MaterialKind = "powerpoint"
	MaterialKindText       MaterialKind = "text"
	MaterialKindImage      MaterialKind = "image"
	MaterialKindOther      MaterialKind = "other"
)

// KindFromExtension maps a ".ext" tag to its MaterialKind
func KindFromExtension(ext string) MaterialKind {
	switch strings.ToLower(ext) {
	case ".pdf":
		return MaterialKindPDF
	case ".doc", ".docx":
		return MaterialKindWord
	case ".ppt", ".pptx":
		return MaterialKindPowerPoint
	case ".txt":
		return MaterialKindText
	case ".png", ".jpg", ".jpeg":
		return MaterialKindImage
	default:
		return MaterialKindOther
	}
}

// Kind returns the display kind of the material
func (m *LectureMaterial) Kind() MaterialKind {
	return KindFromExtension(m.FileType)
}

// FileExtension returns the lowercased extension of a filename including the dot
func FileExtension(filename string) string {
	return strings.ToLower(path.Ext(filename))
}

// IsAllowedExtension reports whether ext is in allowed, ignoring case
func IsAllowedExtension(ext string, allowed []string) bool {
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}

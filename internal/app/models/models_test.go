package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromExtension(t *testing.T) {
	tests := map[string]MaterialKind{
		".pdf":  MaterialKindPDF,
		".PDF":  MaterialKindPDF,
		".doc":  MaterialKindWord,
		".docx": MaterialKindWord,
		".ppt":  MaterialKindPowerPoint,
		".pptx": MaterialKindPowerPoint,
		".txt":  MaterialKindText,
		".jpg":  MaterialKindImage,
		".png":  MaterialKindImage,
		".exe":  MaterialKindOther,
		"":      MaterialKindOther,
	}
	for ext, want := range tests {
		assert.Equal(t, want, KindFromExtension(ext), ext)
	}
}

func TestIsAllowedExtension(t *testing.T) {
	allowed := []string{".pdf", ".doc", ".docx", ".ppt", ".pptx", ".txt"}

	assert.True(t, IsAllowedExtension(FileExtension("Lecture 1.PDF"), allowed))
	assert.True(t, IsAllowedExtension(FileExtension("slides.pptx"), allowed))
	assert.False(t, IsAllowedExtension(FileExtension("setup.exe"), allowed))
	assert.False(t, IsAllowedExtension(FileExtension("README"), allowed))
	assert.False(t, IsAllowedExtension(FileExtension("archive.pdf.zip"), allowed))
}

func TestLectureMaterial_IsRemote(t *testing.T) {
	assert.True(t, (&LectureMaterial{Filepath: "https://cdn.example.edu/a.pdf"}).IsRemote())
	assert.False(t, (&LectureMaterial{Filepath: "/uploads/a.pdf"}).IsRemote())
}

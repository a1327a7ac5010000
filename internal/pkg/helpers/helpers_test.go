package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyCourseCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CS101", "cs101"},
		{"  CS 101  ", "cs-101"},
		{"MATH  2/01", "math-201"},
		{"--Intro -- Physics--", "intro-physics"},
		{"ÉCO 1", "co-1"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlugifyCourseCode(tt.in), tt.in)
	}
}

func TestDeslugifyCourseCode(t *testing.T) {
	assert.Equal(t, "CS 101", DeslugifyCourseCode("cs-101"))
	assert.Equal(t, "CS101", DeslugifyCourseCode("cs101"))
	assert.Equal(t, "", DeslugifyCourseCode("-"))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0.00MB", FormatFileSize(0))
	assert.Equal(t, "1.00MB", FormatFileSize(1024*1024))
	assert.Equal(t, "1.25MB", FormatFileSize(1310720))
	assert.Equal(t, "10.00MB", FormatFileSize(10485760))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 168*time.Hour, ParseDuration("168h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("a week", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("  ", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("-5s", time.Minute))
	assert.Equal(t, 90*time.Second, ParseDuration(" 90s ", time.Minute))
}

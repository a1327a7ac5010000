package helpers

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// SlugifyCourseCode turns a free-form course code into a URL segment ("CS 101" -> "cs-101")
func SlugifyCourseCode(code string) string {
	s := strings.TrimSpace(strings.ToLower(code))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// DeslugifyCourseCode renders a slug back in course-code form ("cs-101" -> "CS 101").
// It is lossy; resolve slugs against stored codes rather than trusting this.
func DeslugifyCourseCode(slug string) string {
	return strings.TrimSpace(strings.ToUpper(strings.ReplaceAll(slug, "-", " ")))
}

// FormatFileSize renders a byte count in megabytes with two decimals ("1.25MB")
func FormatFileSize(bytes int64) string {
	return fmt.Sprintf("%.2fMB", float64(bytes)/1024/1024)
}

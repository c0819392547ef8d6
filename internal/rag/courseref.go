package rag

import (
	"strings"

	"course-rag/internal/models"
)

// ResolveCourseFilter scans conversation history for a known course
// mention and returns its canonical name, or "" when none is found.
// First match in table order wins. This is a table-driven heuristic
// standing in for coreference resolution: when the user asks about
// "the course", the course last talked about is almost always the one
// named somewhere in the history.
func ResolveCourseFilter(historyText string) string {
	if historyText == "" {
		return ""
	}
	lower := strings.ToLower(historyText)
	for _, ck := range models.CourseKeywords {
		if strings.Contains(lower, ck.Keyword) {
			return ck.CourseName
		}
	}
	return ""
}

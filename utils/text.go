package utils

import "strings"

// Character ceilings per field class. Lesson-level headings are tighter
// than module-level ones because they render in roster cards.
const (
	MaxLessonTitle    = 120
	MaxLessonSubtitle = 200
	MaxModuleTitle    = 150
	MaxModuleSubtitle = 250
	MaxBody           = 20000
	MaxLinkTitle      = 160
	MaxURL            = 600
	MaxFieldLabel     = 300
)

// CleanText trims surrounding whitespace and clamps to max runes.
func CleanText(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > max {
		return strings.TrimSpace(string(runes[:max]))
	}
	return s
}

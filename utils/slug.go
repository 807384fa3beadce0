package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	lessonModels "lms/models/lesson"
)

// Slugify lowers the text and collapses every non-alphanumeric run into a
// single dash. Empty input yields "lesson".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "lesson"
	}
	if len(slug) > 80 {
		slug = strings.Trim(slug[:80], "-")
	}
	return slug
}

// UniqueLessonSlug resolves a slug that no other lesson uses, appending a
// numeric suffix on collision and a random one as a last resort.
func UniqueLessonSlug(db *gorm.DB, title string, excludeID uint) (string, error) {
	base := Slugify(title)

	candidate := base
	for i := 1; i <= 20; i++ {
		taken, err := slugTaken(db, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	// 20 numeric collisions means someone is mass-duplicating; stop probing.
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

func slugTaken(db *gorm.DB, slug string, excludeID uint) (bool, error) {
	var count int64
	q := db.Model(&lessonModels.Lesson{}).Where("slug = ?", slug)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

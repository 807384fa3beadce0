package lesson

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lesson is the top-level authored entity shown on the public site
type Lesson struct {
	gorm.Model
	Title       string         `json:"title"`
	Subtitle    string         `json:"subtitle"`
	Body        string         `json:"body" gorm:"type:text"`
	VideoURL    string         `json:"video_url"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;not null"`
	Links       datatypes.JSON `json:"links"` // up to three labeled external links
	Position    int            `json:"position" gorm:"default:0"` // order on the lesson roster
	IsPublished bool           `json:"is_published" gorm:"default:false"`
	IsDeleted   bool           `gorm:"default:false"`
}

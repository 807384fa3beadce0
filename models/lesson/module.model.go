package lesson

import "gorm.io/gorm"

// Module is an ordered child unit within a lesson
type Module struct {
	gorm.Model
	LessonID    uint   `json:"lesson_id" gorm:"index;not null"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // position within the lesson
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Body        string `json:"body" gorm:"type:text"`
	VideoURL    string `json:"video_url"`
	IsPublished bool   `json:"is_published" gorm:"default:true"`
	IsDeleted   bool   `gorm:"default:false"`
}

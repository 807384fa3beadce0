package lesson

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ModuleContent is the optional resource companion of a module. A row
// exists only when the module actually carries resources or a video
// override; modules without either have no ModuleContent at all.
type ModuleContent struct {
	gorm.Model
	ModuleID  uint           `json:"module_id" gorm:"uniqueIndex;not null"`
	Resources datatypes.JSON `json:"resources"`
	VideoURL  string         `json:"video_url"`
	IsDeleted bool           `gorm:"default:false"`
}

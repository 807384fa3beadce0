package lesson

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ModuleAssignment is the optional dynamic-form companion of a module.
// Fields holds the encoded field definitions; the row exists only when
// decoding the submitted schema produced at least one field.
type ModuleAssignment struct {
	gorm.Model
	ModuleID         uint           `json:"module_id" gorm:"uniqueIndex;not null"`
	Fields           datatypes.JSON `json:"fields"`
	CompleteOnSubmit bool           `json:"complete_on_submit" gorm:"default:false"`
	IsDeleted        bool           `gorm:"default:false"`
}

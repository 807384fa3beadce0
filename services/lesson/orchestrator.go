package lessonService

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	lessonModels "lms/models/lesson"
	"lms/schema"
	"lms/utils"
	"lms/wizard"
)

// createState tracks how far the create pipeline got, which decides
// whether a failure needs the compensating rollback.
type createState int

const (
	stateNotStarted createState = iota
	stateLessonInserted
	stateModulesInserted
	stateContentAndAssignmentsWritten
	stateCommitted
	stateRolledBack
)

var contentConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "module_id"}},
	DoUpdates: clause.AssignmentColumns([]string{"resources", "video_url", "is_deleted", "updated_at"}),
}

var assignmentConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "module_id"}},
	DoUpdates: clause.AssignmentColumns([]string{"fields", "complete_on_submit", "is_deleted", "updated_at"}),
}

// Submit routes a validated canonical payload to the create or update
// pipeline and returns the lesson id.
func (o *Orchestrator) Submit(p *wizard.SubmitPayload) (uint, error) {
	if p.LessonID > 0 {
		return o.Update(p)
	}
	return o.Create(p)
}

// Create runs the ordered multi-table insert. Any failure after the
// lesson row exists rolls that row (and its children) back and returns
// the original error.
func (o *Orchestrator) Create(p *wizard.SubmitPayload) (uint, error) {
	state := stateNotStarted

	var maxPos int
	if err := o.Ambient.Model(&lessonModels.Lesson{}).
		Select("COALESCE(MAX(position), 0)").Scan(&maxPos).Error; err != nil {
		return 0, newError(KindInternal, "Failed to resolve lesson position!", err)
	}

	slug, err := utils.UniqueLessonSlug(o.Ambient, p.Title, 0)
	if err != nil {
		return 0, newError(KindInternal, "Failed to resolve lesson slug!", err)
	}

	row := lessonModels.Lesson{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		Body:     p.Body,
		VideoURL: p.VideoURL,
		Slug:     slug,
		Links:    linksJSON(p.Links),
		Position: maxPos + 1,
	}

	if err := o.writeWithFallback(true, "Failed to create lesson!", func(db *gorm.DB) error {
		return db.Create(&row).Error
	}); err != nil {
		return 0, err
	}
	state = stateLessonInserted

	// everything below must undo the lesson row on failure
	fail := func(err error) (uint, error) {
		if state >= stateLessonInserted && state < stateCommitted {
			if rbErr := o.rollbackCreate(row.ID); rbErr != nil {
				log.Printf("%v: %v", rbErr, errors.Unwrap(rbErr))
			}
			state = stateRolledBack
		}
		return 0, err
	}

	modules := make([]lessonModels.Module, 0, len(p.Modules))
	for i, m := range p.Modules {
		modules = append(modules, lessonModels.Module{
			LessonID:    row.ID,
			OrderIndex:  i,
			Title:       m.Title,
			Subtitle:    m.Subtitle,
			Body:        m.Body,
			VideoURL:    m.VideoURL,
			IsPublished: true,
		})
	}

	if err := o.writeWithFallback(true, "Failed to create lesson modules!", func(db *gorm.DB) error {
		return db.Create(&modules).Error
	}); err != nil {
		return fail(err)
	}
	state = stateModulesInserted

	// bulk insert fills ids back in source order
	var contents []lessonModels.ModuleContent
	var assignments []lessonModels.ModuleAssignment
	for i, m := range p.Modules {
		content, assignment, err := stageCompanions(modules[i].ID, m)
		if err != nil {
			return fail(err)
		}
		if content != nil {
			contents = append(contents, *content)
		}
		if assignment != nil {
			assignments = append(assignments, *assignment)
		}
	}

	if len(contents) > 0 {
		if err := o.writeWithFallback(true, "Failed to save module resources!", func(db *gorm.DB) error {
			return db.Clauses(contentConflict).Create(&contents).Error
		}); err != nil {
			return fail(err)
		}
	}
	if len(assignments) > 0 {
		if err := o.writeWithFallback(true, "Failed to save module assignments!", func(db *gorm.DB) error {
			return db.Clauses(assignmentConflict).Create(&assignments).Error
		}); err != nil {
			return fail(err)
		}
	}
	state = stateContentAndAssignmentsWritten

	state = stateCommitted
	return row.ID, nil
}

// rollbackCreate is the best-effort compensating delete for a failed
// create. The storage layer has no cross-table transactions, so children
// go first and a secondary failure never masks the original pipeline
// error: the caller just logs the returned compensation error.
func (o *Orchestrator) rollbackCreate(lessonID uint) error {
	db := o.Elevated
	var errs []error

	var moduleIDs []uint
	if err := db.Model(&lessonModels.Module{}).
		Where("lesson_id = ?", lessonID).Pluck("id", &moduleIDs).Error; err != nil {
		errs = append(errs, fmt.Errorf("list modules: %w", err))
	}

	if len(moduleIDs) > 0 {
		if err := db.Unscoped().Where("module_id IN ?", moduleIDs).
			Delete(&lessonModels.ModuleAssignment{}).Error; err != nil {
			errs = append(errs, fmt.Errorf("delete assignments: %w", err))
		}
		if err := db.Unscoped().Where("module_id IN ?", moduleIDs).
			Delete(&lessonModels.ModuleContent{}).Error; err != nil {
			errs = append(errs, fmt.Errorf("delete contents: %w", err))
		}
	}

	if err := db.Unscoped().Where("lesson_id = ?", lessonID).
		Delete(&lessonModels.Module{}).Error; err != nil {
		errs = append(errs, fmt.Errorf("delete modules: %w", err))
	}
	if err := db.Unscoped().Where("id = ?", lessonID).
		Delete(&lessonModels.Lesson{}).Error; err != nil {
		errs = append(errs, fmt.Errorf("delete lesson: %w", err))
	}

	if len(errs) > 0 {
		return newError(KindCompensation,
			fmt.Sprintf("Rollback of lesson %d left rows behind!", lessonID),
			errors.Join(errs...))
	}
	return nil
}

// Update rewrites an existing lesson in place. The lesson predates the
// operation, so there is no rollback: the first error aborts the rest and
// whatever was already written stays.
func (o *Orchestrator) Update(p *wizard.SubmitPayload) (uint, error) {
	if p.LessonID == 0 {
		return 0, newError(KindValidation, "Lesson id is required for update!", nil)
	}

	var row lessonModels.Lesson
	if err := o.readWithFallback(func(db *gorm.DB) error {
		return db.Where("id = ? AND is_deleted = ?", p.LessonID, false).First(&row).Error
	}); err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, newError(KindNotFound, "Lesson not found!", err)
		}
		return 0, newError(KindInternal, "Failed to load lesson!", err)
	}

	// the slug is part of public URLs; leave it alone unless the title moved
	if strings.TrimSpace(row.Title) != p.Title {
		slug, err := utils.UniqueLessonSlug(o.Ambient, p.Title, row.ID)
		if err != nil {
			return 0, newError(KindInternal, "Failed to resolve lesson slug!", err)
		}
		row.Slug = slug
	}

	row.Title = p.Title
	row.Subtitle = p.Subtitle
	row.Body = p.Body
	row.VideoURL = p.VideoURL
	row.Links = linksJSON(p.Links)

	if err := o.writeWithFallback(true, "Failed to update lesson!", func(db *gorm.DB) error {
		return db.Save(&row).Error
	}); err != nil {
		return 0, err
	}

	var existing []lessonModels.Module
	if err := o.Ambient.Where("lesson_id = ? AND is_deleted = ?", row.ID, false).
		Find(&existing).Error; err != nil {
		return 0, newError(KindInternal, "Failed to load lesson modules!", err)
	}
	byID := make(map[uint]lessonModels.Module, len(existing))
	for _, m := range existing {
		byID[m.ID] = m
	}

	var contents []lessonModels.ModuleContent
	var assignments []lessonModels.ModuleAssignment
	var removeAssignments []uint

	for i, m := range p.Modules {
		moduleRow, ok := byID[m.ModuleID]
		if m.ModuleID == 0 || !ok {
			return 0, newError(KindReferential,
				fmt.Sprintf("Module %d is not part of this lesson!", i+1), nil)
		}

		moduleRow.Title = m.Title
		moduleRow.Subtitle = m.Subtitle
		moduleRow.Body = m.Body
		moduleRow.VideoURL = m.VideoURL

		if err := o.writeWithFallback(true, "Failed to update module!", func(db *gorm.DB) error {
			return db.Save(&moduleRow).Error
		}); err != nil {
			return 0, err
		}

		content, assignment, err := stageCompanions(moduleRow.ID, m)
		if err != nil {
			return 0, err
		}
		if content != nil {
			contents = append(contents, *content)
		}
		if assignment != nil {
			assignments = append(assignments, *assignment)
		} else {
			// the author removed every field; retire the assignment row
			removeAssignments = append(removeAssignments, moduleRow.ID)
		}
	}

	if len(contents) > 0 {
		if err := o.writeWithFallback(true, "Failed to save module resources!", func(db *gorm.DB) error {
			return db.Clauses(contentConflict).Create(&contents).Error
		}); err != nil {
			return 0, err
		}
	}
	if len(assignments) > 0 {
		if err := o.writeWithFallback(true, "Failed to save module assignments!", func(db *gorm.DB) error {
			return db.Clauses(assignmentConflict).Create(&assignments).Error
		}); err != nil {
			return 0, err
		}
	}
	if len(removeAssignments) > 0 {
		if err := o.writeWithFallback(true, "Failed to remove module assignments!", func(db *gorm.DB) error {
			return db.Model(&lessonModels.ModuleAssignment{}).
				Where("module_id IN ?", removeAssignments).
				Update("is_deleted", true).Error
		}); err != nil {
			return 0, err
		}
	}

	return row.ID, nil
}

// stageCompanions builds the optional ModuleContent and ModuleAssignment
// rows of one module. Either may be nil when the module carries nothing.
func stageCompanions(moduleID uint, m wizard.ModulePayload) (*lessonModels.ModuleContent, *lessonModels.ModuleAssignment, error) {
	var content *lessonModels.ModuleContent
	if len(m.Resources) > 0 || m.VideoURL != "" {
		content = &lessonModels.ModuleContent{
			ModuleID:  moduleID,
			Resources: linksJSON(m.Resources),
			VideoURL:  m.VideoURL,
		}
	}

	fields := schema.Sanitize(m.FormFields)
	if len(fields) == 0 {
		return content, nil, nil
	}

	raw, err := schema.EncodeSchema(schema.Schema{
		Fields:           fields,
		CompleteOnSubmit: m.CompleteOnSubmit,
	})
	if err != nil {
		return nil, nil, newError(KindValidation, "Failed to encode assignment schema!", err)
	}

	return content, &lessonModels.ModuleAssignment{
		ModuleID:         moduleID,
		Fields:           datatypes.JSON(raw),
		CompleteOnSubmit: m.CompleteOnSubmit,
	}, nil
}

func linksJSON(links []wizard.LinkPayload) datatypes.JSON {
	if len(links) == 0 {
		return datatypes.JSON("[]")
	}
	b, err := json.Marshal(links)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

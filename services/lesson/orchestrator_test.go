package lessonService

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	lessonModels "lms/models/lesson"
	"lms/schema"
	"lms/wizard"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&lessonModels.Lesson{},
		&lessonModels.Module{},
		&lessonModels.ModuleContent{},
		&lessonModels.ModuleAssignment{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func testOrchestrator(t *testing.T) (*Orchestrator, *gorm.DB) {
	db := testDB(t)
	return NewOrchestrator(db, db), db
}

func createPayload() *wizard.SubmitPayload {
	return &wizard.SubmitPayload{
		Title:    "Budgeting Basics",
		Subtitle: "Money in, money out",
		Body:     "Lesson body",
		Links: []wizard.LinkPayload{
			{Title: "Worksheet", URL: "https://example.org/sheet.pdf", Provider: "pdf"},
		},
		Modules: []wizard.ModulePayload{
			{
				Title:    "Tracking Spending",
				Body:     "Module one body",
				VideoURL: "https://youtu.be/abc",
				Resources: []wizard.LinkPayload{
					{Title: "Template", URL: "https://example.org/template", Provider: "link"},
				},
			},
			{
				Title: "Making a Plan",
				FormFields: []schema.FieldSpec{
					{Label: "Monthly income", Type: schema.FieldShortText, Required: true},
				},
				CompleteOnSubmit: true,
			},
		},
	}
}

func TestCreateWritesTheWholeGraph(t *testing.T) {
	o, db := testOrchestrator(t)

	id, err := o.Create(createPayload())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id == 0 {
		t.Fatalf("create returned no id")
	}

	var lesson lessonModels.Lesson
	if err := db.First(&lesson, id).Error; err != nil {
		t.Fatalf("lesson row missing: %v", err)
	}
	if lesson.Slug != "budgeting-basics" {
		t.Fatalf("unexpected slug: %q", lesson.Slug)
	}
	if lesson.Position != 1 {
		t.Fatalf("unexpected position: %d", lesson.Position)
	}
	if lesson.IsPublished {
		t.Fatalf("new lessons must start unpublished")
	}

	var modules []lessonModels.Module
	if err := db.Where("lesson_id = ?", id).Order("order_index asc").Find(&modules).Error; err != nil {
		t.Fatalf("modules missing: %v", err)
	}
	if len(modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(modules))
	}
	if modules[0].Title != "Tracking Spending" || modules[0].OrderIndex != 0 {
		t.Fatalf("module order lost: %#v", modules[0])
	}
	if modules[1].OrderIndex != 1 {
		t.Fatalf("module order lost: %#v", modules[1])
	}

	// only the first module carries resources, only the second an assignment
	var contentCount, assignmentCount int64
	db.Model(&lessonModels.ModuleContent{}).Count(&contentCount)
	db.Model(&lessonModels.ModuleAssignment{}).Count(&assignmentCount)
	if contentCount != 1 || assignmentCount != 1 {
		t.Fatalf("companion rows wrong: %d contents, %d assignments", contentCount, assignmentCount)
	}

	var assignment lessonModels.ModuleAssignment
	if err := db.Where("module_id = ?", modules[1].ID).First(&assignment).Error; err != nil {
		t.Fatalf("assignment row missing: %v", err)
	}
	if !assignment.CompleteOnSubmit {
		t.Fatalf("completeOnSubmit flag lost")
	}
	decoded, err := schema.DecodeSchema(assignment.Fields)
	if err != nil {
		t.Fatalf("stored schema unreadable: %v", err)
	}
	if len(decoded.Fields) != 1 || decoded.Fields[0].Name != "monthly_income" {
		t.Fatalf("stored schema wrong: %#v", decoded.Fields)
	}
}

func TestCreateAppendsToRosterAndDeduplicatesSlug(t *testing.T) {
	o, _ := testOrchestrator(t)

	if _, err := o.Create(createPayload()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	secondID, err := o.Create(createPayload())
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	var second lessonModels.Lesson
	if err := o.Ambient.First(&second, secondID).Error; err != nil {
		t.Fatalf("second lesson missing: %v", err)
	}
	if second.Position != 2 {
		t.Fatalf("position did not append: %d", second.Position)
	}
	if second.Slug != "budgeting-basics-1" {
		t.Fatalf("slug collision unresolved: %q", second.Slug)
	}
}

func TestCreateRollsBackOnModuleFailure(t *testing.T) {
	o, db := testOrchestrator(t)

	// fail the bulk module insert after the lesson row exists
	err := db.Callback().Create().Before("gorm:create").Register("fail_modules", func(tx *gorm.DB) {
		if mods, ok := tx.Statement.Dest.(*[]lessonModels.Module); ok && len(*mods) > 0 {
			tx.AddError(errors.New("disk is on fire"))
		}
	})
	if err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}

	_, createErr := o.Create(createPayload())
	if createErr == nil {
		t.Fatalf("create should have failed")
	}
	if KindOf(createErr) != KindInternal {
		t.Fatalf("unexpected kind: %v", KindOf(createErr))
	}

	var lessonCount, moduleCount int64
	db.Model(&lessonModels.Lesson{}).Count(&lessonCount)
	db.Model(&lessonModels.Module{}).Count(&moduleCount)
	if lessonCount != 0 || moduleCount != 0 {
		t.Fatalf("rollback left rows behind: %d lessons, %d modules", lessonCount, moduleCount)
	}
}

func TestRollbackFailureIsTaggedAsCompensation(t *testing.T) {
	o, db := testOrchestrator(t)

	id, err := o.Create(createPayload())
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	cbErr := db.Callback().Delete().Before("gorm:delete").Register("fail_deletes", func(tx *gorm.DB) {
		tx.AddError(errors.New("database table is locked"))
	})
	if cbErr != nil {
		t.Fatalf("failed to register callback: %v", cbErr)
	}

	rbErr := o.rollbackCreate(id)
	if rbErr == nil {
		t.Fatalf("rollback should have reported the blocked deletes")
	}
	if KindOf(rbErr) != KindCompensation {
		t.Fatalf("unexpected kind: %v", KindOf(rbErr))
	}
}

func TestUpdateContentFailureKeepsLessonAndModules(t *testing.T) {
	o, db := testOrchestrator(t)

	id, err := o.Create(createPayload())
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	loaded, err := o.LoadPayload(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// fail the resource bulk upsert mid-update
	cbErr := db.Callback().Create().Before("gorm:create").Register("fail_contents", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*[]lessonModels.ModuleContent); ok {
			tx.AddError(errors.New("disk is on fire"))
		}
	})
	if cbErr != nil {
		t.Fatalf("failed to register callback: %v", cbErr)
	}

	loaded.Modules[0].Body = "edited body"
	if _, err := o.Update(loaded); err == nil {
		t.Fatalf("update should have failed")
	}

	// the lesson predates the operation; a failed update must never take it down
	var lesson lessonModels.Lesson
	if err := db.First(&lesson, id).Error; err != nil {
		t.Fatalf("lesson row gone after failed update: %v", err)
	}
	if lesson.IsDeleted {
		t.Fatalf("lesson soft-deleted by a failed update")
	}

	var moduleCount int64
	db.Model(&lessonModels.Module{}).
		Where("lesson_id = ? AND is_deleted = ?", id, false).Count(&moduleCount)
	if moduleCount != 2 {
		t.Fatalf("modules lost by a failed update: %d remain", moduleCount)
	}
}

func TestUpdateTouchesOnlyTheEditedModule(t *testing.T) {
	o, db := testOrchestrator(t)

	id, err := o.Create(createPayload())
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	loaded, err := o.LoadPayload(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	loaded.Modules[1].Body = "rewritten plan"
	if _, err := o.Update(loaded); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	var modules []lessonModels.Module
	db.Where("lesson_id = ?", id).Order("order_index asc").Find(&modules)
	if modules[0].Title != "Tracking Spending" || modules[0].Body != "Module one body" {
		t.Fatalf("untouched module changed: %#v", modules[0])
	}
	if modules[1].Body != "rewritten plan" {
		t.Fatalf("edit lost: %#v", modules[1])
	}
	if modules[0].OrderIndex != 0 || modules[1].OrderIndex != 1 {
		t.Fatalf("update disturbed module order")
	}
}

func TestUpdateKeepsSlugUnlessTitleChanges(t *testing.T) {
	o, db := testOrchestrator(t)

	id, err := o.Create(createPayload())
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	loaded, err := o.LoadPayload(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	loaded.Subtitle = "Now with more charts"
	if _, err := o.Update(loaded); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	var lesson lessonModels.Lesson
	db.First(&lesson, id)
	if lesson.Slug != "budgeting-basics" {
		t.Fatalf("slug moved without a title change: %q", lesson.Slug)
	}

	loaded.Title = "Advanced Budgeting"
	if _, err := o.Update(loaded); err != nil {
		t.Fatalf("retitle update failed: %v", err)
	}

	db.First(&lesson, id)
	if lesson.Slug != "advanced-budgeting" {
		t.Fatalf("slug did not follow the new title: %q", lesson.Slug)
	}
}

func TestUpdateRejectsForeignModule(t *testing.T) {
	o, _ := testOrchestrator(t)

	id, err := o.Create(createPayload())
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	loaded, err := o.LoadPayload(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	loaded.Modules[1].ModuleID = 9999
	_, updateErr := o.Update(loaded)
	if updateErr == nil {
		t.Fatalf("update accepted a foreign module id")
	}
	if KindOf(updateErr) != KindReferential {
		t.Fatalf("unexpected kind: %v", KindOf(updateErr))
	}
	if updateErr.Error() != "Module 2 is not part of this lesson!" {
		t.Fatalf("unexpected message: %q", updateErr.Error())
	}
}

func TestUpdateMissingLesson(t *testing.T) {
	o, _ := testOrchestrator(t)

	_, err := o.Update(&wizard.SubmitPayload{LessonID: 42, Title: "Ghost"})
	if err == nil || KindOf(err) != KindNotFound {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestUpdateRetiresClearedAssignment(t *testing.T) {
	o, db := testOrchestrator(t)

	id, err := o.Create(createPayload())
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	loaded, err := o.LoadPayload(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// the author deletes every form field of module two
	loaded.Modules[1].FormFields = nil
	if _, err := o.Update(loaded); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	var assignment lessonModels.ModuleAssignment
	if err := db.Where("module_id = ?", loaded.Modules[1].ModuleID).First(&assignment).Error; err != nil {
		t.Fatalf("assignment row gone entirely: %v", err)
	}
	if !assignment.IsDeleted {
		t.Fatalf("cleared assignment not retired")
	}
}

func TestLoadPayloadDecodesLegacyAssignment(t *testing.T) {
	o, db := testOrchestrator(t)

	lesson := lessonModels.Lesson{Title: "Old Lesson", Slug: "old-lesson", Links: []byte("[]")}
	if err := db.Create(&lesson).Error; err != nil {
		t.Fatalf("seed lesson failed: %v", err)
	}
	module := lessonModels.Module{LessonID: lesson.ID, Title: "Old Module"}
	if err := db.Create(&module).Error; err != nil {
		t.Fatalf("seed module failed: %v", err)
	}
	assignment := lessonModels.ModuleAssignment{
		ModuleID: module.ID,
		Fields:   []byte(`{"homework":[{"label":"Homework 1","instructions":"List your expenses","upload_required":true}]}`),
	}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("seed assignment failed: %v", err)
	}

	p, err := o.LoadPayload(lesson.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(p.Modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(p.Modules))
	}

	fields := p.Modules[0].FormFields
	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %#v", fields)
	}
	if fields[0].Type != schema.FieldLongText || fields[0].Label != "List your expenses" || !fields[0].Required {
		t.Fatalf("legacy homework not converted: %#v", fields[0])
	}
}

func TestLoadPayloadUsesContentVideoOverride(t *testing.T) {
	o, db := testOrchestrator(t)

	id, err := o.Create(createPayload())
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	var module lessonModels.Module
	db.Where("lesson_id = ? AND order_index = ?", id, 0).First(&module)

	db.Model(&lessonModels.ModuleContent{}).
		Where("module_id = ?", module.ID).
		Update("video_url", "https://vimeo.com/999")

	p, err := o.LoadPayload(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if p.Modules[0].VideoURL != "https://vimeo.com/999" {
		t.Fatalf("content video override ignored: %q", p.Modules[0].VideoURL)
	}
	if len(p.Modules[0].Resources) != 1 || p.Modules[0].Resources[0].Title != "Template" {
		t.Fatalf("resources lost on load: %#v", p.Modules[0].Resources)
	}
}

func TestSubmitRoutesByLessonID(t *testing.T) {
	o, _ := testOrchestrator(t)

	id, err := o.Submit(createPayload())
	if err != nil {
		t.Fatalf("create via submit failed: %v", err)
	}

	loaded, err := o.LoadPayload(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	loaded.Subtitle = "edited"

	updatedID, err := o.Submit(loaded)
	if err != nil {
		t.Fatalf("update via submit failed: %v", err)
	}
	if updatedID != id {
		t.Fatalf("submit created a new lesson instead of updating: %d vs %d", updatedID, id)
	}
}

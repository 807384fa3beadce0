package wizard

import (
	"testing"
	"time"

	"lms/schema"
)

func testStore() *Store {
	return NewStore(time.Hour)
}

func editPayload() *SubmitPayload {
	return &SubmitPayload{
		LessonID: 7,
		Title:    "Budgeting",
		Modules: []ModulePayload{
			{ModuleID: 21, Title: "Intro"},
			{ModuleID: 22, Title: "Practice"},
		},
	}
}

func TestDraft_NextRequiresLessonTitle(t *testing.T) {
	d := testStore().NewDraft()

	if d.Next() {
		t.Fatalf("advanced past lesson step without a title")
	}
	if d.Step != StepLesson || d.StepError != "Lesson title is required!" {
		t.Fatalf("unexpected state: step=%d err=%q", d.Step, d.StepError)
	}

	if err := d.Dispatch(UpdateLessonField{Field: "title", Value: "Budgeting"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if !d.Next() {
		t.Fatalf("title set, should advance")
	}
	if d.Step != StepModules || d.StepError != "" {
		t.Fatalf("unexpected state: step=%d err=%q", d.Step, d.StepError)
	}
}

func TestDraft_NextMaterializesFirstModule(t *testing.T) {
	d := testStore().NewDraft()
	d.Title = "Budgeting"
	d.Step = StepModules

	if !d.Next() {
		t.Fatalf("module step should advance and create a module")
	}
	if len(d.Modules) != 1 {
		t.Fatalf("expected a default module, got %d", len(d.Modules))
	}
	if d.Step != StepModules+1 {
		t.Fatalf("unexpected step %d", d.Step)
	}
}

func TestDraft_NextBlocksUntitledModule(t *testing.T) {
	d := testStore().NewDraft()
	d.Title = "Budgeting"
	d.Modules = []ModuleDraft{{Title: "Intro"}, {}}
	d.Step = StepModules + 2 // editor for the second module

	if d.Next() {
		t.Fatalf("advanced past an untitled module")
	}
	if d.StepError != "Module 2 needs a title before continuing!" {
		t.Fatalf("unexpected error: %q", d.StepError)
	}
}

func TestDraft_NextStopsAtLastStep(t *testing.T) {
	d := testStore().NewDraft()
	d.Title = "Budgeting"
	d.Modules = []ModuleDraft{{Title: "Intro"}}
	d.Step = d.LastStep()

	if d.Next() {
		t.Fatalf("advanced past the last step")
	}
	if d.Step != d.LastStep() || d.StepError != "" {
		t.Fatalf("unexpected state: step=%d err=%q", d.Step, d.StepError)
	}
}

func TestDraft_BackNeverLeavesStepOne(t *testing.T) {
	d := testStore().NewDraft()
	d.Step = StepModules
	d.StepError = "stale"

	d.Back()
	if d.Step != StepLesson || d.StepError != "" {
		t.Fatalf("unexpected state: step=%d err=%q", d.Step, d.StepError)
	}

	d.Back()
	if d.Step != StepLesson {
		t.Fatalf("stepped below the first step: %d", d.Step)
	}
}

func TestDraft_EditModeLocksModuleRoster(t *testing.T) {
	d := testStore().NewEditDraft(editPayload())

	if err := d.Dispatch(AddModule{}); err == nil {
		t.Fatalf("edit draft accepted AddModule")
	}
	if err := d.Dispatch(RemoveModule{Index: 0}); err == nil {
		t.Fatalf("edit draft accepted RemoveModule")
	}
	if len(d.Modules) != 2 {
		t.Fatalf("roster changed: %d modules", len(d.Modules))
	}

	// content edits within an existing module stay allowed
	if err := d.Dispatch(UpdateModuleField{Module: 0, Field: "body", Value: "new body"}); err != nil {
		t.Fatalf("content edit rejected: %v", err)
	}
}

func TestDraft_DispatchRejectsBadIndexes(t *testing.T) {
	d := testStore().NewDraft()
	d.Modules = []ModuleDraft{{Title: "Intro"}}

	cases := []Action{
		RemoveLink{Index: 0},
		UpdateLink{Index: 3},
		UpdateModuleField{Module: 5, Field: "title", Value: "x"},
		RemoveResource{Module: 0, Index: 0},
		RemoveFormField{Module: 0, Index: 2},
		UpdateFormField{Module: 1, Index: 0},
	}
	for _, a := range cases {
		if err := d.Dispatch(a); err == nil {
			t.Fatalf("expected index error for %T", a)
		}
	}
}

func TestDraft_UpdateFormFieldAppliesPatch(t *testing.T) {
	d := testStore().NewDraft()
	d.Modules = []ModuleDraft{{
		Title:      "Intro",
		FormFields: []schema.FieldSpec{{Name: "notes", Label: "Notes", Type: schema.FieldLongText}},
	}}

	err := d.Dispatch(UpdateFormField{Module: 0, Index: 0, Apply: func(f *schema.FieldSpec) {
		f.Required = true
		f.Label = "Session notes"
	}})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	f := d.Modules[0].FormFields[0]
	if !f.Required || f.Label != "Session notes" {
		t.Fatalf("patch not applied: %#v", f)
	}
}

func TestDraft_DirtyTracking(t *testing.T) {
	d := testStore().NewEditDraft(editPayload())

	if d.IsDirty() {
		t.Fatalf("freshly hydrated edit draft reported dirty")
	}

	if err := d.Dispatch(UpdateLessonField{Field: "subtitle", Value: "A practical guide"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if !d.IsDirty() {
		t.Fatalf("edited draft reported clean")
	}

	if err := d.Dispatch(UpdateLessonField{Field: "subtitle", Value: ""}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if d.IsDirty() {
		t.Fatalf("reverted draft reported dirty")
	}
}

func TestDraft_CreateModeAlwaysDirty(t *testing.T) {
	d := testStore().NewDraft()
	if !d.IsDirty() {
		t.Fatalf("create drafts are always submittable")
	}
}

func TestDraft_BuildPayloadSnapshots(t *testing.T) {
	d := testStore().NewEditDraft(editPayload())

	p := d.BuildPayload()
	if p.LessonID != 7 || len(p.Modules) != 2 || p.Modules[1].ModuleID != 22 {
		t.Fatalf("unexpected payload: %#v", p)
	}

	// mutating the snapshot must not reach back into the draft
	p.Modules[0].Title = "changed"
	if d.Modules[0].Title != "Intro" {
		t.Fatalf("snapshot aliased draft state")
	}
}

func TestStore_GetDeleteSweep(t *testing.T) {
	s := testStore()
	d := s.NewDraft()

	if got, ok := s.Get(d.ID); !ok || got != d {
		t.Fatalf("lookup failed")
	}

	s.Delete(d.ID)
	if _, ok := s.Get(d.ID); ok {
		t.Fatalf("draft survived delete")
	}

	stale := s.NewDraft()
	stale.UpdatedAt = time.Now().Add(-2 * time.Hour)
	fresh := s.NewDraft()

	if removed := s.Sweep(); removed != 1 {
		t.Fatalf("sweep removed %d drafts", removed)
	}
	if _, ok := s.Get(stale.ID); ok {
		t.Fatalf("stale draft survived the sweep")
	}
	if _, ok := s.Get(fresh.ID); !ok {
		t.Fatalf("fresh draft swept")
	}
}

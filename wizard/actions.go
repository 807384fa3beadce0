package wizard

import "lms/schema"

// Action is the closed set of draft mutations. The sealed interface plus
// the exhaustive switch in apply() stands in for a tagged union; adding a
// variant without handling it fails the default branch in tests.
type Action interface{ isAction() }

type UpdateLessonField struct {
	Field string // "title", "subtitle", "body", "videoUrl"
	Value string
}

type AddLink struct{ Link LinkPayload }

type RemoveLink struct{ Index int }

type UpdateLink struct {
	Index int
	Link  LinkPayload
}

type AddModule struct{}

type RemoveModule struct{ Index int }

type UpdateModuleField struct {
	Module int
	Field  string // "title", "subtitle", "body", "videoUrl"
	Value  string
}

type AddResource struct {
	Module   int
	Resource LinkPayload
}

type RemoveResource struct {
	Module int
	Index  int
}

type UpdateResource struct {
	Module   int
	Index    int
	Resource LinkPayload
}

type AddFormField struct {
	Module int
	Field  schema.FieldSpec
}

type RemoveFormField struct {
	Module int
	Index  int
}

// UpdateFormField mutates one form field in place through an updater
// function. Over the wire the controller wraps a full replacement spec in
// the updater; in-process callers can patch single attributes.
type UpdateFormField struct {
	Module int
	Index  int
	Apply  func(*schema.FieldSpec)
}

type SetCompleteOnSubmit struct {
	Module int
	Value  bool
}

func (UpdateLessonField) isAction()   {}
func (AddLink) isAction()             {}
func (RemoveLink) isAction()          {}
func (UpdateLink) isAction()          {}
func (AddModule) isAction()           {}
func (RemoveModule) isAction()        {}
func (UpdateModuleField) isAction()   {}
func (AddResource) isAction()         {}
func (RemoveResource) isAction()      {}
func (UpdateResource) isAction()      {}
func (AddFormField) isAction()        {}
func (RemoveFormField) isAction()     {}
func (UpdateFormField) isAction()     {}
func (SetCompleteOnSubmit) isAction() {}

package wizard

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"lms/schema"
)

// Wizard steps. Steps beyond StepModules map to one editor per module:
// step 3 edits module 0, step 4 module 1, and so on.
const (
	StepLesson  = 1
	StepModules = 2
)

// ModuleDraft is one module being authored.
type ModuleDraft struct {
	ModuleID         uint               `json:"moduleId,omitempty"`
	Title            string             `json:"title"`
	Subtitle         string             `json:"subtitle"`
	Body             string             `json:"body"`
	VideoURL         string             `json:"videoUrl"`
	Resources        []LinkPayload      `json:"resources"`
	FormFields       []schema.FieldSpec `json:"formFields"`
	CompleteOnSubmit bool               `json:"completeOnSubmit"`
}

// Draft is the in-memory state of one authoring session. All access goes
// through its methods; the mutex makes concurrent requests against the
// same draft safe, though the editor is effectively single-user.
type Draft struct {
	ID       string `json:"id"`
	EditMode bool   `json:"editMode"`
	LessonID uint   `json:"lessonId,omitempty"`

	Step      int    `json:"step"`
	StepError string `json:"stepError,omitempty"`

	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Body     string        `json:"body"`
	VideoURL string        `json:"videoUrl"`
	Links    []LinkPayload `json:"links"`
	Modules  []ModuleDraft `json:"modules"`

	UpdatedAt time.Time `json:"updatedAt"`

	// signature of the normalized payload at hydration; edit mode only
	baselineSig string

	mu sync.Mutex
}

// hydrate fills the draft from a persisted payload and captures the dirty
// baseline. Called once, when an edit session opens.
func (d *Draft) hydrate(p *SubmitPayload) {
	d.LessonID = p.LessonID
	d.Title = p.Title
	d.Subtitle = p.Subtitle
	d.Body = p.Body
	d.VideoURL = p.VideoURL
	d.Links = append([]LinkPayload(nil), p.Links...)
	for _, m := range p.Modules {
		d.Modules = append(d.Modules, ModuleDraft{
			ModuleID:         m.ModuleID,
			Title:            m.Title,
			Subtitle:         m.Subtitle,
			Body:             m.Body,
			VideoURL:         m.VideoURL,
			Resources:        append([]LinkPayload(nil), m.Resources...),
			FormFields:       append([]schema.FieldSpec(nil), m.FormFields...),
			CompleteOnSubmit: m.CompleteOnSubmit,
		})
	}
	d.baselineSig = d.signatureLocked()
}

// Dispatch applies one action to the draft.
func (d *Draft) Dispatch(a Action) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.UpdatedAt = time.Now()
	return d.apply(a)
}

func (d *Draft) apply(a Action) error {
	switch act := a.(type) {
	case UpdateLessonField:
		return setTextField(&d.Title, &d.Subtitle, &d.Body, &d.VideoURL, act.Field, act.Value)

	case AddLink:
		d.Links = append(d.Links, act.Link)
		return nil

	case RemoveLink:
		if act.Index < 0 || act.Index >= len(d.Links) {
			return fmt.Errorf("no link at position %d", act.Index)
		}
		d.Links = append(d.Links[:act.Index], d.Links[act.Index+1:]...)
		return nil

	case UpdateLink:
		if act.Index < 0 || act.Index >= len(d.Links) {
			return fmt.Errorf("no link at position %d", act.Index)
		}
		d.Links[act.Index] = act.Link
		return nil

	case AddModule:
		if d.EditMode {
			return fmt.Errorf("modules cannot be added while editing an existing lesson")
		}
		d.Modules = append(d.Modules, ModuleDraft{})
		return nil

	case RemoveModule:
		if d.EditMode {
			return fmt.Errorf("modules cannot be removed while editing an existing lesson")
		}
		if act.Index < 0 || act.Index >= len(d.Modules) {
			return fmt.Errorf("no module at position %d", act.Index)
		}
		d.Modules = append(d.Modules[:act.Index], d.Modules[act.Index+1:]...)
		return nil

	case UpdateModuleField:
		m, err := d.module(act.Module)
		if err != nil {
			return err
		}
		return setTextField(&m.Title, &m.Subtitle, &m.Body, &m.VideoURL, act.Field, act.Value)

	case AddResource:
		m, err := d.module(act.Module)
		if err != nil {
			return err
		}
		m.Resources = append(m.Resources, act.Resource)
		return nil

	case RemoveResource:
		m, err := d.module(act.Module)
		if err != nil {
			return err
		}
		if act.Index < 0 || act.Index >= len(m.Resources) {
			return fmt.Errorf("no resource at position %d", act.Index)
		}
		m.Resources = append(m.Resources[:act.Index], m.Resources[act.Index+1:]...)
		return nil

	case UpdateResource:
		m, err := d.module(act.Module)
		if err != nil {
			return err
		}
		if act.Index < 0 || act.Index >= len(m.Resources) {
			return fmt.Errorf("no resource at position %d", act.Index)
		}
		m.Resources[act.Index] = act.Resource
		return nil

	case AddFormField:
		m, err := d.module(act.Module)
		if err != nil {
			return err
		}
		m.FormFields = append(m.FormFields, act.Field)
		return nil

	case RemoveFormField:
		m, err := d.module(act.Module)
		if err != nil {
			return err
		}
		if act.Index < 0 || act.Index >= len(m.FormFields) {
			return fmt.Errorf("no form field at position %d", act.Index)
		}
		m.FormFields = append(m.FormFields[:act.Index], m.FormFields[act.Index+1:]...)
		return nil

	case UpdateFormField:
		m, err := d.module(act.Module)
		if err != nil {
			return err
		}
		if act.Index < 0 || act.Index >= len(m.FormFields) {
			return fmt.Errorf("no form field at position %d", act.Index)
		}
		if act.Apply != nil {
			act.Apply(&m.FormFields[act.Index])
		}
		return nil

	case SetCompleteOnSubmit:
		m, err := d.module(act.Module)
		if err != nil {
			return err
		}
		m.CompleteOnSubmit = act.Value
		return nil
	}

	return fmt.Errorf("unhandled draft action %T", a)
}

func (d *Draft) module(index int) (*ModuleDraft, error) {
	if index < 0 || index >= len(d.Modules) {
		return nil, fmt.Errorf("no module at position %d", index)
	}
	return &d.Modules[index], nil
}

func setTextField(title, subtitle, body, videoURL *string, field, value string) error {
	switch field {
	case "title":
		*title = value
	case "subtitle":
		*subtitle = value
	case "body":
		*body = value
	case "videoUrl":
		*videoURL = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// LastStep is the final wizard step for the current module count.
func (d *Draft) LastStep() int {
	return StepModules + len(d.Modules)
}

// Next validates the current step and advances when it passes. On failure
// the step stays put and StepError carries the user-facing message.
func (d *Draft) Next() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.UpdatedAt = time.Now()

	switch {
	case d.Step <= StepLesson:
		if strings.TrimSpace(d.Title) == "" {
			d.StepError = "Lesson title is required!"
			return false
		}
	case d.Step == StepModules:
		if len(d.Modules) == 0 {
			if d.EditMode {
				d.StepError = "This lesson has no modules to edit."
				return false
			}
			// give the author something to type into
			d.Modules = append(d.Modules, ModuleDraft{})
		}
	default:
		idx := d.Step - StepModules - 1
		if idx >= 0 && idx < len(d.Modules) && strings.TrimSpace(d.Modules[idx].Title) == "" {
			d.StepError = fmt.Sprintf("Module %d needs a title before continuing!", idx+1)
			return false
		}
	}

	if d.Step >= d.LastStep() {
		d.StepError = ""
		return false // already on the final step
	}

	d.StepError = ""
	d.Step++
	return true
}

// Back moves one step toward the start, never below step 1.
func (d *Draft) Back() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.UpdatedAt = time.Now()
	d.StepError = ""
	if d.Step > StepLesson {
		d.Step--
	}
}

// BuildPayload snapshots the draft as a raw submission payload.
func (d *Draft) BuildPayload() *SubmitPayload {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buildPayloadLocked()
}

func (d *Draft) buildPayloadLocked() *SubmitPayload {
	p := &SubmitPayload{
		LessonID: d.LessonID,
		Title:    d.Title,
		Subtitle: d.Subtitle,
		Body:     d.Body,
		VideoURL: d.VideoURL,
		Links:    append([]LinkPayload(nil), d.Links...),
	}
	for _, m := range d.Modules {
		p.Modules = append(p.Modules, ModulePayload{
			ModuleID:         m.ModuleID,
			Title:            m.Title,
			Subtitle:         m.Subtitle,
			Body:             m.Body,
			VideoURL:         m.VideoURL,
			Resources:        append([]LinkPayload(nil), m.Resources...),
			FormFields:       append([]schema.FieldSpec(nil), m.FormFields...),
			CompleteOnSubmit: m.CompleteOnSubmit,
		})
	}
	return p
}

// IsDirty reports whether the draft diverged from its hydration baseline.
// Always true for create drafts.
func (d *Draft) IsDirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.EditMode {
		return true
	}
	return d.signatureLocked() != d.baselineSig
}

// signatureLocked serializes the normalized payload. Drafts that do not
// normalize yet (missing titles) fall back to the raw shape so the
// signature still moves when the author types.
func (d *Draft) signatureLocked() string {
	raw := d.buildPayloadLocked()
	p, err := Normalize(raw, false)
	if err != nil {
		p = raw
	}
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}

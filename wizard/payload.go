package wizard

import "lms/schema"

// LinkPayload is a labeled external link or module resource.
type LinkPayload struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Provider string `json:"provider"`
}

// ModulePayload is one module inside the canonical submission.
type ModulePayload struct {
	ModuleID         uint               `json:"moduleId,omitempty"`
	Title            string             `json:"title"`
	Subtitle         string             `json:"subtitle"`
	Body             string             `json:"body"`
	VideoURL         string             `json:"videoUrl"`
	Resources        []LinkPayload      `json:"resources"`
	FormFields       []schema.FieldSpec `json:"formFields"`
	CompleteOnSubmit bool               `json:"completeOnSubmit,omitempty"`
}

// SubmitPayload is the canonical shape the persistence pipeline accepts.
// LessonID is zero on create and the target row id on update.
type SubmitPayload struct {
	LessonID uint            `json:"lessonId,omitempty"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Body     string          `json:"body"`
	VideoURL string          `json:"videoUrl"`
	Links    []LinkPayload   `json:"links"`
	Modules  []ModulePayload `json:"modules"`
}

package wizard

import (
	"strings"
	"testing"

	"lms/schema"
)

func TestNormalize_TrimsAndClamps(t *testing.T) {
	p := &SubmitPayload{
		Title:    "  " + strings.Repeat("T", 200) + "  ",
		Subtitle: "  keep me  ",
		Modules: []ModulePayload{
			{Title: "  Intro  "},
		},
	}

	out, err := Normalize(p, true)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(out.Title) != 120 {
		t.Fatalf("title not clamped: %d chars", len(out.Title))
	}
	if out.Subtitle != "keep me" {
		t.Fatalf("subtitle not trimmed: %q", out.Subtitle)
	}
	if out.Modules[0].Title != "Intro" {
		t.Fatalf("module title not trimmed: %q", out.Modules[0].Title)
	}
}

func TestNormalize_RequiresLessonTitle(t *testing.T) {
	p := &SubmitPayload{Title: "   ", Modules: []ModulePayload{{Title: "A"}}}

	if _, err := Normalize(p, true); err == nil || err.Error() != "Lesson title is required!" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalize_CreateRequiresAModule(t *testing.T) {
	p := &SubmitPayload{Title: "Budgeting"}

	if _, err := Normalize(p, true); err == nil || err.Error() != "At least one module is required!" {
		t.Fatalf("unexpected error: %v", err)
	}

	// updates may legitimately carry no modules
	if _, err := Normalize(p, false); err != nil {
		t.Fatalf("update without modules should pass: %v", err)
	}
}

func TestNormalize_ModuleTitleErrorNamesTheOrdinal(t *testing.T) {
	p := &SubmitPayload{
		Title: "Budgeting",
		Modules: []ModulePayload{
			{Title: "Intro"},
			{Title: "   "},
		},
	}

	if _, err := Normalize(p, true); err == nil || err.Error() != "Module 2 needs a title before it can be submitted!" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalize_LinksDroppedFilledAndCapped(t *testing.T) {
	p := &SubmitPayload{
		Title:   "Budgeting",
		Modules: []ModulePayload{{Title: "Intro"}},
		Links: []LinkPayload{
			{Title: "  ", URL: "   "},
			{Title: "Video", URL: "https://youtu.be/abc"},
			{Title: "Doc", URL: "https://drive.google.com/file/d/1", Provider: "  custom  "},
			{Title: "Three", URL: "https://example.org/3"},
			{Title: "Four", URL: "https://example.org/4"},
		},
	}

	out, err := Normalize(p, true)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(out.Links) != MaxLessonLinks {
		t.Fatalf("links not capped: %#v", out.Links)
	}
	if out.Links[0].Provider != "youtube" {
		t.Fatalf("provider not inferred: %#v", out.Links[0])
	}
	if out.Links[1].Provider != "custom" {
		t.Fatalf("explicit provider not kept trimmed: %#v", out.Links[1])
	}
	if out.Links[2].Title != "Three" {
		t.Fatalf("cap dropped the wrong entry: %#v", out.Links[2])
	}
}

func TestNormalize_SanitizesFormFields(t *testing.T) {
	p := &SubmitPayload{
		Title: "Budgeting",
		Modules: []ModulePayload{{
			Title: "Intro",
			FormFields: []schema.FieldSpec{
				{Label: "Notes", Type: "text", Variant: "long"},
			},
		}},
	}

	out, err := Normalize(p, true)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	f := out.Modules[0].FormFields[0]
	if f.Type != schema.FieldLongText || f.Name != "notes" || f.Variant != "" {
		t.Fatalf("form fields not sanitized: %#v", f)
	}
}

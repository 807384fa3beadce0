package wizard

import (
	"fmt"
	"strings"

	"lms/schema"
	"lms/utils"
)

// MaxLessonLinks caps the labeled external links on a lesson.
const MaxLessonLinks = 3

// Normalize turns a raw submission into the canonical payload: trims and
// clamps every text field to its class ceiling, drops empty links and
// resources, sanitizes assignment fields and validates the required parts.
// It never panics; the caller gets the payload or a descriptive error.
func Normalize(p *SubmitPayload, create bool) (*SubmitPayload, error) {
	out := &SubmitPayload{
		LessonID: p.LessonID,
		Title:    utils.CleanText(p.Title, utils.MaxLessonTitle),
		Subtitle: utils.CleanText(p.Subtitle, utils.MaxLessonSubtitle),
		Body:     utils.CleanText(p.Body, utils.MaxBody),
		VideoURL: utils.CleanText(p.VideoURL, utils.MaxURL),
	}

	out.Links = cleanLinks(p.Links, MaxLessonLinks)

	for _, m := range p.Modules {
		out.Modules = append(out.Modules, ModulePayload{
			ModuleID:         m.ModuleID,
			Title:            utils.CleanText(m.Title, utils.MaxModuleTitle),
			Subtitle:         utils.CleanText(m.Subtitle, utils.MaxModuleSubtitle),
			Body:             utils.CleanText(m.Body, utils.MaxBody),
			VideoURL:         utils.CleanText(m.VideoURL, utils.MaxURL),
			Resources:        cleanLinks(m.Resources, 0),
			FormFields:       schema.Sanitize(m.FormFields),
			CompleteOnSubmit: m.CompleteOnSubmit,
		})
	}

	if out.Title == "" {
		return nil, fmt.Errorf("Lesson title is required!")
	}
	if create && len(out.Modules) == 0 {
		return nil, fmt.Errorf("At least one module is required!")
	}
	for i, m := range out.Modules {
		if m.Title == "" {
			return nil, fmt.Errorf("Module %d needs a title before it can be submitted!", i+1)
		}
	}

	return out, nil
}

// cleanLinks trims link text, drops entries whose title and URL are both
// empty, fills in the provider tag and optionally caps the list length.
func cleanLinks(links []LinkPayload, max int) []LinkPayload {
	var out []LinkPayload
	for _, l := range links {
		l.Title = utils.CleanText(l.Title, utils.MaxLinkTitle)
		l.URL = utils.CleanText(l.URL, utils.MaxURL)
		if l.Title == "" && l.URL == "" {
			continue
		}
		if strings.TrimSpace(l.Provider) == "" {
			l.Provider = utils.InferProvider(l.URL)
		} else {
			l.Provider = strings.TrimSpace(l.Provider)
		}
		out = append(out, l)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

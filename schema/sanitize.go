package schema

import (
	"fmt"
	"strings"

	"lms/utils"
)

// Sanitize normalizes a decoded field list into the canonical form the rest
// of the pipeline relies on: every field has a unique slug-safe name, a type
// from the closed set, and type-appropriate attributes. Order is preserved;
// the disambiguation suffixes depend on it.
func Sanitize(fields []FieldSpec) []FieldSpec {
	if len(fields) == 0 {
		return nil
	}

	used := make(map[string]bool, len(fields))
	out := make([]FieldSpec, 0, len(fields))

	for i, f := range fields {
		f.Type = normalizeType(f.Type, f.Variant)
		f.Variant = ""

		f.Label = utils.CleanText(f.Label, utils.MaxFieldLabel)
		f.Placeholder = trimmed(f.Placeholder)
		f.Description = trimmed(f.Description)
		f.FieldKey = trimmed(f.FieldKey)
		f.RoadmapSection = trimmed(f.RoadmapSection)
		f.AIContext = trimmed(f.AIContext)

		f.Name = uniqueName(deriveName(f, i), used)

		switch f.Type {
		case FieldSelect, FieldMultiSelect:
			f.Options = cleanOptions(f.Options)
		case FieldSlider:
			f.Min, f.Max, f.Step = clampSlider(f.Min, f.Max, f.Step)
			f.Options = nil
		case FieldBudgetTable:
			f.Rows = dropBlankRows(f.Rows)
			f.Options = nil
		case FieldCustomProgram:
			f.ProgramTemplate = trimmed(f.ProgramTemplate)
			f.Options = nil
		case FieldSubtitle:
			// headings are display-only, whatever the author clicked
			f.Required = false
			f.Options = nil
			f.Placeholder = ""
		default:
			f.Options = nil
		}

		if f.Type != FieldSlider {
			f.Min, f.Max, f.Step = nil, nil, nil
		}
		if f.Type != FieldBudgetTable {
			f.Rows = nil
		}
		if f.Type != FieldCustomProgram {
			f.ProgramTemplate = ""
		}

		out = append(out, f)
	}

	return out
}

// normalizeType folds the declared type, including legacy (type, variant)
// pairs, into the closed set. Anything unrecognized becomes long_text: a
// free text box is the only rendering that cannot lose author input.
func normalizeType(t FieldType, variant string) FieldType {
	variant = strings.ToLower(trimmed(variant))

	switch FieldType(strings.ToLower(trimmed(string(t)))) {
	case FieldShortText:
		return FieldShortText
	case FieldLongText, "textarea", "paragraph":
		return FieldLongText
	case "text":
		if variant == "long" || variant == "multiline" {
			return FieldLongText
		}
		return FieldShortText
	case FieldSelect, "dropdown":
		return FieldSelect
	case "choice":
		if variant == "multi" || variant == "multiple" {
			return FieldMultiSelect
		}
		return FieldSelect
	case FieldMultiSelect, "multiselect", "checkboxes":
		return FieldMultiSelect
	case FieldSlider, "range", "scale":
		return FieldSlider
	case FieldSubtitle, "heading", "header", "section":
		return FieldSubtitle
	case FieldCustomProgram, "program":
		return FieldCustomProgram
	case FieldBudgetTable, "budget":
		return FieldBudgetTable
	}
	return FieldLongText
}

// deriveName picks a stable identifier: explicit name, else the label,
// else the field's position.
func deriveName(f FieldSpec, index int) string {
	if n := slugName(f.Name); n != "" {
		return n
	}
	if n := slugName(f.Label); n != "" {
		return n
	}
	return fmt.Sprintf("field_%d", index+1)
}

func uniqueName(name string, used map[string]bool) string {
	candidate := name
	for n := 1; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
	used[candidate] = true
	return candidate
}

// slugName lowercases and collapses everything that is not alphanumeric
// into single underscores.
func slugName(s string) string {
	s = strings.ToLower(trimmed(s))

	var b strings.Builder
	lastUnderscore := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	name := strings.Trim(b.String(), "_")
	if len(name) > 60 {
		name = strings.Trim(name[:60], "_")
	}
	return name
}

func cleanOptions(options []string) []string {
	var out []string
	for _, o := range options {
		if o = trimmed(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// clampSlider guarantees max >= min and a positive step. Bounds default to
// the standard 0..100 range when absent.
func clampSlider(min, max, step *float64) (*float64, *float64, *float64) {
	lo := float64(0)
	if min != nil {
		lo = *min
	}
	hi := float64(100)
	if max != nil {
		hi = *max
	}
	if hi < lo {
		hi = lo
	}
	st := float64(1)
	if step != nil && *step > 0 {
		st = *step
	}
	return &lo, &hi, &st
}

func dropBlankRows(rows []BudgetRow) []BudgetRow {
	var out []BudgetRow
	for _, r := range rows {
		if r.IsBlank() {
			continue
		}
		r.Category = trimmed(r.Category)
		r.Amount = trimmed(r.Amount)
		r.Notes = trimmed(r.Notes)
		out = append(out, r)
	}
	return out
}

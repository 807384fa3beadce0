package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeSchema parses a persisted assignment schema. It tolerates both the
// current {"fields": [...]} shape and the older free-form homework array,
// and always returns sanitized fields. A nil/empty document decodes to an
// empty schema, not an error.
func DecodeSchema(raw []byte) (Schema, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Schema{}, nil
	}

	var envelope struct {
		Fields           []json.RawMessage `json:"fields"`
		Homework         []json.RawMessage `json:"homework"`
		CompleteOnSubmit bool              `json:"completeOnSubmit"`
	}

	if err := json.Unmarshal(raw, &envelope); err != nil {
		// Some very old rows stored the fields array bare.
		var bare []json.RawMessage
		if err2 := json.Unmarshal(raw, &bare); err2 != nil {
			return Schema{}, fmt.Errorf("unreadable assignment schema: %w", err)
		}
		envelope.Fields = bare
	}

	entries := envelope.Fields
	legacyOnly := len(entries) == 0 && len(envelope.Homework) > 0
	if legacyOnly {
		entries = envelope.Homework
	}

	var fields []FieldSpec
	for _, rawEntry := range entries {
		var m map[string]any
		if err := json.Unmarshal(rawEntry, &m); err != nil {
			continue // skip unreadable entries rather than losing the schema
		}
		if legacyOnly || looksLegacy(m) {
			fields = append(fields, legacyField(m))
			continue
		}
		fields = append(fields, fieldFromMap(m))
	}

	return Schema{
		Fields:           Sanitize(fields),
		CompleteOnSubmit: envelope.CompleteOnSubmit,
	}, nil
}

// looksLegacy sniffs a single entry for the old homework shape: free-form
// instructions with no declared type.
func looksLegacy(m map[string]any) bool {
	if _, hasType := m["type"]; hasType {
		return false
	}
	_, hasInstructions := m["instructions"]
	_, hasUpload := m["upload_required"]
	return hasInstructions || hasUpload
}

// fieldFromMap extracts a current-format entry. Missing or mistyped keys
// degrade to zero values; Sanitize repairs the rest.
func fieldFromMap(m map[string]any) FieldSpec {
	f := FieldSpec{
		Name:            asString(m["name"]),
		Label:           asString(m["label"]),
		Type:            FieldType(strings.ToLower(trimmed(asString(m["type"])))),
		Variant:         asString(m["variant"]),
		Required:        asBool(m["required"]),
		Placeholder:     asString(m["placeholder"]),
		Description:     asString(m["description"]),
		ProgramTemplate: asString(m["programTemplate"]),
		FieldKey:        asString(m["fieldKey"]),
		RoadmapSection:  asString(m["roadmapSection"]),
		AIContext:       asString(m["aiContext"]),
	}

	if opts, ok := m["options"].([]any); ok {
		for _, o := range opts {
			f.Options = append(f.Options, asString(o))
		}
	}

	f.Min = asFloat(m["min"])
	f.Max = asFloat(m["max"])
	f.Step = asFloat(m["step"])

	if rows, ok := m["rows"].([]any); ok {
		for _, r := range rows {
			switch row := r.(type) {
			case string:
				// bare string means a category-only row
				f.Rows = append(f.Rows, BudgetRow{Category: row})
			case map[string]any:
				f.Rows = append(f.Rows, BudgetRow{
					Category: asString(row["category"]),
					Amount:   asString(row["amount"]),
					Notes:    asString(row["notes"]),
				})
			}
		}
	}

	return f
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%g", &f); err == nil {
			return &f
		}
	}
	return nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

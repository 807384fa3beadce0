package schema

import "regexp"

// Labels like "Homework", "homework 2" carry no information; when the
// legacy entry has real instructions those become the visible label.
var genericHomeworkLabel = regexp.MustCompile(`(?i)^homework\s*\d*$`)

// legacyField converts one entry of the old free-form homework array into
// a long_text field. Required-ness comes from the old upload_required flag.
func legacyField(m map[string]any) FieldSpec {
	label := trimmed(asString(m["label"]))
	instructions := trimmed(asString(m["instructions"]))

	f := FieldSpec{
		Type:     FieldLongText,
		Required: asBool(m["upload_required"]),
	}

	if (label == "" || genericHomeworkLabel.MatchString(label)) && instructions != "" {
		// promote instructions to the label, and do not repeat them below it
		f.Label = instructions
	} else {
		f.Label = label
		f.Description = instructions
	}

	return f
}

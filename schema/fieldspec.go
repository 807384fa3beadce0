package schema

import "encoding/json"

// FieldType is the closed set of assignment field kinds the editor and
// renderer understand.
type FieldType string

const (
	FieldShortText     FieldType = "short_text"
	FieldLongText      FieldType = "long_text"
	FieldSelect        FieldType = "select"
	FieldMultiSelect   FieldType = "multi_select"
	FieldSlider        FieldType = "slider"
	FieldSubtitle      FieldType = "subtitle" // display-only heading, never required
	FieldCustomProgram FieldType = "custom_program"
	FieldBudgetTable   FieldType = "budget_table"
)

var knownTypes = map[FieldType]bool{
	FieldShortText:     true,
	FieldLongText:      true,
	FieldSelect:        true,
	FieldMultiSelect:   true,
	FieldSlider:        true,
	FieldSubtitle:      true,
	FieldCustomProgram: true,
	FieldBudgetTable:   true,
}

// Valid reports whether t is one of the closed field kinds.
func (t FieldType) Valid() bool {
	return knownTypes[t]
}

// BudgetRow is one template row of a budget_table field. Cells are kept as
// authored text; amounts like "$500/mo" are legal.
type BudgetRow struct {
	Category string `json:"category"`
	Amount   string `json:"amount,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// UnmarshalJSON accepts both the structured row object and the bare string
// some older schemas stored, which counts as a category-only row.
func (r *BudgetRow) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = BudgetRow{Category: s}
		return nil
	}
	type plain BudgetRow
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = BudgetRow(p)
	return nil
}

// IsBlank reports whether every cell of the row is empty after trimming.
func (r BudgetRow) IsBlank() bool {
	return trimmed(r.Category) == "" && trimmed(r.Amount) == "" && trimmed(r.Notes) == ""
}

// FieldSpec is one typed field definition within an assignment schema.
// Variant only appears on input: legacy schemas encode some kinds as a
// (type, variant) pair, and Sanitize folds it into Type.
type FieldSpec struct {
	Name            string      `json:"name"`
	Label           string      `json:"label"`
	Type            FieldType   `json:"type"`
	Variant         string      `json:"variant,omitempty"`
	Required        bool        `json:"required"`
	Placeholder     string      `json:"placeholder,omitempty"`
	Description     string      `json:"description,omitempty"`
	Options         []string    `json:"options,omitempty"`
	Min             *float64    `json:"min,omitempty"`
	Max             *float64    `json:"max,omitempty"`
	Step            *float64    `json:"step,omitempty"`
	ProgramTemplate string      `json:"programTemplate,omitempty"`
	Rows            []BudgetRow `json:"rows,omitempty"`

	// Linkage metadata carried through verbatim when present.
	FieldKey       string `json:"fieldKey,omitempty"`
	RoadmapSection string `json:"roadmapSection,omitempty"`
	AIContext      string `json:"aiContext,omitempty"`
}

// Schema is the decoded assignment definition of one module.
type Schema struct {
	Fields           []FieldSpec `json:"fields"`
	CompleteOnSubmit bool        `json:"completeOnSubmit"`
}

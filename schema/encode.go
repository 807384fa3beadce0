package schema

import "encoding/json"

// EncodeSchema serializes a schema for storage. The subtitle rule is
// re-applied unconditionally and empty optional attributes are omitted,
// regardless of what the caller supplied, so decode(encode(s)) is stable.
func EncodeSchema(s Schema) ([]byte, error) {
	fields := make([]FieldSpec, 0, len(s.Fields))
	for _, f := range s.Fields {
		f.Variant = ""
		if f.Type == FieldSubtitle {
			f.Required = false
		}
		if len(f.Options) == 0 {
			f.Options = nil
		}
		if f.Type != FieldSlider {
			f.Min, f.Max, f.Step = nil, nil, nil
		}
		if f.Type != FieldBudgetTable {
			f.Rows = nil
		}
		fields = append(fields, f)
	}

	return json.Marshal(Schema{
		Fields:           fields,
		CompleteOnSubmit: s.CompleteOnSubmit,
	})
}

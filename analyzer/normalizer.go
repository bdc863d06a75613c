package analyzer

import "github.com/hangxie/parquet-analyzer/model"

// NormalizeSchema converts native fields into the generic schema forest
func NormalizeSchema(fields []NativeField) []model.SchemaField {
	out := make([]model.SchemaField, 0, len(fields))
	for _, f := range fields {
		out = append(out, normalizeField(f))
	}
	return out
}

func normalizeField(f NativeField) model.SchemaField {
	field := model.SchemaField{
		Name:        f.Name,
		TypeStr:     typeString(f.Type),
		LogicalType: f.LogicalType,
		Nullable:    f.Nullable,
		Repetition:  model.RepetitionRequired,
		Children:    []model.SchemaField{},
	}
	if f.Nullable {
		field.Repetition = model.RepetitionOptional
	}

	switch t := f.Type.(type) {
	case *List:
		switch elem := t.Element.Type.(type) {
		case *Struct:
			// the wrapping list is elided, struct members surface directly
			field.Children = NormalizeSchema(elem.Fields)
		case *List:
			field.Children = []model.SchemaField{normalizeField(NativeField{
				Name:        "element",
				Type:        elem,
				Nullable:    t.Element.Nullable,
				LogicalType: t.Element.LogicalType,
			})}
		default:
			field.PhysicalType = physicalLabel(elem)
		}
	case *Struct:
		field.Children = NormalizeSchema(t.Fields)
	default:
		field.PhysicalType = physicalLabel(f.Type)
	}

	// a member-less group is reported as an opaque leaf
	if len(field.Children) == 0 && field.PhysicalType == nil {
		field.PhysicalType = physicalLabel(nil)
	}
	return field
}

func physicalLabel(t NativeType) *string {
	label := ResolvePhysicalType(t)
	return &label
}

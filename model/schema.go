package model

const (
	// RepetitionRequired labels a field that can not hold nulls
	RepetitionRequired = "required"
	// RepetitionOptional labels a nullable field
	RepetitionOptional = "optional"
)

// SchemaField is one node of the normalized schema forest. A field is a leaf
// when PhysicalType is set, in which case Children is empty.
type SchemaField struct {
	Name         string        `json:"name"`
	TypeStr      string        `json:"type_str"`
	LogicalType  *string       `json:"logical_type"`
	Nullable     bool          `json:"nullable"`
	Repetition   string        `json:"repetition"`
	PhysicalType *string       `json:"physical_type"`
	Children     []SchemaField `json:"children"`
}

// IsLeaf reports whether the field maps to a physical column
func (f SchemaField) IsLeaf() bool {
	return f.PhysicalType != nil && len(f.Children) == 0
}

// LeafCount returns the number of leaves under (and including) this field
func (f SchemaField) LeafCount() int {
	if len(f.Children) == 0 {
		if f.PhysicalType != nil {
			return 1
		}
		return 0
	}
	count := 0
	for _, child := range f.Children {
		count += child.LeafCount()
	}
	return count
}

// Depth returns the nesting depth of the field, 1 for a leaf
func (f SchemaField) Depth() int {
	depth := 0
	for _, child := range f.Children {
		if d := child.Depth(); d > depth {
			depth = d
		}
	}
	return depth + 1
}

// CountLeaves sums LeafCount over a schema forest
func CountLeaves(fields []SchemaField) int {
	count := 0
	for _, field := range fields {
		count += field.LeafCount()
	}
	return count
}

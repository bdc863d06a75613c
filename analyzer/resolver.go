package analyzer

// Physical type labels
const (
	PhysicalBoolean           = "BOOLEAN"
	PhysicalInt32             = "INT32"
	PhysicalInt64             = "INT64"
	PhysicalFloat             = "FLOAT"
	PhysicalDouble            = "DOUBLE"
	PhysicalByteArray         = "BYTE_ARRAY"
	PhysicalFixedLenByteArray = "FIXED_LEN_BYTE_ARRAY"
	PhysicalUnknown           = "UNKNOWN"
)

// canonicalPhysicalTypes is keyed by the native type string
var canonicalPhysicalTypes = map[string]string{
	"bool":   PhysicalBoolean,
	"int32":  PhysicalInt32,
	"int64":  PhysicalInt64,
	"float":  PhysicalFloat,
	"double": PhysicalDouble,
	"string": PhysicalByteArray,
	"binary": PhysicalByteArray,
}

// ResolvePhysicalType maps a native type to a physical type label. Exact
// canonical types win, then the type category decides, anything else is
// UNKNOWN.
func ResolvePhysicalType(t NativeType) string {
	p, ok := t.(*Primitive)
	if !ok || p == nil {
		return PhysicalUnknown
	}
	if label, found := canonicalPhysicalTypes[p.String()]; found {
		return label
	}

	switch p.Kind {
	case KindTimestamp:
		return PhysicalInt64
	case KindDate:
		return PhysicalInt32
	case KindTime, KindInt:
		if p.BitWidth <= 32 {
			return PhysicalInt32
		}
		return PhysicalInt64
	case KindFloat:
		if p.BitWidth <= 32 {
			return PhysicalFloat
		}
		return PhysicalDouble
	case KindString, KindBinary:
		return PhysicalByteArray
	case KindBool:
		return PhysicalBoolean
	case KindDecimal:
		return PhysicalFixedLenByteArray
	}
	return PhysicalUnknown
}

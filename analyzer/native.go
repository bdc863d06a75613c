package analyzer

import (
	"fmt"
	"strings"
)

// PrimitiveKind is the category of a native primitive type
type PrimitiveKind int

// Primitive kinds
const (
	KindNull PrimitiveKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBinary
	KindFixedSizeBinary
	KindDate
	KindTime
	KindTimestamp
	KindDecimal
	KindInterval
)

// NativeType is one node of the native type tree: *Primitive, *Struct or *List
type NativeType interface {
	String() string
	isNativeType()
}

// NativeField is a named, possibly nullable, native type
type NativeField struct {
	Name        string
	Type        NativeType
	Nullable    bool
	LogicalType *string
}

func (f NativeField) String() string {
	return f.Name + ": " + typeString(f.Type)
}

// Primitive is a leaf type descriptor
type Primitive struct {
	Kind PrimitiveKind
	// BitWidth applies to KindInt, KindFloat and KindTime
	BitWidth int
	// Signed applies to KindInt
	Signed bool
	// Unit is "ms", "us" or "ns" for KindTime and KindTimestamp
	Unit string
	// UTC marks a KindTimestamp normalized to UTC
	UTC bool
	// Precision and Scale apply to KindDecimal
	Precision int32
	Scale     int32
	// ByteWidth applies to KindFixedSizeBinary
	ByteWidth int32
}

func (*Primitive) isNativeType() {}

func (p *Primitive) String() string {
	switch p.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		if p.Signed {
			return fmt.Sprintf("int%d", p.BitWidth)
		}
		return fmt.Sprintf("uint%d", p.BitWidth)
	case KindFloat:
		switch p.BitWidth {
		case 16:
			return "halffloat"
		case 32:
			return "float"
		default:
			return "double"
		}
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindFixedSizeBinary:
		return fmt.Sprintf("fixed_size_binary[%d]", p.ByteWidth)
	case KindDate:
		return "date32[day]"
	case KindTime:
		return fmt.Sprintf("time%d[%s]", p.BitWidth, p.Unit)
	case KindTimestamp:
		if p.UTC {
			return fmt.Sprintf("timestamp[%s, tz=UTC]", p.Unit)
		}
		return fmt.Sprintf("timestamp[%s]", p.Unit)
	case KindDecimal:
		return fmt.Sprintf("decimal128(%d, %d)", p.Precision, p.Scale)
	case KindInterval:
		return "month_day_millis_interval"
	}
	return "unknown"
}

// Struct is an ordered group of named members
type Struct struct {
	Fields []NativeField
}

func (*Struct) isNativeType() {}

func (s *Struct) String() string {
	members := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		members[i] = f.String()
	}
	return "struct<" + strings.Join(members, ", ") + ">"
}

// List is a repeated element. Map marks a list of key/value structs that came
// from a MAP annotation.
type List struct {
	Element NativeField
	Map     bool
}

func (*List) isNativeType() {}

func (l *List) String() string {
	if l.Map {
		if kv, ok := l.Element.Type.(*Struct); ok && len(kv.Fields) == 2 {
			return fmt.Sprintf("map<%s, %s>", typeString(kv.Fields[0].Type), typeString(kv.Fields[1].Type))
		}
	}
	return "list<" + l.Element.String() + ">"
}

func typeString(t NativeType) string {
	if t == nil {
		return "null"
	}
	return t.String()
}

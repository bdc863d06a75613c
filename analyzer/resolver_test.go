package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ResolvePhysicalType(t *testing.T) {
	tests := []struct {
		name     string
		typ      NativeType
		expected string
	}{
		{"bool", &Primitive{Kind: KindBool}, PhysicalBoolean},
		{"int32", &Primitive{Kind: KindInt, BitWidth: 32, Signed: true}, PhysicalInt32},
		{"int64", &Primitive{Kind: KindInt, BitWidth: 64, Signed: true}, PhysicalInt64},
		{"float32", &Primitive{Kind: KindFloat, BitWidth: 32}, PhysicalFloat},
		{"float64", &Primitive{Kind: KindFloat, BitWidth: 64}, PhysicalDouble},
		{"string", &Primitive{Kind: KindString}, PhysicalByteArray},
		{"binary", &Primitive{Kind: KindBinary}, PhysicalByteArray},
		{"timestamp", &Primitive{Kind: KindTimestamp, Unit: "ms", UTC: true}, PhysicalInt64},
		{"timestamp-ns", &Primitive{Kind: KindTimestamp, Unit: "ns"}, PhysicalInt64},
		{"date", &Primitive{Kind: KindDate}, PhysicalInt32},
		{"time32", &Primitive{Kind: KindTime, BitWidth: 32, Unit: "ms"}, PhysicalInt32},
		{"time64", &Primitive{Kind: KindTime, BitWidth: 64, Unit: "us"}, PhysicalInt64},
		{"int8", &Primitive{Kind: KindInt, BitWidth: 8, Signed: true}, PhysicalInt32},
		{"uint16", &Primitive{Kind: KindInt, BitWidth: 16}, PhysicalInt32},
		{"uint64", &Primitive{Kind: KindInt, BitWidth: 64}, PhysicalInt64},
		{"float16", &Primitive{Kind: KindFloat, BitWidth: 16}, PhysicalFloat},
		{"decimal", &Primitive{Kind: KindDecimal, Precision: 10, Scale: 2}, PhysicalFixedLenByteArray},
		{"fixed-size-binary", &Primitive{Kind: KindFixedSizeBinary, ByteWidth: 16}, PhysicalUnknown},
		{"interval", &Primitive{Kind: KindInterval}, PhysicalUnknown},
		{"null", &Primitive{Kind: KindNull}, PhysicalUnknown},
		{"struct", &Struct{}, PhysicalUnknown},
		{"list", &List{Element: NativeField{Name: "element", Type: &Primitive{Kind: KindBool}}}, PhysicalUnknown},
		{"nil", nil, PhysicalUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, ResolvePhysicalType(tt.typ))
		})
	}
}

func Test_PrimitiveString(t *testing.T) {
	tests := []struct {
		typ      *Primitive
		expected string
	}{
		{&Primitive{Kind: KindInt, BitWidth: 64, Signed: true}, "int64"},
		{&Primitive{Kind: KindInt, BitWidth: 8}, "uint8"},
		{&Primitive{Kind: KindFloat, BitWidth: 16}, "halffloat"},
		{&Primitive{Kind: KindFloat, BitWidth: 32}, "float"},
		{&Primitive{Kind: KindFloat, BitWidth: 64}, "double"},
		{&Primitive{Kind: KindTimestamp, Unit: "ms", UTC: true}, "timestamp[ms, tz=UTC]"},
		{&Primitive{Kind: KindTimestamp, Unit: "ns"}, "timestamp[ns]"},
		{&Primitive{Kind: KindTime, BitWidth: 32, Unit: "ms"}, "time32[ms]"},
		{&Primitive{Kind: KindDate}, "date32[day]"},
		{&Primitive{Kind: KindDecimal, Precision: 9, Scale: 3}, "decimal128(9, 3)"},
		{&Primitive{Kind: KindFixedSizeBinary, ByteWidth: 16}, "fixed_size_binary[16]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.typ.String())
		})
	}
}

func Test_NestedTypeString(t *testing.T) {
	nested := &List{Element: NativeField{
		Name: "element",
		Type: &Struct{Fields: []NativeField{
			{Name: "a", Type: &Primitive{Kind: KindInt, BitWidth: 64, Signed: true}},
			{Name: "b", Type: &Primitive{Kind: KindString}},
		}},
	}}
	require.Equal(t, "list<element: struct<a: int64, b: string>>", nested.String())

	m := &List{Map: true, Element: NativeField{
		Name: "key_value",
		Type: &Struct{Fields: []NativeField{
			{Name: "key", Type: &Primitive{Kind: KindString}},
			{Name: "value", Type: &Primitive{Kind: KindInt, BitWidth: 32, Signed: true}},
		}},
	}}
	require.Equal(t, "map<string, int32>", m.String())
}

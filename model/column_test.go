package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Ratio(t *testing.T) {
	tests := []struct {
		name         string
		compressed   int64
		uncompressed int64
		expected     float64
	}{
		{"half", 50, 100, 0.5},
		{"expanded", 120, 100, 1.2},
		{"zero uncompressed", 57, 0, 0},
		{"all zero", 0, 0, 0},
		{"negative uncompressed", 10, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Ratio(tt.compressed, tt.uncompressed))
		})
	}
}

func Test_ColumnSummaryMarshalJSON(t *testing.T) {
	nullCount := int64(3)
	col := ColumnSummary{
		Name:             "name",
		PhysicalType:     "BYTE_ARRAY",
		UncompressedSize: 100,
		CompressedSize:   40,
		CompressionRatio: 0.4,
		Values:           10,
		NullCount:        &nullCount,
		MinValue:         "Alice",
		MaxValue:         []byte{0xff},
		Encodings:        []string{"PLAIN"},
		Pages:            []Page{{PageType: PageTypeDataPage, UncompressedSize: 100, CompressedSize: 40, NumValues: 10, Encoding: "PLAIN", CompressionRatio: 0.4}},
		NumPages:         1,
		Diagnostics:      []Diagnostic{{Severity: SeverityInfo, Kind: DiagUTF8Decode, RowGroup: 1, Message: "x"}},
	}

	data, err := json.Marshal(col)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "Alice", decoded["min_value"])
	require.Equal(t, "0xFF", decoded["max_value"])
	require.Equal(t, 3.0, decoded["null_count"])
	require.Nil(t, decoded["distinct_count"])
	require.Equal(t, 1.0, decoded["num_pages"])
	require.Equal(t, "BYTE_ARRAY", decoded["physical_type"])

	pages := decoded["pages"].([]any)
	require.Equal(t, "DATA_PAGE", pages[0].(map[string]any)["page_type"])
	diags := decoded["diagnostics"].([]any)
	require.Equal(t, "utf8_decode", diags[0].(map[string]any)["kind"])

	t.Run("absent-min-max", func(t *testing.T) {
		data, err := json.Marshal(ColumnSummary{Name: "x"})
		require.NoError(t, err)
		require.Contains(t, string(data), `"min_value":null`)
		require.Contains(t, string(data), `"max_value":null`)
	})

	t.Run("numeric-min-max", func(t *testing.T) {
		data, err := json.Marshal(ColumnSummary{Name: "x", MinValue: int64(1), MaxValue: 2.5})
		require.NoError(t, err)
		require.Contains(t, string(data), `"min_value":"1"`)
		require.Contains(t, string(data), `"max_value":"2.5"`)
	})
}

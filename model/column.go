package model

import "encoding/json"

// PageTypeDataPage is the tag of every estimated page
const PageTypeDataPage = "DATA_PAGE"

// Page describes one page of a column chunk, either estimated from the chunk
// totals or read from a page header
type Page struct {
	PageType         string  `json:"page_type"`
	UncompressedSize int64   `json:"uncompressed_size"`
	CompressedSize   int64   `json:"compressed_size"`
	NumValues        int64   `json:"num_values"`
	Encoding         string  `json:"encoding"`
	CompressionRatio float64 `json:"compression_ratio"`
}

// Severity of a diagnostic
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// DiagnosticKind identifies a condition that was absorbed during aggregation
type DiagnosticKind string

const (
	// DiagIncomparableStatistics is recorded when min/max of two chunks can not be compared
	DiagIncomparableStatistics DiagnosticKind = "incomparable_statistics"
	// DiagUTF8Decode is recorded when a BYTE_ARRAY min/max is not valid UTF-8
	DiagUTF8Decode DiagnosticKind = "utf8_decode"
	// DiagTimestampFormat is recorded when an INT64 min/max can not be rendered as a timestamp
	DiagTimestampFormat DiagnosticKind = "timestamp_format"
	// DiagStatDecode is recorded when raw statistics bytes are too short for the physical type
	DiagStatDecode DiagnosticKind = "stat_decode"
	// DiagPageHeadersUnavailable is recorded when page headers could not be read and pages were estimated
	DiagPageHeadersUnavailable DiagnosticKind = "page_headers_unavailable"
)

// Diagnostic is a low-severity note attached to a column, it never fails an analysis
type Diagnostic struct {
	Severity string         `json:"severity"`
	Kind     DiagnosticKind `json:"kind"`
	RowGroup int            `json:"row_group"`
	Message  string         `json:"message"`
}

// ColumnSummary is the merged view of one column path across all row groups
type ColumnSummary struct {
	Name             string       `json:"name"`
	PhysicalType     string       `json:"physical_type"`
	LogicalType      string       `json:"logical_type"`
	Compression      string       `json:"compression"`
	UncompressedSize int64        `json:"uncompressed_size"`
	CompressedSize   int64        `json:"compressed_size"`
	CompressionRatio float64      `json:"compression_ratio"`
	Values           int64        `json:"values"`
	NullCount        *int64       `json:"null_count"`
	DistinctCount    *int64       `json:"distinct_count"`
	MinValue         any          `json:"min_value"`
	MaxValue         any          `json:"max_value"`
	Encodings        []string     `json:"encodings"`
	NumPages         int          `json:"num_pages"`
	Pages            []Page       `json:"pages"`
	PathInSchema     string       `json:"path_in_schema"`
	RepetitionType   string       `json:"repetition_type"`
	ConvertedType    string       `json:"converted_type"`
	Diagnostics      []Diagnostic `json:"diagnostics"`
}

// MarshalJSON renders min/max as text so that raw byte values and formatted
// timestamps serialize the same way as numbers
func (c ColumnSummary) MarshalJSON() ([]byte, error) {
	type plain ColumnSummary
	return json.Marshal(struct {
		plain
		MinValue *string `json:"min_value"`
		MaxValue *string `json:"max_value"`
	}{
		plain:    plain(c),
		MinValue: FormatStatText(c.MinValue),
		MaxValue: FormatStatText(c.MaxValue),
	})
}

// Ratio returns compressed/uncompressed, or 0 when nothing was stored
func Ratio(compressed, uncompressed int64) float64 {
	if uncompressed <= 0 {
		return 0
	}
	return float64(compressed) / float64(uncompressed)
}

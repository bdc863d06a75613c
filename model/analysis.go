package model

import "encoding/json"

// AnalysisResult is the complete report of one Parquet file. Totals are sums
// over Columns, never values read separately from the file footer.
type AnalysisResult struct {
	FilePath           string          `json:"file_path"`
	FileSizeBytes      int64           `json:"file_size_bytes"`
	SchemaFields       []SchemaField   `json:"schema_fields"`
	Columns            []ColumnSummary `json:"columns"`
	TotalUncompressed  int64           `json:"total_uncompressed"`
	TotalCompressed    int64           `json:"total_compressed"`
	TotalRows          int64           `json:"total_rows"`
	NumRowGroups       int             `json:"num_row_groups"`
	NumLogicalColumns  int             `json:"num_logical_columns"`
	NumPhysicalColumns int             `json:"num_physical_columns"`
	CreatedBy          *string         `json:"created_by"`
	Version            *string         `json:"version"`
}

// FileSummary is the file-level part of an analysis, without schema and columns
type FileSummary struct {
	FilePath           string  `json:"file_path"`
	FileSizeBytes      int64   `json:"file_size_bytes"`
	TotalUncompressed  int64   `json:"total_uncompressed"`
	TotalCompressed    int64   `json:"total_compressed"`
	CompressionRatio   float64 `json:"compression_ratio"`
	TotalRows          int64   `json:"total_rows"`
	NumRowGroups       int     `json:"num_row_groups"`
	NumLogicalColumns  int     `json:"num_logical_columns"`
	NumPhysicalColumns int     `json:"num_physical_columns"`
	CreatedBy          *string `json:"created_by"`
	Version            *string `json:"version"`
}

// CompressionRatio returns total compressed over total uncompressed
func (a AnalysisResult) CompressionRatio() float64 {
	return Ratio(a.TotalCompressed, a.TotalUncompressed)
}

// Summary extracts the file-level fields
func (a AnalysisResult) Summary() FileSummary {
	return FileSummary{
		FilePath:           a.FilePath,
		FileSizeBytes:      a.FileSizeBytes,
		TotalUncompressed:  a.TotalUncompressed,
		TotalCompressed:    a.TotalCompressed,
		CompressionRatio:   a.CompressionRatio(),
		TotalRows:          a.TotalRows,
		NumRowGroups:       a.NumRowGroups,
		NumLogicalColumns:  a.NumLogicalColumns,
		NumPhysicalColumns: a.NumPhysicalColumns,
		CreatedBy:          a.CreatedBy,
		Version:            a.Version,
	}
}

// Column looks up a column summary by its dot-joined path
func (a AnalysisResult) Column(path string) (ColumnSummary, bool) {
	for _, col := range a.Columns {
		if col.Name == path {
			return col, true
		}
	}
	return ColumnSummary{}, false
}

// ToJSON serializes the report, indented with two spaces when pretty is set
func (a AnalysisResult) ToJSON(pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(a, "", "  ")
	}
	return json.Marshal(a)
}

package analyzer

import (
	"strconv"

	"github.com/hangxie/parquet-go/v2/parquet"

	"github.com/hangxie/parquet-analyzer/model"
)

// Assemble builds the final report. Totals are always summed from the column
// summaries, the size fields recorded on row groups are ignored.
func Assemble(filePath string, fileSize int64, meta *parquet.FileMetaData, schema []model.SchemaField, columns []model.ColumnSummary) model.AnalysisResult {
	result := model.AnalysisResult{
		FilePath:           filePath,
		FileSizeBytes:      fileSize,
		SchemaFields:       schema,
		Columns:            columns,
		TotalRows:          meta.NumRows,
		NumRowGroups:       len(meta.RowGroups),
		NumLogicalColumns:  len(schema),
		NumPhysicalColumns: len(columns),
	}
	if result.SchemaFields == nil {
		result.SchemaFields = []model.SchemaField{}
	}
	if result.Columns == nil {
		result.Columns = []model.ColumnSummary{}
	}
	for _, col := range columns {
		result.TotalUncompressed += col.UncompressedSize
		result.TotalCompressed += col.CompressedSize
	}
	if meta.CreatedBy != nil && *meta.CreatedBy != "" {
		createdBy := *meta.CreatedBy
		result.CreatedBy = &createdBy
	}
	if meta.Version != 0 {
		version := strconv.Itoa(int(meta.Version))
		result.Version = &version
	}
	return result
}

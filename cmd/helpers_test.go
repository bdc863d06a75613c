package cmd

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"

	"github.com/hangxie/parquet-analyzer/client"
	"github.com/hangxie/parquet-analyzer/model"
	"github.com/hangxie/parquet-analyzer/service"
)

type event struct {
	ID      int64   `parquet:"id"`
	Kind    string  `parquet:"kind"`
	Payload []byte  `parquet:"payload,optional"`
	Score   float64 `parquet:"score"`
}

// writeTestFile writes a two row group file into a temp dir
func writeTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	writer := pq.NewGenericWriter[event](f)
	_, err = writer.Write([]event{{1, "click", []byte("a"), 0.5}, {2, "view", nil, 1.5}})
	require.NoError(t, err)
	require.NoError(t, writer.Flush())
	_, err = writer.Write([]event{{3, "buy", []byte("b"), 9}})
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return path
}

func ptr[T any](v T) *T {
	return &v
}

func sampleReport() model.AnalysisResult {
	return model.AnalysisResult{
		FilePath:      "/data/sample.parquet",
		FileSizeBytes: 4096,
		SchemaFields: []model.SchemaField{
			{Name: "id", TypeStr: "int64", Repetition: model.RepetitionRequired, PhysicalType: ptr("INT64"), Children: []model.SchemaField{}},
			{
				Name: "tags", TypeStr: "list<item: string>", Nullable: true, Repetition: model.RepetitionOptional, LogicalType: ptr("LIST"),
				Children: []model.SchemaField{
					{Name: "item", TypeStr: "string", Nullable: true, Repetition: model.RepetitionOptional, PhysicalType: ptr("BYTE_ARRAY"), Children: []model.SchemaField{}},
				},
			},
		},
		Columns: []model.ColumnSummary{
			{
				Name: "id", PhysicalType: "INT64", LogicalType: "-", Compression: "SNAPPY",
				UncompressedSize: 800, CompressedSize: 400, CompressionRatio: 0.5, Values: 100,
				MinValue: int64(1), MaxValue: int64(100), Encodings: []string{"PLAIN", "RLE"},
				NumPages: 1, RepetitionType: "REQUIRED", ConvertedType: "NONE",
				Pages: []model.Page{{PageType: model.PageTypeDataPage, UncompressedSize: 800, CompressedSize: 400, NumValues: 100, Encoding: "PLAIN", CompressionRatio: 0.5}},
			},
			{
				Name: "tags.list.item", PhysicalType: "BYTE_ARRAY", LogicalType: "STRING", Compression: "ZSTD",
				UncompressedSize: 200, CompressedSize: 100, CompressionRatio: 0.5, Values: 150, NullCount: ptr(int64(7)),
				MinValue: "alpha", MaxValue: "omega", Encodings: []string{"RLE_DICTIONARY"},
				NumPages: 2, RepetitionType: "OPTIONAL", ConvertedType: "UTF8",
				Pages: []model.Page{
					{PageType: model.PageTypeDataPage, UncompressedSize: 100, CompressedSize: 50, NumValues: 75},
					{PageType: model.PageTypeDataPage, UncompressedSize: 100, CompressedSize: 50, NumValues: 75},
				},
				Diagnostics: []model.Diagnostic{
					{Severity: model.SeverityWarning, Kind: model.DiagIncomparableStatistics, RowGroup: 1, Message: "min/max skipped"},
				},
			},
		},
		TotalUncompressed:  1000,
		TotalCompressed:    500,
		TotalRows:          100,
		NumRowGroups:       2,
		NumLogicalColumns:  2,
		NumPhysicalColumns: 2,
		CreatedBy:          ptr("parquet-analyzer test"),
		Version:            ptr("2"),
	}
}

// newTestApp returns an app wired to an in-process report server
func newTestApp(t *testing.T) *TUIApp {
	t.Helper()
	server := httptest.NewServer(service.CreateRouter(service.NewReportService(sampleReport(), nil), true))
	t.Cleanup(server.Close)

	app := NewTUIApp()
	app.httpClient = client.NewAnalysisClient(server.URL)
	app.currentFile = "/data/sample.parquet"
	return app
}

// stubClipboard captures clipboard writes for the duration of a test
func stubClipboard(t *testing.T, err error) *string {
	t.Helper()
	var copied string
	original := writeClipboard
	writeClipboard = func(text string) error {
		copied = text
		return err
	}
	t.Cleanup(func() { writeClipboard = original })
	return &copied
}

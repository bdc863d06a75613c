package client

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hangxie/parquet-analyzer/model"
	"github.com/hangxie/parquet-analyzer/service"
)

func sampleReport() model.AnalysisResult {
	createdBy := "parquet-analyzer test"
	nullCount := int64(2)
	physical := "INT64"
	return model.AnalysisResult{
		FilePath:      "sample.parquet",
		FileSizeBytes: 4096,
		SchemaFields: []model.SchemaField{
			{Name: "id", TypeStr: "int64", PhysicalType: &physical, Repetition: model.RepetitionRequired, Children: []model.SchemaField{}},
			{Name: "ts", TypeStr: "timestamp[ms]", Repetition: model.RepetitionOptional, Children: []model.SchemaField{}},
		},
		Columns: []model.ColumnSummary{
			{
				Name: "id", PhysicalType: "INT64", Compression: "SNAPPY",
				UncompressedSize: 800, CompressedSize: 400, CompressionRatio: 0.5, Values: 100,
				MinValue: int64(1), MaxValue: int64(100), Encodings: []string{"PLAIN"},
				NumPages: 1, Pages: []model.Page{{PageType: model.PageTypeDataPage, UncompressedSize: 800, CompressedSize: 400, NumValues: 100}},
			},
			{
				Name: "ts", PhysicalType: "INT64", Compression: "SNAPPY",
				UncompressedSize: 200, CompressedSize: 100, CompressionRatio: 0.5, Values: 100, NullCount: &nullCount,
				MinValue: "2024-01-01 00:00:00", MaxValue: "2024-12-31 23:59:59",
				NumPages: 2, Pages: []model.Page{
					{PageType: model.PageTypeDataPage, UncompressedSize: 100, CompressedSize: 50, NumValues: 50},
					{PageType: model.PageTypeDataPage, UncompressedSize: 100, CompressedSize: 50, NumValues: 50},
				},
			},
		},
		TotalUncompressed:  1000,
		TotalCompressed:    500,
		TotalRows:          100,
		NumRowGroups:       1,
		NumLogicalColumns:  2,
		NumPhysicalColumns: 2,
		CreatedBy:          &createdBy,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(service.CreateRouter(service.NewReportService(sampleReport(), nil), true))
	t.Cleanup(server.Close)
	return server
}

func Test_NewAnalysisClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewAnalysisClient(baseURL)

	require.NotNil(t, client, "NewAnalysisClient() should return non-nil client")
	require.Equal(t, baseURL, client.baseURL, "baseURL should match")
	require.NotNil(t, client.client, "HTTP client should not be nil")
}

func Test_GetAnalysis(t *testing.T) {
	client := NewAnalysisClient(newTestServer(t).URL)
	result, err := client.GetAnalysis()
	require.NoError(t, err)

	require.Equal(t, "sample.parquet", result.FilePath)
	require.Equal(t, int64(100), result.TotalRows)
	require.Len(t, result.Columns, 2)
	require.Equal(t, "1", result.Columns[0].MinValue)
	require.Equal(t, "2024-12-31 23:59:59", result.Columns[1].MaxValue)
	require.Equal(t, int64(2), *result.Columns[1].NullCount)
}

func Test_GetFileSummary(t *testing.T) {
	client := NewAnalysisClient(newTestServer(t).URL)
	summary, err := client.GetFileSummary()
	require.NoError(t, err)

	require.Equal(t, int64(4096), summary.FileSizeBytes)
	require.Equal(t, 0.5, summary.CompressionRatio)
	require.Equal(t, "parquet-analyzer test", *summary.CreatedBy)
	require.Nil(t, summary.Version)
}

func Test_GetSchema(t *testing.T) {
	client := NewAnalysisClient(newTestServer(t).URL)
	fields, err := client.GetSchema()
	require.NoError(t, err)

	require.Len(t, fields, 2)
	require.Equal(t, "INT64", *fields[0].PhysicalType)
	require.Nil(t, fields[1].PhysicalType)
}

func Test_GetAllColumns(t *testing.T) {
	client := NewAnalysisClient(newTestServer(t).URL)
	columns, err := client.GetAllColumns()
	require.NoError(t, err)

	require.Len(t, columns, 2)
	require.Equal(t, "id", columns[0].Name)
	require.Equal(t, []string{"PLAIN"}, columns[0].Encodings)
}

func Test_GetColumn(t *testing.T) {
	client := NewAnalysisClient(newTestServer(t).URL)

	t.Run("valid", func(t *testing.T) {
		column, err := client.GetColumn(1)
		require.NoError(t, err)
		require.Equal(t, "ts", column.Name)
		require.Equal(t, 2, column.NumPages)
	})

	t.Run("out-of-range", func(t *testing.T) {
		_, err := client.GetColumn(2)
		require.Error(t, err)
		require.Contains(t, err.Error(), "HTTP 404")
	})
}

func Test_GetColumnPages(t *testing.T) {
	client := NewAnalysisClient(newTestServer(t).URL)
	pages, err := client.GetColumnPages(1)
	require.NoError(t, err)

	require.Len(t, pages, 2)
	require.Equal(t, int64(50), pages[1].NumValues)
}

func Test_SchemaExports(t *testing.T) {
	tests := []struct {
		name string
		path string
		call func(*AnalysisClient) (string, error)
	}{
		{"go", "/schema/go", (*AnalysisClient).GetSchemaGo},
		{"json", "/schema/json", (*AnalysisClient).GetSchemaJSON},
		{"raw", "/schema/raw", (*AnalysisClient).GetSchemaRaw},
		{"csv", "/schema/csv", (*AnalysisClient).GetSchemaCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, tt.path, r.URL.Path)
				require.Equal(t, "GET", r.Method)
				_, _ = w.Write([]byte("schema:" + tt.name))
			}))
			defer server.Close()

			text, err := tt.call(NewAnalysisClient(server.URL))
			require.NoError(t, err)
			require.Equal(t, "schema:"+tt.name, text)
		})
	}

	t.Run("report-only", func(t *testing.T) {
		_, err := NewAnalysisClient(newTestServer(t).URL).GetSchemaGo()
		require.Error(t, err)
		require.Contains(t, err.Error(), "HTTP 404")
	})
}

func Test_Get_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewAnalysisClient(server.URL).GetFileSummary()
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP 404")
	require.Contains(t, err.Error(), "Not Found")
}

func Test_Get_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	_, err := NewAnalysisClient(server.URL).GetAllColumns()
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decode response")
}

func Test_GetText_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewAnalysisClient(server.URL).GetSchemaCSV()
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP 500")
}

func Test_Client_InvalidURL(t *testing.T) {
	client := NewAnalysisClient("http://invalid-host-that-does-not-exist.invalid:99999")

	_, err := client.GetAnalysis()
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP request failed")

	_, err = client.GetSchemaRaw()
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP request failed")
}

func Test_Multiple_Requests(t *testing.T) {
	client := NewAnalysisClient(newTestServer(t).URL)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			column, err := client.GetColumn(index % 2)
			if err != nil {
				t.Errorf("GetColumn(%d): %v", index%2, err)
				return
			}
			if column.Values != 100 {
				t.Errorf("GetColumn(%d): values %d", index%2, column.Values)
			}
		}(i)
	}
	wg.Wait()
}

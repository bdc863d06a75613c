package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/hangxie/parquet-go/v2/reader"
	pio "github.com/hangxie/parquet-tools/io"
	pschema "github.com/hangxie/parquet-tools/schema"
	"go.uber.org/zap"

	"github.com/hangxie/parquet-analyzer/analyzer"
	"github.com/hangxie/parquet-analyzer/model"
)

// errNoRawSchema is returned by schema exports when the service only holds a finished report
var errNoRawSchema = errors.New("schema export needs the parquet file, this service only serves a report")

// AnalysisService serves a finished analysis report over HTTP
type AnalysisService struct {
	result        model.AnalysisResult
	parquetReader *reader.ParquetReader // Raw reader for schema exports, nil for report-only services
	logger        *zap.Logger
}

// NewAnalysisService opens and analyzes uri, the file stays open for schema exports until Close
func NewAnalysisService(ctx context.Context, uri string, readOpts pio.ReadOption, opts analyzer.Options) (*AnalysisService, error) {
	a := analyzer.New(opts)
	parquetReader, err := a.Open(uri, readOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	result, err := a.AnalyzeReader(ctx, uri, parquetReader)
	if err != nil {
		_ = parquetReader.PFile.Close()
		return nil, fmt.Errorf("failed to analyze parquet file: %w", err)
	}

	return &AnalysisService{
		result:        result,
		parquetReader: parquetReader,
		logger:        loggerOrNop(opts.Logger),
	}, nil
}

// NewReportService serves an existing report, schema exports are not available
func NewReportService(result model.AnalysisResult, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		result: result,
		logger: loggerOrNop(logger),
	}
}

// Result returns the served report
func (s *AnalysisService) Result() model.AnalysisResult {
	return s.result
}

// Close closes the underlying parquet file
func (s *AnalysisService) Close() error {
	if s.parquetReader == nil {
		return nil
	}
	return s.parquetReader.PFile.Close()
}

// CreateRouter creates a new router with all routes configured
// If quiet is true, disables logging middleware (useful for embedded servers)
func CreateRouter(s *AnalysisService, quiet bool) *mux.Router {
	r := mux.NewRouter()
	s.SetupRoutes(r)
	r.Use(CORSMiddleware)
	if !quiet {
		r.Use(LoggingMiddleware(s.logger))
	}
	return r
}

// SetupRoutes configures all HTTP routes
func (s *AnalysisService) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/analysis", s.handleAnalysis).Methods("GET")
	r.HandleFunc("/info", s.handleInfo).Methods("GET")

	// Schema endpoints
	r.HandleFunc("/schema", s.handleSchema).Methods("GET")
	r.HandleFunc("/schema/go", s.handleSchemaGo).Methods("GET")
	r.HandleFunc("/schema/json", s.handleSchemaJSON).Methods("GET")
	r.HandleFunc("/schema/raw", s.handleSchemaRaw).Methods("GET")
	r.HandleFunc("/schema/csv", s.handleSchemaCSV).Methods("GET")

	// Column endpoints
	r.HandleFunc("/columns", s.handleColumns).Methods("GET")
	r.HandleFunc("/columns/{colIndex}", s.handleColumn).Methods("GET")
	r.HandleFunc("/columns/{colIndex}/pages", s.handleColumnPages).Methods("GET")
}

func (s *AnalysisService) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.result)
}

func (s *AnalysisService) handleInfo(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.result.Summary())
}

func (s *AnalysisService) handleSchema(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.result.SchemaFields)
}

func (s *AnalysisService) handleColumns(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.result.Columns)
}

func (s *AnalysisService) handleColumn(w http.ResponseWriter, r *http.Request) {
	col, ok := s.columnFromRequest(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, col)
}

func (s *AnalysisService) handleColumnPages(w http.ResponseWriter, r *http.Request) {
	col, ok := s.columnFromRequest(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, col.Pages)
}

// columnFromRequest resolves {colIndex}, writing the error response when it is invalid
func (s *AnalysisService) columnFromRequest(w http.ResponseWriter, r *http.Request) (model.ColumnSummary, bool) {
	colIndex, err := strconv.Atoi(mux.Vars(r)["colIndex"])
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid column index")
		return model.ColumnSummary{}, false
	}

	col, err := s.Column(colIndex)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return model.ColumnSummary{}, false
	}
	return col, true
}

// Column returns the summary at index in discovery order
func (s *AnalysisService) Column(index int) (model.ColumnSummary, error) {
	numColumns := len(s.result.Columns)
	if index < 0 || index >= numColumns {
		return model.ColumnSummary{}, fmt.Errorf("column index %d out of range [0, %d): %w",
			index, numColumns, model.ErrInvalidColumnIndex)
	}
	return s.result.Columns[index], nil
}

// schemaTree builds the parquet-tools schema tree, writing the error response on failure
func (s *AnalysisService) schemaTree(w http.ResponseWriter) (*pschema.SchemaNode, bool) {
	if s.parquetReader == nil {
		WriteError(w, http.StatusNotFound, errNoRawSchema.Error())
		return nil, false
	}
	schemaRoot, err := pschema.NewSchemaTree(s.parquetReader, pschema.SchemaOption{FailOnInt96: false})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate schema: %v", err))
		return nil, false
	}
	return schemaRoot, true
}

// handleSchemaGo returns schema in Go struct format
func (s *AnalysisService) handleSchemaGo(w http.ResponseWriter, r *http.Request) {
	schemaRoot, ok := s.schemaTree(w)
	if !ok {
		return
	}

	schemaText, err := schemaRoot.GoStruct(false)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to format Go schema: %v", err))
		return
	}

	// If formatting fails, return the unformatted version
	formatted, err := FormatGoCode(schemaText)
	if err != nil {
		formatted = schemaText
	}
	writeText(w, "text/plain; charset=utf-8", formatted)
}

// handleSchemaJSON returns schema in JSON format
func (s *AnalysisService) handleSchemaJSON(w http.ResponseWriter, r *http.Request) {
	schemaRoot, ok := s.schemaTree(w)
	if !ok {
		return
	}
	writeText(w, "application/json; charset=utf-8", schemaRoot.JSONSchema())
}

// handleSchemaRaw returns the raw schema tree structure as JSON
func (s *AnalysisService) handleSchemaRaw(w http.ResponseWriter, r *http.Request) {
	schemaRoot, ok := s.schemaTree(w)
	if !ok {
		return
	}

	rawJSON, err := json.Marshal(*schemaRoot)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to marshal raw schema: %v", err))
		return
	}
	writeText(w, "application/json; charset=utf-8", string(rawJSON))
}

// handleSchemaCSV returns schema in CSV format
func (s *AnalysisService) handleSchemaCSV(w http.ResponseWriter, r *http.Request) {
	schemaRoot, ok := s.schemaTree(w)
	if !ok {
		return
	}

	schemaText, err := schemaRoot.CSVSchema()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to format CSV schema: %v", err))
		return
	}
	writeText(w, "text/csv; charset=utf-8", schemaText)
}

// StartServer starts the HTTP server and prints the available endpoints
func StartServer(service *AnalysisService, addr string) error {
	r := CreateRouter(service, false)

	fmt.Printf("Starting Parquet Analyzer API server on %s\n", addr)
	fmt.Printf("Available endpoints:\n")
	fmt.Printf("  GET /analysis                    - Full analysis report\n")
	fmt.Printf("  GET /info                        - File-level totals\n")
	fmt.Printf("  GET /schema                      - Normalized schema tree\n")
	fmt.Printf("  GET /schema/go                   - Schema (Go format)\n")
	fmt.Printf("  GET /schema/json                 - Schema (JSON format)\n")
	fmt.Printf("  GET /schema/raw                  - Schema (Raw format)\n")
	fmt.Printf("  GET /schema/csv                  - Schema (CSV format)\n")
	fmt.Printf("  GET /columns                     - All column summaries\n")
	fmt.Printf("  GET /columns/{colIndex}          - Column summary\n")
	fmt.Printf("  GET /columns/{colIndex}/pages    - Column pages\n")
	fmt.Println()

	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hangxie/parquet-analyzer/model"
)

// AnalysisClient is an HTTP client for a running analysis service
type AnalysisClient struct {
	baseURL string
	client  *http.Client
}

// NewAnalysisClient creates a new HTTP client
func NewAnalysisClient(baseURL string) *AnalysisClient {
	return &AnalysisClient{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// GetAnalysis retrieves the full report. Min/max come back as their text form.
func (c *AnalysisClient) GetAnalysis() (model.AnalysisResult, error) {
	var result model.AnalysisResult
	err := c.get("/analysis", &result)
	return result, err
}

// GetFileSummary retrieves file-level totals
func (c *AnalysisClient) GetFileSummary() (model.FileSummary, error) {
	var summary model.FileSummary
	err := c.get("/info", &summary)
	return summary, err
}

// GetSchema retrieves the normalized schema tree
func (c *AnalysisClient) GetSchema() ([]model.SchemaField, error) {
	var fields []model.SchemaField
	err := c.get("/schema", &fields)
	return fields, err
}

// GetAllColumns retrieves every column summary in discovery order
func (c *AnalysisClient) GetAllColumns() ([]model.ColumnSummary, error) {
	var columns []model.ColumnSummary
	err := c.get("/columns", &columns)
	return columns, err
}

// GetColumn retrieves one column summary
func (c *AnalysisClient) GetColumn(colIndex int) (model.ColumnSummary, error) {
	var column model.ColumnSummary
	err := c.get(fmt.Sprintf("/columns/%d", colIndex), &column)
	return column, err
}

// GetColumnPages retrieves the pages of one column
func (c *AnalysisClient) GetColumnPages(colIndex int) ([]model.Page, error) {
	var pages []model.Page
	err := c.get(fmt.Sprintf("/columns/%d/pages", colIndex), &pages)
	return pages, err
}

// GetSchemaGo retrieves the schema in Go struct format
func (c *AnalysisClient) GetSchemaGo() (string, error) {
	return c.getText("/schema/go")
}

// GetSchemaJSON retrieves the schema in JSON format (compact)
func (c *AnalysisClient) GetSchemaJSON() (string, error) {
	return c.getText("/schema/json")
}

// GetSchemaRaw retrieves the raw schema tree structure (compact JSON)
func (c *AnalysisClient) GetSchemaRaw() (string, error) {
	return c.getText("/schema/raw")
}

// GetSchemaCSV retrieves the schema in CSV format
func (c *AnalysisClient) GetSchemaCSV() (string, error) {
	return c.getText("/schema/csv")
}

// Helper method to make GET requests and decode JSON
func (c *AnalysisClient) get(path string, result any) error {
	resp, err := c.do(path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Helper method to make GET requests and return text
func (c *AnalysisClient) getText(path string) (string, error) {
	resp, err := c.do(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return string(body), nil
}

// do issues the GET and turns non-200 responses into errors, the caller closes the body
func (c *AnalysisClient) do(path string) (*http.Response, error) {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Try to read error message from response
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}

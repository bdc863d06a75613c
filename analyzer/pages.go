package analyzer

import (
	"fmt"
	"sync"

	"github.com/hangxie/parquet-go/v2/parquet"
	"github.com/hangxie/parquet-go/v2/reader"

	"github.com/hangxie/parquet-analyzer/model"
)

// PageSource produces the page breakdown of one column chunk. A non-nil
// diagnostic is attached to the column and does not stop the analysis.
type PageSource interface {
	Pages(rowGroup, column int, meta *parquet.ColumnMetaData) ([]model.Page, *model.Diagnostic)
}

// PageEstimator synthesizes uniform pages from chunk totals
type PageEstimator struct {
	PageSize int64
}

// Pages implements PageSource
func (e PageEstimator) Pages(_, _ int, meta *parquet.ColumnMetaData) ([]model.Page, *model.Diagnostic) {
	encodings := make([]string, len(meta.Encodings))
	for i, enc := range meta.Encodings {
		encodings[i] = enc.String()
	}
	return e.Estimate(meta.TotalUncompressedSize, meta.TotalCompressedSize, meta.NumValues, encodings), nil
}

// Estimate splits a chunk into max(1, uncompressed/PageSize) pages of equal
// integer slices
func (e PageEstimator) Estimate(uncompressed, compressed, values int64, encodings []string) []model.Page {
	pageSize := e.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	count := max(int64(1), uncompressed/pageSize)

	encoding := "UNKNOWN"
	if len(encodings) > 0 {
		encoding = encodings[0]
	}

	page := model.Page{
		PageType:         model.PageTypeDataPage,
		UncompressedSize: uncompressed / count,
		CompressedSize:   compressed / count,
		NumValues:        values / count,
		Encoding:         encoding,
	}
	page.CompressionRatio = model.Ratio(page.CompressedSize, page.UncompressedSize)

	pages := make([]model.Page, count)
	for i := range pages {
		pages[i] = page
	}
	return pages
}

// pageHeaderReader is the part of reader.ParquetReader needed to read page headers
type pageHeaderReader interface {
	GetAllPageHeaders(rgIndex, colIndex int) ([]reader.PageHeaderInfo, error)
}

// HeaderPageSource reads true page headers and falls back to estimation for
// chunks whose headers can not be read
type HeaderPageSource struct {
	// the underlying file handle is shared, reads are serialized
	mu       sync.Mutex
	reader   pageHeaderReader
	fallback PageEstimator
}

// NewHeaderPageSource creates a page source backed by the reader's page headers
func NewHeaderPageSource(pr pageHeaderReader, pageSize int64) *HeaderPageSource {
	return &HeaderPageSource{
		reader:   pr,
		fallback: PageEstimator{PageSize: pageSize},
	}
}

// Pages implements PageSource
func (s *HeaderPageSource) Pages(rowGroup, column int, meta *parquet.ColumnMetaData) ([]model.Page, *model.Diagnostic) {
	s.mu.Lock()
	headers, err := s.reader.GetAllPageHeaders(rowGroup, column)
	s.mu.Unlock()
	if err != nil {
		pages, _ := s.fallback.Pages(rowGroup, column, meta)
		return pages, &model.Diagnostic{
			Severity: model.SeverityInfo,
			Kind:     model.DiagPageHeadersUnavailable,
			RowGroup: rowGroup,
			Message:  fmt.Sprintf("page headers of column %d: %v, pages estimated", column, err),
		}
	}

	pages := make([]model.Page, len(headers))
	for i, header := range headers {
		pages[i] = pageFromHeader(header)
	}
	return pages, nil
}

func pageFromHeader(header reader.PageHeaderInfo) model.Page {
	page := model.Page{
		PageType:         header.PageType.String(),
		UncompressedSize: int64(header.UncompressedSize),
		CompressedSize:   int64(header.CompressedSize),
		NumValues:        int64(header.NumValues),
		Encoding:         "UNKNOWN",
	}
	switch header.PageType {
	case parquet.PageType_DATA_PAGE, parquet.PageType_DATA_PAGE_V2, parquet.PageType_DICTIONARY_PAGE:
		page.Encoding = header.Encoding.String()
	}
	page.CompressionRatio = model.Ratio(page.CompressedSize, page.UncompressedSize)
	return page
}

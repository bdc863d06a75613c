package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/hangxie/parquet-go/v2/parquet"
	"github.com/hangxie/parquet-go/v2/reader"
	pio "github.com/hangxie/parquet-tools/io"
	"go.uber.org/zap"

	"github.com/hangxie/parquet-analyzer/model"
)

// Analyzer produces analysis reports from Parquet footers
type Analyzer struct {
	opts Options
}

// New creates an analyzer, unset options take their defaults
func New(opts Options) *Analyzer {
	return &Analyzer{opts: opts.withDefaults()}
}

// Analyze opens uri, analyzes its footer and closes it again
func Analyze(ctx context.Context, uri string, readOpt pio.ReadOption, opts Options) (model.AnalysisResult, error) {
	return New(opts).AnalyzeFile(ctx, uri, readOpt)
}

// AnalyzeFile opens uri, analyzes its footer and closes it again
func (a *Analyzer) AnalyzeFile(ctx context.Context, uri string, readOpt pio.ReadOption) (model.AnalysisResult, error) {
	pr, err := a.Open(uri, readOpt)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	defer func() {
		_ = pr.PFile.Close()
	}()
	return a.AnalyzeReader(ctx, uri, pr)
}

// Open checks that a local source exists and opens it with the reader
// matching its scheme
func (a *Analyzer) Open(uri string, readOpt pio.ReadOption) (*reader.ParquetReader, error) {
	if path, local := localPath(uri); local {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", model.ErrNotFound, uri)
			}
			return nil, fmt.Errorf("failed to stat %s: %w", uri, err)
		}
	}

	start := time.Now()
	pr, err := pio.NewParquetFileReader(uri, readOpt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrFormat, err)
	}
	if pr.Footer == nil {
		_ = pr.PFile.Close()
		return nil, fmt.Errorf("%w: %s has no footer", model.ErrFormat, uri)
	}
	a.opts.Logger.Debug("opened parquet file",
		zap.String("uri", uri),
		zap.Int("row_groups", len(pr.Footer.RowGroups)),
		zap.Duration("elapsed", time.Since(start)))
	return pr, nil
}

// AnalyzeReader analyzes the footer of an opened reader, the reader stays open
func (a *Analyzer) AnalyzeReader(ctx context.Context, uri string, pr *reader.ParquetReader) (model.AnalysisResult, error) {
	size, err := pr.PFile.Seek(0, io.SeekEnd)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("failed to get size of %s: %w", uri, err)
	}

	var pages PageSource
	if a.opts.ReadPageHeaders {
		pages = NewHeaderPageSource(pr, a.opts.PageSize)
	}
	return a.AnalyzeMetadata(ctx, uri, size, pr.Footer, pages)
}

// AnalyzeMetadata builds the report of an already parsed footer. A nil page
// source estimates pages.
func (a *Analyzer) AnalyzeMetadata(ctx context.Context, filePath string, fileSize int64, meta *parquet.FileMetaData, pages PageSource) (model.AnalysisResult, error) {
	if meta == nil {
		return model.AnalysisResult{}, fmt.Errorf("%w: no file metadata", model.ErrFormat)
	}
	start := time.Now()

	native, err := BuildNativeSchema(meta.Schema)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	schema := NormalizeSchema(native)

	records, err := ChunkRecords(meta)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	aggregator, err := NewAggregator(meta.Schema, pages, a.opts)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	columns, err := aggregator.Aggregate(ctx, records)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	result := Assemble(filePath, fileSize, meta, schema, columns)
	a.opts.Logger.Debug("analysis complete",
		zap.String("file", filePath),
		zap.Int("row_groups", result.NumRowGroups),
		zap.Int("columns", result.NumPhysicalColumns),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// localPath reports whether uri names a local file and returns its path
func localPath(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil {
		return uri, true
	}
	switch {
	case u.Scheme == "":
		return uri, true
	case u.Scheme == "file":
		return u.Path, true
	case len(u.Scheme) == 1:
		// windows drive letter
		return uri, true
	}
	return "", false
}

package cmd

import (
	"fmt"

	pio "github.com/hangxie/parquet-tools/io"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hangxie/parquet-analyzer/analyzer"
)

// AnalysisFlags are the analysis knobs shared by every command
type AnalysisFlags struct {
	PageSize                 int64 `help:"Reference page size in bytes used to estimate pages." default:"1048576" env:"PARQUET_ANALYZER_PAGE_SIZE"`
	Parallelism              int   `help:"Row groups extracted concurrently, 0 uses GOMAXPROCS." default:"0" env:"PARQUET_ANALYZER_PARALLELISM"`
	ReadPageHeaders          bool  `help:"Read real page headers instead of estimating pages." env:"PARQUET_ANALYZER_READ_PAGE_HEADERS"`
	TimestampFromLogicalType bool  `help:"Also format INT64 columns annotated as TIMESTAMP." env:"PARQUET_ANALYZER_TIMESTAMP_FROM_LOGICAL_TYPE"`
	Verbose                  bool  `short:"v" help:"Enable debug logging." env:"PARQUET_ANALYZER_VERBOSE"`
	pio.ReadOption
}

// options turns the flags into analyzer options, the caller syncs the logger
func (f AnalysisFlags) options() (analyzer.Options, error) {
	if f.PageSize < 0 {
		return analyzer.Options{}, fmt.Errorf("page size must not be negative: %d", f.PageSize)
	}
	if f.Parallelism < 0 {
		return analyzer.Options{}, fmt.Errorf("parallelism must not be negative: %d", f.Parallelism)
	}

	logger, err := newLogger(f.Verbose)
	if err != nil {
		return analyzer.Options{}, fmt.Errorf("failed to create logger: %w", err)
	}

	opts := analyzer.DefaultOptions()
	if f.PageSize > 0 {
		opts.PageSize = f.PageSize
	}
	if f.Parallelism > 0 {
		opts.Parallelism = f.Parallelism
	}
	opts.ReadPageHeaders = f.ReadPageHeaders
	opts.TimestampFromLogicalType = f.TimestampFromLogicalType
	opts.Logger = logger
	return opts, nil
}

// newLogger builds a development logger when verbose, otherwise one that only reports warnings
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

package analyzer

import (
	"runtime"

	"go.uber.org/zap"
)

// DefaultPageSize is the reference page size used to estimate page breakdowns
const DefaultPageSize int64 = 1024 * 1024

// Options configures an analysis
type Options struct {
	// PageSize is the reference page size in bytes for page estimation
	PageSize int64
	// Parallelism bounds the number of row groups extracted concurrently
	Parallelism int
	// ReadPageHeaders reads true page headers from the file instead of estimating
	ReadPageHeaders bool
	// TimestampFromLogicalType also treats INT64 columns annotated as TIMESTAMP as timestamps
	TimestampFromLogicalType bool
	// Logger receives debug output, nil disables logging
	Logger *zap.Logger
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		PageSize:    DefaultPageSize,
		Parallelism: runtime.GOMAXPROCS(0),
		Logger:      zap.NewNop(),
	}
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

package cmd

import (
	"context"
	"fmt"

	"github.com/hangxie/parquet-analyzer/service"
)

// ServeCmd is a kong command for serving HTTP API
type ServeCmd struct {
	URI  string `arg:"" predictor:"file" help:"URI of Parquet file."`
	Addr string `short:"a" default:":8080" help:"Address to listen on (default :8080)." env:"PARQUET_ANALYZER_ADDR"`
	AnalysisFlags
}

// Run analyzes the file once and serves the report over HTTP
func (s ServeCmd) Run() error {
	opts, err := s.options()
	if err != nil {
		return err
	}
	defer func() { _ = opts.Logger.Sync() }()

	svc, err := service.NewAnalysisService(context.Background(), s.URI, s.ReadOption, opts)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer func() { _ = svc.Close() }()

	return service.StartServer(svc, s.Addr)
}

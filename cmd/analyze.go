package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/hangxie/parquet-analyzer/analyzer"
	"github.com/hangxie/parquet-analyzer/model"
)

// maxStatWidth caps min/max cells in the text report
const maxStatWidth = 32

// AnalyzeCmd is a kong command that prints an analysis report
type AnalyzeCmd struct {
	URI    string `arg:"" predictor:"file" help:"URI of Parquet file."`
	JSON   bool   `name:"json" short:"j" help:"Print the report as JSON."`
	Pretty bool   `short:"p" help:"Indent JSON output."`
	AnalysisFlags
}

// Run analyzes the file and writes the report to stdout
func (c AnalyzeCmd) Run() error {
	return c.run(context.Background(), os.Stdout)
}

func (c AnalyzeCmd) run(ctx context.Context, w io.Writer) error {
	opts, err := c.options()
	if err != nil {
		return err
	}
	defer func() { _ = opts.Logger.Sync() }()

	result, err := analyzer.Analyze(ctx, c.URI, c.ReadOption, opts)
	if err != nil {
		return err
	}

	if c.JSON {
		data, err := result.ToJSON(c.Pretty)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return writeTextReport(w, result)
}

// writeTextReport prints the file summary followed by one table row per column
func writeTextReport(w io.Writer, result model.AnalysisResult) error {
	_, err := fmt.Fprintf(w,
		"File:         %s\n"+
			"Size:         %s\n"+
			"Rows:         %s\n"+
			"Row Groups:   %d\n"+
			"Columns:      %d logical, %d physical\n"+
			"Total Size:   %s → %s (%s)\n"+
			"Created By:   %s\n"+
			"Version:      %s\n\n",
		result.FilePath,
		model.FormatBytes(result.FileSizeBytes),
		humanize.Comma(result.TotalRows),
		result.NumRowGroups,
		result.NumLogicalColumns, result.NumPhysicalColumns,
		model.FormatBytes(result.TotalCompressed), model.FormatBytes(result.TotalUncompressed),
		model.FormatRatio(result.CompressionRatio()),
		model.FormatOptional(result.CreatedBy),
		model.FormatOptional(result.Version),
	)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Column", "Type", "Logical", "Codec", "Compressed", "Uncompressed", "Ratio", "Values", "Nulls", "Min", "Max", "Pages"})
	for i, col := range result.Columns {
		table.Append([]string{
			strconv.Itoa(i),
			col.Name,
			col.PhysicalType,
			col.LogicalType,
			col.Compression,
			model.FormatBytes(col.CompressedSize),
			model.FormatBytes(col.UncompressedSize),
			model.FormatRatio(col.CompressionRatio),
			humanize.Comma(col.Values),
			model.FormatOptionalInt(col.NullCount),
			statCell(col.MinValue),
			statCell(col.MaxValue),
			strconv.Itoa(col.NumPages),
		})
	}
	table.Render()

	return writeDiagnostics(w, result.Columns)
}

func writeDiagnostics(w io.Writer, columns []model.ColumnSummary) error {
	header := false
	for _, col := range columns {
		for _, d := range col.Diagnostics {
			if !header {
				if _, err := fmt.Fprintln(w, "\nDiagnostics:"); err != nil {
					return err
				}
				header = true
			}
			if _, err := fmt.Fprintf(w, "  [%s] %s row group %d: %s (%s)\n", d.Severity, col.Name, d.RowGroup, d.Message, d.Kind); err != nil {
				return err
			}
		}
	}
	return nil
}

func statCell(value any) string {
	text := model.FormatOptional(model.FormatStatText(value))
	if runes := []rune(text); len(runes) > maxStatWidth {
		return string(runes[:maxStatWidth]) + "..."
	}
	return text
}

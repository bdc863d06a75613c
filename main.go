package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"

	"github.com/hangxie/parquet-analyzer/cmd"
)

var cli struct {
	Analyze            cmd.AnalyzeCmd               `cmd:"" default:"withargs" help:"Print column sizes, statistics and the normalized schema of a Parquet file."`
	Serve              cmd.ServeCmd                 `cmd:"" help:"Serve the analysis report over an HTTP JSON API."`
	TUI                cmd.TUICmd                   `cmd:"" name:"tui" help:"Browse the analysis report in the terminal."`
	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions."`
}

func main() {
	parser := kong.Must(
		&cli,
		kong.Name("parquet-analyzer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Description("Aggregate Parquet metadata into per-column statistics and a normalized schema, for full usage see https://github.com/hangxie/parquet-analyzer/blob/main/README.md"),
	)
	kongplete.Complete(parser, kongplete.WithPredictor("file", complete.PredictFiles("*")))

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run())
}

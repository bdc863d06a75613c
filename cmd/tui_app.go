package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/hangxie/parquet-analyzer/client"
	"github.com/hangxie/parquet-analyzer/model"
)

// writeClipboard is swapped in tests, there is no clipboard on CI machines
var writeClipboard = clipboard.WriteAll

// TUIApp represents the TUI application for browsing an analysis report
type TUIApp struct {
	tviewApp    *tview.Application
	pages       *tview.Pages
	mainLayout  *tview.Flex
	headerView  *tview.TextView
	columnTable *tview.Table
	statusLine  *tview.TextView
	currentFile string
	httpClient  *client.AnalysisClient
}

// NewTUIApp creates a new TUIApp instance
func NewTUIApp() *TUIApp {
	return &TUIApp{
		tviewApp: tview.NewApplication(),
		pages:    tview.NewPages(),
	}
}

// textHeight is the height of a bordered text view holding its current text
func textHeight(view *tview.TextView) int {
	if view == nil {
		return 3
	}
	text := view.GetText(false)
	lines := strings.Count(text, "\n") + 1
	return lines + 2 // +2 for borders
}

func (app *TUIApp) getHeaderHeight() int {
	return textHeight(app.headerView)
}

func (app *TUIApp) showMainView() {
	app.mainLayout = tview.NewFlex().SetDirection(tview.FlexRow)

	app.createHeaderView()
	app.createColumnTable()
	app.createStatusLine()

	// Assemble the layout with dynamic header height
	app.mainLayout.
		AddItem(app.headerView, app.getHeaderHeight(), 0, false).
		AddItem(app.columnTable, 0, 1, true).
		AddItem(app.statusLine, 1, 0, false)

	app.mainLayout.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			app.tviewApp.Stop()
			return nil
		case tcell.KeyEnter:
			row, _ := app.columnTable.GetSelection()
			if row > 0 { // Skip header row
				app.showColumnView(row - 1)
			}
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 's':
				app.showSchema()
				return nil
			case 't':
				app.showSchemaTree()
				return nil
			case 'y':
				app.copyReport(app.statusLine)
				return nil
			}
		}
		return event
	})
}

func (app *TUIApp) createHeaderView() {
	app.headerView = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWrap(true).
		SetWordWrap(true)

	app.headerView.SetBorder(true).
		SetTitle(" File Info ").
		SetTitleAlign(tview.AlignLeft)

	summary, err := app.httpClient.GetFileSummary()
	if err != nil {
		app.headerView.SetText(fmt.Sprintf("[red]Error loading file info: %v[-]", err))
		return
	}
	app.headerView.SetText(buildHeaderText(app.currentFile, summary))
}

func buildHeaderText(file string, summary model.FileSummary) string {
	var header strings.Builder

	// Line 1: File name and size
	header.WriteString(fmt.Sprintf("[yellow]File:[-] %s  ", filepath.Base(file)))
	header.WriteString(fmt.Sprintf("[yellow]Size:[-] %s", model.FormatBytes(summary.FileSizeBytes)))

	// Line 2: Shape
	header.WriteString(fmt.Sprintf("\n[yellow]Row Groups:[-] %d  ", summary.NumRowGroups))
	header.WriteString(fmt.Sprintf("[yellow]Rows:[-] %d  ", summary.TotalRows))
	header.WriteString(fmt.Sprintf("[yellow]Columns:[-] %d logical, %d physical", summary.NumLogicalColumns, summary.NumPhysicalColumns))

	// Line 3: Total size (compressed → uncompressed) and creator info
	header.WriteString(fmt.Sprintf("\n[yellow]Total Size:[-] %s → %s (%s)",
		model.FormatBytes(summary.TotalCompressed),
		model.FormatBytes(summary.TotalUncompressed),
		model.FormatRatio(summary.CompressionRatio)))
	if summary.CreatedBy != nil {
		header.WriteString(fmt.Sprintf("  [yellow]Created By:[-] %s", tview.Escape(*summary.CreatedBy)))
	}
	if summary.Version != nil {
		header.WriteString(fmt.Sprintf("  [yellow]Version:[-] %s", *summary.Version))
	}

	return header.String()
}

func (app *TUIApp) createStatusLine() {
	app.statusLine = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	app.statusLine.SetText(mainStatusText)
}

const mainStatusText = " [yellow]Keys:[-] ESC=quit, s=schema, t=schema tree, y=copy report, ↑↓=scroll, Enter=column details"

// setHeaderCells writes a non-selectable yellow header row
func setHeaderCells(table *tview.Table, headers []string) {
	for colIdx, header := range headers {
		cell := tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetAlign(tview.AlignCenter).
			SetSelectable(false).
			SetExpansion(0)
		table.SetCell(0, colIdx, cell)
	}
}

// setRowCells writes one row, columns listed in rightAligned are right aligned
func setRowCells(table *tview.Table, row int, values []string, rightAligned map[int]bool) {
	for colIdx, value := range values {
		align := tview.AlignLeft
		if rightAligned[colIdx] {
			align = tview.AlignRight
		}
		cell := tview.NewTableCell(tview.Escape(value)).
			SetTextColor(tcell.ColorWhite).
			SetAlign(align)
		table.SetCell(row, colIdx, cell)
	}
}

func (app *TUIApp) createColumnTable() {
	app.columnTable = tview.NewTable().
		SetBorders(false).
		SetSeparator(tview.Borders.Vertical).
		SetSelectable(true, false).
		SetFixed(1, 0)

	app.columnTable.SetBorder(true).
		SetTitle(" Columns (↑↓ to navigate, Enter=details) ").
		SetTitleAlign(tview.AlignLeft)

	columns, err := app.httpClient.GetAllColumns()
	if err != nil {
		cell := tview.NewTableCell(fmt.Sprintf("[red]Error loading columns: %v[-]", err)).
			SetTextColor(tcell.ColorRed).
			SetAlign(tview.AlignLeft).
			SetExpansion(1)
		app.columnTable.SetCell(1, 0, cell)
		return
	}

	setHeaderCells(app.columnTable, []string{"#", "Name", "Type", "Logical", "Codec", "Size", "Ratio", "Values", "Nulls", "Min", "Max", "Pages"})
	right := map[int]bool{0: true, 5: true, 6: true, 7: true, 8: true, 11: true}
	for i, col := range columns {
		setRowCells(app.columnTable, i+1, []string{
			fmt.Sprintf("%d", i),
			col.Name,
			col.PhysicalType,
			col.LogicalType,
			col.Compression,
			fmt.Sprintf("%s → %s", model.FormatBytes(col.CompressedSize), model.FormatBytes(col.UncompressedSize)),
			model.FormatRatio(col.CompressionRatio),
			fmt.Sprintf("%d", col.Values),
			model.FormatOptionalInt(col.NullCount),
			statCell(col.MinValue),
			statCell(col.MaxValue),
			fmt.Sprintf("%d", col.NumPages),
		}, right)
	}
}

// buildColumnInfoView creates the detail header of one column
func buildColumnInfoView(col model.ColumnSummary) *tview.TextView {
	infoView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	var info strings.Builder

	// Line 1: Column path, types
	info.WriteString(fmt.Sprintf("[yellow]Column:[-] %s  ", tview.Escape(col.Name)))
	info.WriteString(fmt.Sprintf("[yellow]Type:[-] %s  ", col.PhysicalType))
	if col.LogicalType != "" && col.LogicalType != "-" {
		info.WriteString(fmt.Sprintf("[yellow]Logical:[-] %s  ", tview.Escape(col.LogicalType)))
	}
	if col.ConvertedType != "" && col.ConvertedType != "NONE" {
		info.WriteString(fmt.Sprintf("[yellow]Converted:[-] %s  ", col.ConvertedType))
	}
	info.WriteString(fmt.Sprintf("[yellow]Repetition:[-] %s", col.RepetitionType))

	// Line 2: Values, codec, sizes
	info.WriteString(fmt.Sprintf("\n[yellow]Values:[-] %d  ", col.Values))
	info.WriteString(fmt.Sprintf("[yellow]Codec:[-] %s  ", col.Compression))
	info.WriteString(fmt.Sprintf("[yellow]Size:[-] %s → %s (%s)",
		model.FormatBytes(col.CompressedSize),
		model.FormatBytes(col.UncompressedSize),
		model.FormatRatio(col.CompressionRatio)))

	// Line 3: Counts, encodings and pages
	info.WriteString(fmt.Sprintf("\n[yellow]Nulls:[-] %s  ", model.FormatOptionalInt(col.NullCount)))
	info.WriteString(fmt.Sprintf("[yellow]Distinct:[-] %s  ", model.FormatOptionalInt(col.DistinctCount)))
	info.WriteString(fmt.Sprintf("[yellow]Encodings:[-] %s  ", strings.Join(col.Encodings, ", ")))
	info.WriteString(fmt.Sprintf("[yellow]Pages:[-] %d", col.NumPages))

	// Line 4: Min/Max values (if available)
	if col.MinValue != nil || col.MaxValue != nil {
		info.WriteString(fmt.Sprintf("\n[yellow]Min:[-] %s  [yellow]Max:[-] %s",
			tview.Escape(statCell(col.MinValue)), tview.Escape(statCell(col.MaxValue))))
	}

	for _, d := range col.Diagnostics {
		info.WriteString(fmt.Sprintf("\n[red]%s[-] row group %d: %s", d.Severity, d.RowGroup, tview.Escape(d.Message)))
	}

	infoView.SetText(info.String())
	infoView.SetBorder(true).SetTitle(" Column Info ")

	return infoView
}

func buildPageTable(pages []model.Page) *tview.Table {
	table := tview.NewTable().
		SetBorders(false).
		SetSeparator(tview.Borders.Vertical).
		SetSelectable(true, false).
		SetFixed(1, 0)

	table.SetBorder(true).
		SetTitle(fmt.Sprintf(" Pages (%d) ", len(pages))).
		SetTitleAlign(tview.AlignLeft)

	setHeaderCells(table, []string{"#", "Type", "Compressed", "Uncompressed", "Ratio", "Values", "Encoding"})
	right := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true}
	for i, page := range pages {
		setRowCells(table, i+1, []string{
			fmt.Sprintf("%d", i),
			page.PageType,
			model.FormatBytes(page.CompressedSize),
			model.FormatBytes(page.UncompressedSize),
			model.FormatRatio(page.CompressionRatio),
			fmt.Sprintf("%d", page.NumValues),
			page.Encoding,
		}, right)
	}
	return table
}

func (app *TUIApp) showError(page, title string, err error) {
	errorModal := tview.NewModal().
		SetText(fmt.Sprintf("%s:\n%v\n\nPress ESC to go back", title, err)).
		SetTextColor(tcell.ColorRed).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			app.pages.RemovePage(page)
		})
	app.pages.AddPage(page, errorModal, true, true)
}

func (app *TUIApp) showColumnView(colIndex int) {
	loadingModal := tview.NewModal().
		SetText("Loading column...\n\nPlease wait...\n\nPress ESC to cancel").
		SetTextColor(tcell.ColorYellow)

	ctx, cancel := context.WithCancel(context.Background())

	loadingModal.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			cancel()
			app.pages.RemovePage("column-loading")
			return nil
		}
		return event
	})

	app.pages.AddPage("column-loading", loadingModal, true, true)

	go func() {
		defer cancel()

		col, err := app.httpClient.GetColumn(colIndex)
		if err == nil {
			col.Pages, err = app.httpClient.GetColumnPages(colIndex)
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		app.tviewApp.QueueUpdateDraw(func() {
			app.pages.RemovePage("column-loading")
			if err != nil {
				app.showError("column-error", "Error loading column", err)
				return
			}
			app.pages.AddPage("columnview", app.buildColumnView(col), true, true)
		})
	}()
}

// buildColumnView lays out the column detail page: info, pages, status
func (app *TUIApp) buildColumnView(col model.ColumnSummary) *tview.Flex {
	infoView := buildColumnInfoView(col)
	pageTable := buildPageTable(col.Pages)

	statusText := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	statusText.SetText(" [yellow]Keys:[-] ESC=back, s=schema, t=schema tree, y=copy report, ↑↓=scroll")

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(infoView, textHeight(infoView), 0, false).
		AddItem(pageTable, 0, 1, true).
		AddItem(statusText, 1, 0, false)

	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			app.pages.RemovePage("columnview")
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 's':
				app.showSchema()
				return nil
			case 't':
				app.showSchemaTree()
				return nil
			case 'y':
				app.copyReport(statusText)
				return nil
			}
		}
		return event
	})
	return flex
}

// copyReport puts the full JSON report on the clipboard and reports the outcome on status
func (app *TUIApp) copyReport(status *tview.TextView) {
	result, err := app.httpClient.GetAnalysis()
	if err == nil {
		var data []byte
		if data, err = result.ToJSON(true); err == nil {
			err = writeClipboard(string(data))
		}
	}
	if err != nil {
		status.SetText(fmt.Sprintf(" [red]Failed to copy: %v[-]", err))
		return
	}
	status.SetText(" [green]Copied JSON report to clipboard![-]")
}

func (app *TUIApp) showSchema() {
	newSchemaViewer(app).show()
}

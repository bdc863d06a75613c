package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/hangxie/parquet-analyzer/client"
)

// schemaFormat is one text rendering of the schema offered by the viewer
type schemaFormat struct {
	name       string
	label      string
	key        rune
	prettyable bool
	fetch      func(*client.AnalysisClient) (string, error)
}

var schemaFormats = []schemaFormat{
	{name: "normalized", label: "Normalized", key: 'n', prettyable: true, fetch: fetchNormalizedSchema},
	{name: "json", label: "JSON", key: 'j', prettyable: true, fetch: (*client.AnalysisClient).GetSchemaJSON},
	{name: "raw", label: "Raw", key: 'r', prettyable: true, fetch: (*client.AnalysisClient).GetSchemaRaw},
	{name: "go", label: "Go Struct", key: 'g', fetch: (*client.AnalysisClient).GetSchemaGo},
	{name: "csv", label: "CSV", key: 'c', fetch: (*client.AnalysisClient).GetSchemaCSV},
}

// fetchNormalizedSchema renders the normalized schema forest as compact JSON
func fetchNormalizedSchema(c *client.AnalysisClient) (string, error) {
	fields, err := c.GetSchema()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// schemaViewer encapsulates schema viewing functionality
type schemaViewer struct {
	app           *TUIApp
	currentFormat int
	isPretty      bool
	textView      *tview.TextView
	titleBar      *tview.TextView
	statusBar     *tview.TextView
}

func newSchemaViewer(app *TUIApp) *schemaViewer {
	return &schemaViewer{
		app:      app,
		isPretty: true,
		textView: tview.NewTextView().
			SetDynamicColors(false).
			SetScrollable(true).
			SetWordWrap(false),
		titleBar: tview.NewTextView().
			SetDynamicColors(true).
			SetTextAlign(tview.AlignCenter),
		statusBar: tview.NewTextView().
			SetDynamicColors(true).
			SetTextAlign(tview.AlignCenter),
	}
}

func (sv *schemaViewer) show() {
	sv.textView.SetBorder(true)
	sv.updateDisplay()

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(sv.titleBar, 1, 0, false).
		AddItem(sv.textView, 0, 1, true).
		AddItem(sv.statusBar, 1, 0, false)

	flex.SetBorder(true)
	flex.SetInputCapture(sv.handleInput)

	sv.app.pages.AddPage("schema", flex, true, true)
}

func (sv *schemaViewer) handleInput(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape {
		sv.app.pages.RemovePage("schema")
		return nil
	}
	if event.Key() != tcell.KeyRune {
		return event
	}

	key := event.Rune()
	if key >= 'A' && key <= 'Z' {
		key += 'a' - 'A'
	}
	switch key {
	case 'p':
		sv.togglePretty()
		return nil
	case 'y':
		sv.copyToClipboard()
		return nil
	}
	for i, f := range schemaFormats {
		if f.key == key {
			sv.switchToFormat(i)
			return nil
		}
	}
	return event
}

func (sv *schemaViewer) switchToFormat(index int) {
	sv.currentFormat = index
	sv.statusBar.SetText("")
	sv.updateDisplay()
}

func (sv *schemaViewer) togglePretty() {
	if schemaFormats[sv.currentFormat].prettyable {
		sv.isPretty = !sv.isPretty
		sv.statusBar.SetText("")
		sv.updateDisplay()
	}
}

func (sv *schemaViewer) copyToClipboard() {
	if err := writeClipboard(sv.textView.GetText(false)); err != nil {
		sv.statusBar.SetText(fmt.Sprintf("[red]Failed to copy: %v[-]", err))
		return
	}
	sv.statusBar.SetText(fmt.Sprintf("[green]Copied %s schema to clipboard![-]", schemaFormats[sv.currentFormat].label))
}

func (sv *schemaViewer) updateDisplay() {
	sv.updateTitle()

	format := schemaFormats[sv.currentFormat]
	schemaText, err := format.fetch(sv.app.httpClient)
	if err != nil {
		sv.textView.SetText(fmt.Sprintf("Error fetching schema: %v", err))
		return
	}
	if format.prettyable && sv.isPretty {
		schemaText = prettyJSON(schemaText)
	}
	sv.textView.SetText(schemaText)
}

// prettyJSON indents a JSON document, returning it unchanged when it does not parse
func prettyJSON(jsonStr string) string {
	var jsonObj any
	if err := json.Unmarshal([]byte(jsonStr), &jsonObj); err != nil {
		return jsonStr
	}

	prettyBytes, err := json.MarshalIndent(jsonObj, "", "  ")
	if err != nil {
		return jsonStr
	}

	return string(prettyBytes)
}

func (sv *schemaViewer) updateTitle() {
	format := schemaFormats[sv.currentFormat]
	keys := make([]string, 0, len(schemaFormats))
	for _, f := range schemaFormats {
		keys = append(keys, fmt.Sprintf("%c=%s", f.key, f.name))
	}

	mode := ""
	if format.prettyable {
		mode = " - Pretty"
		if !sv.isPretty {
			mode = " - Compact"
		}
		keys = append(keys, "p=pretty/compact")
	}
	keys = append(keys, "y=copy")

	sv.titleBar.SetText(fmt.Sprintf("[yellow]Schema [%s%s[] | ESC=close, %s[-]", format.label, mode, strings.Join(keys, ", ")))
}

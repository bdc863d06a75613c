package cmd

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/hangxie/parquet-analyzer/model"
)

// schemaNodeText is the label of one schema field in the tree
func schemaNodeText(field model.SchemaField) string {
	text := fmt.Sprintf("%s: %s (%s)", field.Name, field.TypeStr, field.Repetition)
	if field.PhysicalType != nil {
		text += " → " + *field.PhysicalType
	}
	if field.LogicalType != nil {
		text += " [" + *field.LogicalType + "]"
	}
	return text
}

// buildSchemaTree turns the normalized schema forest into tree nodes under a root
func buildSchemaTree(file string, fields []model.SchemaField) *tview.TreeNode {
	root := tview.NewTreeNode(fmt.Sprintf("%s (%d leaves)", file, model.CountLeaves(fields))).
		SetColor(tcell.ColorYellow).
		SetSelectable(false)
	addSchemaNodes(root, fields)
	return root
}

func addSchemaNodes(parent *tview.TreeNode, fields []model.SchemaField) {
	for _, field := range fields {
		node := tview.NewTreeNode(tview.Escape(schemaNodeText(field))).
			SetReference(field).
			SetSelectable(true)
		if field.IsLeaf() {
			node.SetColor(tcell.ColorWhite)
		} else {
			node.SetColor(tcell.ColorGreen)
			addSchemaNodes(node, field.Children)
		}
		parent.AddChild(node)
	}
}

func (app *TUIApp) showSchemaTree() {
	fields, err := app.httpClient.GetSchema()
	if err != nil {
		app.showError("schema-tree-error", "Error loading schema", err)
		return
	}

	root := buildSchemaTree(app.currentFile, fields)
	tree := tview.NewTreeView().
		SetRoot(root).
		SetCurrentNode(root)
	tree.SetBorder(true).
		SetTitle(" Schema Tree (Enter=expand/collapse) ").
		SetTitleAlign(tview.AlignLeft)

	// Enter folds groups, leaves have nothing to fold
	tree.SetSelectedFunc(func(node *tview.TreeNode) {
		if len(node.GetChildren()) > 0 {
			node.SetExpanded(!node.IsExpanded())
		}
	})

	statusText := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	statusText.SetText(" [yellow]Keys:[-] ESC=back, ↑↓=navigate, Enter=expand/collapse")

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tree, 0, 1, true).
		AddItem(statusText, 1, 0, false)

	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			app.pages.RemovePage("schematree")
			return nil
		}
		return event
	})

	app.pages.AddPage("schematree", flex, true, true)
}

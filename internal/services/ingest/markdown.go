package ingest

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/ternarybob/tally/internal/models"
)

// ExtractMarkdownTables parses every pipe-table in the markdown into a
// Table, in document order.
func ExtractMarkdownTables(markdown string) []models.Table {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	var tbls []models.Table

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if table, ok := n.(*extast.Table); ok {
			tbls = append(tbls, tableFromNode(table, source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return tbls
}

func tableFromNode(table *extast.Table, source []byte) models.Table {
	var result models.Table
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			result.Headers = cellsFromRow(row, source)
		case *extast.TableRow:
			result.Rows = append(result.Rows, cellsFromRow(row, source))
		}
	}
	return result
}

func cellsFromRow(row ast.Node, source []byte) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			cells = append(cells, string(cell.Text(source)))
		}
	}
	return cells
}

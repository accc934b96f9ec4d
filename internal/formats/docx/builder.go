package docx

import (
	"fmt"
	"os"
	"path/filepath"
)

// Builder accumulates content into a Document in append order. The page
// geometry is fixed when the builder is created.
type Builder struct {
	doc Document
}

// NewBuilder returns a builder for a document with the given page geometry.
func NewBuilder(page Page) *Builder {
	return &Builder{doc: Document{Page: page}}
}

// AppendParagraph appends a paragraph with the given alignment and runs.
func (b *Builder) AppendParagraph(align Alignment, runs []Run) {
	b.doc.Nodes = append(b.doc.Nodes, Node{
		Type:  NodeParagraph,
		Text:  RunsText(runs),
		Align: align,
		Runs:  runs,
	})
}

// AppendTable appends a table. rows[i][j] holds the runs of the single
// paragraph of cell (i, j).
func (b *Builder) AppendTable(rows [][][]Run) {
	table := Node{Type: NodeTable, Children: make([]Node, 0, len(rows))}
	for _, row := range rows {
		rowNode := Node{Children: make([]Node, 0, len(row))}
		for _, cell := range row {
			rowNode.Children = append(rowNode.Children, Node{
				Type: NodeParagraph,
				Text: RunsText(cell),
				Runs: cell,
			})
		}
		table.Children = append(table.Children, rowNode)
	}
	b.doc.Nodes = append(b.doc.Nodes, table)
}

// AppendEmptyParagraph appends a paragraph without runs.
func (b *Builder) AppendEmptyParagraph() {
	b.doc.Nodes = append(b.doc.Nodes, Node{Type: NodeParagraph})
}

// Document returns the document built so far.
func (b *Builder) Document() *Document {
	return &b.doc
}

// Bytes renders the document as a .docx archive.
func (b *Builder) Bytes() ([]byte, error) {
	return WriteDocument(&b.doc)
}

// WriteFile renders the document and writes it to path, creating parent
// directories as needed.
func (b *Builder) WriteFile(path string) error {
	data, err := b.Bytes()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create output directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}

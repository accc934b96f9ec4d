package extract

import (
	"strings"

	"github.com/klytics/deckdoc/internal/formats/docx"
)

// BlockKind identifies the kind of a content block.
type BlockKind int

const (
	// BlockParagraph is a paragraph of normalized runs.
	BlockParagraph BlockKind = iota
	// BlockTable is a grid of cells, each holding one paragraph of runs.
	BlockTable
	// BlockSpacer is the empty paragraph written after a table.
	BlockSpacer
)

func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "paragraph"
	case BlockTable:
		return "table"
	case BlockSpacer:
		return "spacer"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k BlockKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Block is one unit of extracted content.
type Block struct {
	Kind  BlockKind      `json:"kind"`
	Align docx.Alignment `json:"align"`
	Title bool           `json:"title,omitempty"`
	Runs  []docx.Run     `json:"runs,omitempty"`
	// Cells is indexed [row][column] and holds each cell's runs.
	Cells [][][]docx.Run `json:"cells,omitempty"`
}

// Text returns the block's plain text. Table cells are separated by tabs
// and rows by newlines.
func (b Block) Text() string {
	switch b.Kind {
	case BlockParagraph:
		return docx.RunsText(b.Runs)
	case BlockTable:
		rows := make([]string, 0, len(b.Cells))
		for _, row := range b.Cells {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				cells = append(cells, docx.RunsText(cell))
			}
			rows = append(rows, strings.Join(cells, "\t"))
		}
		return strings.Join(rows, "\n")
	}
	return ""
}

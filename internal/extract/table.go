package extract

import (
	"fmt"

	"github.com/klytics/deckdoc/internal/formats/docx"
	"github.com/klytics/deckdoc/internal/formats/pptx"
)

// ExtractTable converts a table shape into a table block of the same
// dimensions. The columns come from the table grid. Every paragraph of a
// source cell is appended to the single paragraph of the destination cell,
// all runs normalized as body text. Table text is never filtered.
//
// A shape without a table yields (nil, nil). Cells beyond the grid are
// ignored. A row with fewer cells than the grid stops the copy: the partly
// filled table is returned together with an error wrapping ErrRaggedTable.
func ExtractTable(shape *pptx.Shape, f Format) (*Block, error) {
	if shape == nil || shape.Table == nil {
		return nil, nil
	}
	src := shape.Table

	cols := src.Columns
	if cols == 0 {
		for _, row := range src.Rows {
			if len(row) > cols {
				cols = len(row)
			}
		}
	}

	cells := make([][][]docx.Run, len(src.Rows))
	for i := range cells {
		cells[i] = make([][]docx.Run, cols)
	}
	blk := &Block{Kind: BlockTable, Cells: cells}

	for i, row := range src.Rows {
		for j, cell := range row {
			if j >= cols {
				break
			}
			for _, p := range cell.Paragraphs {
				cells[i][j] = append(cells[i][j], NormalizeRuns(p.Runs, false, f)...)
			}
		}
		if len(row) < cols {
			return blk, fmt.Errorf("row %d has %d cells, grid has %d: %w", i+1, len(row), cols, ErrRaggedTable)
		}
	}
	return blk, nil
}

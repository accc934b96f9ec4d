package render

import (
	"strings"

	"github.com/klytics/deckdoc/internal/formats/docx"
	"github.com/mattn/go-runewidth"
)

// asciiTable renders rows as a bordered grid. Column widths are measured in
// terminal cells, so wide characters and combining marks line up.
func asciiTable(rows [][][]docx.Run) string {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return ""
	}

	cells := make([][][]string, len(rows))
	widths := make([]int, cols)
	heights := make([]int, len(rows))
	for i := range widths {
		widths[i] = 1
	}
	for i, row := range rows {
		cells[i] = make([][]string, cols)
		heights[i] = 1
		for j := 0; j < cols; j++ {
			var text string
			if j < len(row) {
				text = docx.RunsText(row[j])
			}
			lines := strings.Split(text, "\n")
			cells[i][j] = lines
			if len(lines) > heights[i] {
				heights[i] = len(lines)
			}
			for _, line := range lines {
				if w := runewidth.StringWidth(line); w > widths[j] {
					widths[j] = w
				}
			}
		}
	}

	var sb strings.Builder
	border := borderLine(widths)
	sb.WriteString(border)
	for i := range cells {
		for line := 0; line < heights[i]; line++ {
			sb.WriteString("|")
			for j, lines := range cells[i] {
				var text string
				if line < len(lines) {
					text = lines[line]
				}
				sb.WriteString(" ")
				sb.WriteString(runewidth.FillRight(text, widths[j]))
				sb.WriteString(" |")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(border)
	}
	return sb.String()
}

func borderLine(widths []int) string {
	var sb strings.Builder
	sb.WriteString("+")
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteString("+")
	}
	sb.WriteString("\n")
	return sb.String()
}

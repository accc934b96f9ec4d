package pptx

import (
	"fmt"
	"strings"

	"github.com/klytics/deckdoc/internal/markup"
)

// ShapeKind discriminates the shape variants found in a slide's shape tree.
type ShapeKind int

const (
	// ShapeOther covers pictures, connectors, charts, media and anything
	// else that carries no extractable text.
	ShapeOther ShapeKind = iota
	// ShapeText is a shape with a text body (p:sp with p:txBody).
	ShapeText
	// ShapeTable is a graphic frame hosting a DrawingML table.
	ShapeTable
	// ShapeGroup is a container of nested shapes (p:grpSp).
	ShapeGroup
	// ShapeGraphicFrame is a graphic frame without a structured reader,
	// typically a diagram.
	ShapeGraphicFrame
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeText:
		return "text"
	case ShapeTable:
		return "table"
	case ShapeGroup:
		return "group"
	case ShapeGraphicFrame:
		return "graphicFrame"
	default:
		return "other"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ShapeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Run is an atomic span of text with its style attributes. Unset attributes
// stay nil; inheritance from layouts and masters is not resolved.
type Run struct {
	Text      string   `json:"text"`
	Bold      *bool    `json:"bold,omitempty"`
	Italic    *bool    `json:"italic,omitempty"`
	Underline *bool    `json:"underline,omitempty"`
	SizePt    *float64 `json:"sizePt,omitempty"`
}

// Paragraph is an ordered sequence of runs.
type Paragraph struct {
	Runs []Run `json:"runs"`

	// text is the paragraph's full plain text: runs plus field values and
	// line breaks, which are not runs.
	text string
}

// NewParagraph builds a paragraph whose plain text is the concatenation of
// its runs.
func NewParagraph(runs ...Run) Paragraph {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return Paragraph{Runs: runs, text: b.String()}
}

// Text returns the paragraph's plain text.
func (p Paragraph) Text() string {
	if p.text == "" && len(p.Runs) > 0 {
		var b strings.Builder
		for _, r := range p.Runs {
			b.WriteString(r.Text)
		}
		return b.String()
	}
	return p.text
}

// TableCell holds the paragraphs of one table cell.
type TableCell struct {
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Table is a grid of cells. Columns is the grid width; rows may be shorter
// when the source markup is malformed.
type Table struct {
	Columns int           `json:"columns"`
	Rows    [][]TableCell `json:"rows"`
}

// Shape is one node of a slide's shape tree.
type Shape struct {
	Kind ShapeKind `json:"kind"`
	ID   string    `json:"id,omitempty"`
	Name string    `json:"name,omitempty"`

	// Paragraphs is the text body of a ShapeText.
	Paragraphs []Paragraph `json:"paragraphs,omitempty"`
	// Table is set for ShapeTable when the frame actually contains a table.
	Table *Table `json:"table,omitempty"`
	// Children are the members of a ShapeGroup, in document order.
	Children []Shape `json:"children,omitempty"`
	// GraphicURI is the graphicData uri of a graphic frame.
	GraphicURI string `json:"graphicUri,omitempty"`
	// Markup is the raw element of a graphic frame. Diagram data parts
	// referenced by the frame are attached beneath its dgm:relIds element.
	Markup *markup.Node `json:"-"`
}

// Slide represents a single slide's shape tree.
type Slide struct {
	Index  int     `json:"index"`
	Number int     `json:"number"`
	Shapes []Shape `json:"shapes"`
}

// Presentation represents a parsed PowerPoint file.
type Presentation struct {
	Slides []Slide `json:"slides"`
}

// PlainText returns all slide text as plain text, one paragraph per line.
func (p *Presentation) PlainText() string {
	var b strings.Builder
	for _, slide := range p.Slides {
		fmt.Fprintf(&b, "--- Slide %d ---\n", slide.Number)
		for _, s := range slide.Shapes {
			writeShapeText(&b, s)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeShapeText(b *strings.Builder, s Shape) {
	switch s.Kind {
	case ShapeText:
		for _, p := range s.Paragraphs {
			if t := strings.TrimSpace(p.Text()); t != "" {
				b.WriteString(t)
				b.WriteString("\n")
			}
		}
	case ShapeTable:
		if s.Table == nil {
			return
		}
		for _, row := range s.Table.Rows {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				var parts []string
				for _, p := range c.Paragraphs {
					if t := strings.TrimSpace(p.Text()); t != "" {
						parts = append(parts, t)
					}
				}
				cells = append(cells, strings.Join(parts, " "))
			}
			b.WriteString(strings.Join(cells, " | "))
			b.WriteString("\n")
		}
	case ShapeGroup:
		for _, c := range s.Children {
			writeShapeText(b, c)
		}
	}
}

// Package docx provides writing and parsing capabilities for .docx (OOXML) files.
package docx

import (
	"math"
	"strings"
)

// NodeType identifies the kind of content node in a document.
type NodeType int

const (
	// NodeParagraph represents a text paragraph.
	NodeParagraph NodeType = iota
	// NodeTable represents a table with rows and cells.
	NodeTable
)

// Alignment is a paragraph's horizontal alignment.
type Alignment int

const (
	// AlignLeft is the default alignment; no w:jc is written for it.
	AlignLeft Alignment = iota
	// AlignCenter centers the paragraph.
	AlignCenter
)

func (a Alignment) String() string {
	if a == AlignCenter {
		return "center"
	}
	return "left"
}

// MarshalText implements encoding.TextMarshaler.
func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Run represents a contiguous run of text with consistent formatting.
// Bold, Italic and Underline are tri-state: nil leaves the property unset.
type Run struct {
	Text      string  `json:"text"`
	Bold      *bool   `json:"bold,omitempty"`
	Italic    *bool   `json:"italic,omitempty"`
	Underline *bool   `json:"underline,omitempty"`
	Font      string  `json:"font,omitempty"`
	SizePt    float64 `json:"sizePt,omitempty"`
}

// Node represents a single structural element in a document.
type Node struct {
	Type     NodeType  `json:"type"`
	Text     string    `json:"text"`
	Align    Alignment `json:"align,omitempty"`
	Runs     []Run     `json:"runs,omitempty"`     // Individual text runs with formatting
	Children []Node    `json:"children,omitempty"` // For tables: rows containing cells
}

// Page holds the physical page geometry in inches.
type Page struct {
	WidthIn        float64 `json:"widthIn"`
	HeightIn       float64 `json:"heightIn"`
	MarginLeftIn   float64 `json:"marginLeftIn"`
	MarginRightIn  float64 `json:"marginRightIn"`
	MarginTopIn    float64 `json:"marginTopIn"`
	MarginBottomIn float64 `json:"marginBottomIn"`
}

// A4 returns an A4 portrait page with 3 cm left and 2 cm other margins.
func A4() Page {
	return Page{
		WidthIn:        8.27,
		HeightIn:       11.69,
		MarginLeftIn:   1.18,
		MarginRightIn:  0.79,
		MarginTopIn:    0.79,
		MarginBottomIn: 0.79,
	}
}

// Twips converts inches to twentieths of a point.
func Twips(in float64) int {
	return int(math.Round(in * 1440))
}

// TextWidthTwips returns the width between the left and right margins.
func (p Page) TextWidthTwips() int {
	w := Twips(p.WidthIn) - Twips(p.MarginLeftIn) - Twips(p.MarginRightIn)
	if w < 0 {
		return 0
	}
	return w
}

// Document is the top-level representation of a .docx file.
type Document struct {
	Page  Page   `json:"page"`
	Nodes []Node `json:"nodes"`
}

// RunsText concatenates the text of runs.
func RunsText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// PlainText returns the document content as plain text.
func (d *Document) PlainText() string {
	var b strings.Builder
	for _, n := range d.Nodes {
		switch n.Type {
		case NodeParagraph:
			b.WriteString(n.Text)
			b.WriteString("\n")
		case NodeTable:
			for _, row := range n.Children {
				cells := make([]string, 0, len(row.Children))
				for _, cell := range row.Children {
					cells = append(cells, cell.Text)
				}
				b.WriteString("| ")
				b.WriteString(strings.Join(cells, " | "))
				b.WriteString(" |\n")
			}
		}
	}
	return b.String()
}

// Paragraphs returns the text of every non-empty paragraph and table cell.
func (d *Document) Paragraphs() []string {
	var result []string
	for _, n := range d.Nodes {
		switch n.Type {
		case NodeParagraph:
			if n.Text != "" {
				result = append(result, n.Text)
			}
		case NodeTable:
			for _, row := range n.Children {
				for _, cell := range row.Children {
					if cell.Text != "" {
						result = append(result, cell.Text)
					}
				}
			}
		}
	}
	return result
}

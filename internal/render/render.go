// Package render writes extracted content as plain text, Markdown or HTML.
package render

import (
	"strings"

	"github.com/klytics/deckdoc/internal/formats/docx"
)

// Mode selects the text flavor produced by a Text sink.
type Mode int

const (
	// Plain writes one line per paragraph and ASCII-bordered tables.
	Plain Mode = iota
	// Markdown writes title headings, emphasis and pipe tables.
	Markdown
)

// Text is a document sink that renders content as text.
type Text struct {
	mode Mode
	b    strings.Builder
}

// NewText returns an empty text sink.
func NewText(mode Mode) *Text {
	return &Text{mode: mode}
}

// AppendParagraph writes a paragraph. In Markdown, centered paragraphs are
// the slide titles and become level-2 headings.
func (t *Text) AppendParagraph(align docx.Alignment, runs []docx.Run) {
	if t.mode == Plain {
		t.b.WriteString(docx.RunsText(runs))
		t.b.WriteString("\n")
		return
	}
	if align == docx.AlignCenter {
		t.b.WriteString("## ")
		t.b.WriteString(escapeMarkdown(docx.RunsText(runs)))
		t.b.WriteString("\n\n")
		return
	}
	writeRunsMarkdown(&t.b, runs)
	t.b.WriteString("\n\n")
}

// AppendTable writes a table.
func (t *Text) AppendTable(rows [][][]docx.Run) {
	if len(rows) == 0 {
		return
	}
	if t.mode == Plain {
		t.b.WriteString(asciiTable(rows))
		return
	}

	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	for i, row := range rows {
		t.b.WriteString("|")
		for j := 0; j < cols; j++ {
			var text string
			if j < len(row) {
				text = docx.RunsText(row[j])
			}
			t.b.WriteString(" ")
			t.b.WriteString(escapeCell(text))
			t.b.WriteString(" |")
		}
		t.b.WriteString("\n")
		if i == 0 {
			t.b.WriteString("|")
			for j := 0; j < cols; j++ {
				t.b.WriteString(" --- |")
			}
			t.b.WriteString("\n")
		}
	}
	t.b.WriteString("\n")
}

// AppendEmptyParagraph writes a blank line in plain mode. Markdown blocks
// are already separated by blank lines.
func (t *Text) AppendEmptyParagraph() {
	if t.mode == Plain {
		t.b.WriteString("\n")
	}
}

// String returns the rendered text.
func (t *Text) String() string {
	return t.b.String()
}

func writeRunsMarkdown(b *strings.Builder, runs []docx.Run) {
	for _, r := range runs {
		text := escapeMarkdown(r.Text)
		bold := r.Bold != nil && *r.Bold
		italic := r.Italic != nil && *r.Italic
		if strings.TrimSpace(text) == "" {
			b.WriteString(text)
			continue
		}
		switch {
		case bold && italic:
			b.WriteString("***" + text + "***")
		case bold:
			b.WriteString("**" + text + "**")
		case italic:
			b.WriteString("*" + text + "*")
		default:
			b.WriteString(text)
		}
	}
}

// markdownEscaper also entity-encodes markup characters so slide text never
// reaches the HTML export as raw tags.
var markdownEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"#", `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func escapeCell(s string) string {
	s = escapeMarkdown(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

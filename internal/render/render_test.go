package render

import (
	"strings"
	"testing"

	"github.com/klytics/deckdoc/internal/formats/docx"
)

func boolPtr(v bool) *bool { return &v }

func TestPlainText(t *testing.T) {
	s := NewText(Plain)
	s.AppendParagraph(docx.AlignCenter, []docx.Run{{Text: "Title"}})
	s.AppendParagraph(docx.AlignLeft, []docx.Run{{Text: "Body "}, {Text: "text"}})
	s.AppendTable([][][]docx.Run{
		{{{Text: "Tuần"}}, {{Text: "Nội dung"}}},
		{{{Text: "1"}}, {}},
	})
	s.AppendEmptyParagraph()

	want := "Title\n" +
		"Body text\n" +
		"+------+----------+\n" +
		"| Tuần | Nội dung |\n" +
		"+------+----------+\n" +
		"| 1    |          |\n" +
		"+------+----------+\n" +
		"\n"
	if got := s.String(); got != want {
		t.Errorf("plain output mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestASCIITableWideCharacters(t *testing.T) {
	out := asciiTable([][][]docx.Run{{{{Text: "漢字"}}, {{Text: "a"}}}})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "+------+---+" {
		t.Errorf("border = %q", lines[0])
	}
	if lines[1] != "| 漢字 | a |" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestMarkdown(t *testing.T) {
	s := NewText(Markdown)
	s.AppendParagraph(docx.AlignCenter, []docx.Run{{Text: "Bài 1"}})
	s.AppendParagraph(docx.AlignLeft, []docx.Run{
		{Text: "Normal "},
		{Text: "bold", Bold: boolPtr(true)},
		{Text: " and "},
		{Text: "off", Bold: boolPtr(false)},
		{Text: " ", Italic: boolPtr(true)},
		{Text: "slanted", Italic: boolPtr(true)},
	})
	s.AppendTable([][][]docx.Run{
		{{{Text: "a|b"}}, {{Text: "c"}}},
		{{{Text: "d"}}, {{Text: "e"}}},
	})
	s.AppendEmptyParagraph()

	md := s.String()
	for _, want := range []string{
		"## Bài 1\n\n",
		"Normal **bold** and off *slanted*\n\n",
		"| a\\|b | c |\n| --- | --- |\n| d | e |\n",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q in:\n%s", want, md)
		}
	}
}

func TestMarkdownEscapes(t *testing.T) {
	s := NewText(Markdown)
	s.AppendParagraph(docx.AlignLeft, []docx.Run{{Text: "a*b_c #1"}})
	if got := s.String(); got != "a\\*b\\_c \\#1\n\n" {
		t.Errorf("escaped = %q", got)
	}
}

func TestHTML(t *testing.T) {
	s := NewText(Markdown)
	s.AppendParagraph(docx.AlignCenter, []docx.Run{{Text: "Heading"}})
	s.AppendParagraph(docx.AlignLeft, []docx.Run{{Text: "strong", Bold: boolPtr(true)}})
	s.AppendTable([][][]docx.Run{{{{Text: "h"}}}, {{{Text: "v"}}}})

	page := HTML("deck <1>", s.String())
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>deck &lt;1&gt;</title>",
		"<h2>Heading</h2>",
		"<strong>strong</strong>",
		"<table>",
		"<td>v</td>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestHTMLEscapesSlideMarkup(t *testing.T) {
	s := NewText(Markdown)
	s.AppendParagraph(docx.AlignCenter, []docx.Run{{Text: "<b>Title</b>"}})
	s.AppendParagraph(docx.AlignLeft, []docx.Run{{Text: "Use <script>alert(1)</script> & <img src=x onerror=alert(2)>"}})
	s.AppendTable([][][]docx.Run{{{{Text: "<i>cell</i>"}}}, {{{Text: "x"}}}})

	page := HTML("deck", s.String())
	for _, bad := range []string{"<script>", "<img", "<b>Title", "<i>cell"} {
		if strings.Contains(page, bad) {
			t.Errorf("raw markup %q leaked into:\n%s", bad, page)
		}
	}
	for _, want := range []string{"lt;script", "&amp;", "lt;b", "Title"} {
		if !strings.Contains(page, want) {
			t.Errorf("HTML missing %q in:\n%s", want, page)
		}
	}
}

func TestMarkdownEscapesMarkup(t *testing.T) {
	s := NewText(Markdown)
	s.AppendParagraph(docx.AlignLeft, []docx.Run{{Text: "a < b & c > d"}})
	if got := s.String(); got != "a &lt; b &amp; c &gt; d\n\n" {
		t.Errorf("escaped = %q", got)
	}
}

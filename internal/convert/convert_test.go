package convert

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klytics/deckdoc/internal/extract"
	"github.com/klytics/deckdoc/internal/formats/docx"
	"github.com/klytics/deckdoc/internal/formats/pptx"
	"github.com/klytics/deckdoc/internal/formats/pptx/pptxtest"
	"github.com/klytics/deckdoc/internal/formats/xlsx"
)

// lessonDeck is a three-slide deck covering headers, titles, tables and diagrams.
func lessonDeck() pptxtest.Deck {
	return pptxtest.Deck{
		Slides: []string{
			pptxtest.Text(2, "Tuần 1", "Tiết 2") +
				pptxtest.TextShape(3, pptxtest.Para(pptxtest.Run("Bài 1: Giới thiệu", `sz="3600" b="1"`))),
			pptxtest.Text(2, "Tuần 1") +
				pptxtest.TableFrame(3, 2, []string{"Mục", "Nội dung"}, []string{"1", "Khái niệm\nVí dụ"}) +
				pptxtest.Group(4, pptxtest.Group(5, pptxtest.Text(6, "Nested"))),
			pptxtest.DiagramFrame(2, "rId9"),
		},
		SlideRels: map[int]string{2: pptxtest.DiagramRel("rId9", "../diagrams/data1.xml")},
		Parts:     map[string]string{"ppt/diagrams/data1.xml": pptxtest.DiagramData("Plan", "Review?")},
	}
}

type recordingSink struct {
	ops []string
}

func (s *recordingSink) AppendParagraph(align docx.Alignment, runs []docx.Run) {
	s.ops = append(s.ops, "p:"+align.String()+":"+docx.RunsText(runs))
}

func (s *recordingSink) AppendTable(rows [][][]docx.Run) {
	s.ops = append(s.ops, "table")
}

func (s *recordingSink) AppendEmptyParagraph() {
	s.ops = append(s.ops, "empty")
}

func TestAssembleOrder(t *testing.T) {
	data, err := lessonDeck().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	pres, err := pptx.Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	c := New(DefaultOptions())
	sink := &recordingSink{}
	report, err := c.assembler.Assemble(context.Background(), pres, sink)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"p:center:Bài 1: Giới thiệu",
		"p:left:Tuần 1",
		"table",
		"empty",
		"p:left:Nested",
		"p:left:Plan.",
		"p:left:Review?",
	}
	if strings.Join(sink.ops, "\n") != strings.Join(want, "\n") {
		t.Errorf("ops:\n%s\nwant:\n%s", strings.Join(sink.ops, "\n"), strings.Join(want, "\n"))
	}
	if report.Slides != 3 || report.Tables != 1 || report.Paragraphs != 5 {
		t.Errorf("report = %+v", report)
	}
}

func TestAssembleCancelled(t *testing.T) {
	data, err := lessonDeck().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	pres, err := pptx.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	_, err = New(DefaultOptions()).assembler.Assemble(ctx, pres, sink)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(sink.ops) != 0 {
		t.Errorf("nothing should be appended after cancel, got %v", sink.ops)
	}
}

func TestConvertFileDocx(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "lesson.pptx")
	pptxtest.WriteFile(t, in, lessonDeck())
	out := filepath.Join(dir, "out", "lesson.docx")

	report, err := New(DefaultOptions()).ConvertFile(context.Background(), in, out, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", report.Warnings)
	}

	doc, err := docx.ParseFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Nodes[0].Align != docx.AlignCenter || doc.Nodes[0].Runs[0].SizePt != 14 {
		t.Errorf("title node = %+v", doc.Nodes[0])
	}
	if doc.Nodes[0].Runs[0].Font != "Times New Roman" {
		t.Errorf("font = %q", doc.Nodes[0].Runs[0].Font)
	}
	var table *docx.Node
	for i := range doc.Nodes {
		if doc.Nodes[i].Type == docx.NodeTable {
			table = &doc.Nodes[i]
			break
		}
	}
	if table == nil {
		t.Fatal("no table in output")
	}
	if got := table.Children[1].Children[1].Text; got != "Khái niệmVí dụ" {
		t.Errorf("flattened cell = %q", got)
	}
	if doc.Page.MarginLeftIn < 1.17 || doc.Page.MarginLeftIn > 1.19 {
		t.Errorf("left margin = %v", doc.Page.MarginLeftIn)
	}
}

func TestConvertFileTextFormats(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "lesson.pptx")
	pptxtest.WriteFile(t, in, lessonDeck())
	c := New(DefaultOptions())

	tests := []struct {
		to   string
		want []string
	}{
		{FormatText, []string{"Bài 1: Giới thiệu\n", "| Mục | Nội dung", "Plan.\n"}},
		{FormatMD, []string{"## Bài 1: Giới thiệu", "| Mục | Nội dung |", "Review?"}},
		{FormatHTML, []string{"<title>lesson</title>", "<h2>Bài 1: Giới thiệu</h2>", "<table>"}},
	}
	for _, tt := range tests {
		t.Run(tt.to, func(t *testing.T) {
			out := OutputPath(in, dir, tt.to)
			if _, err := c.ConvertFile(context.Background(), in, out, tt.to); err != nil {
				t.Fatal(err)
			}
			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(string(data), w) {
					t.Errorf("%s output missing %q:\n%s", tt.to, w, data)
				}
			}
		})
	}
}

func TestConvertFileXLSX(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "lesson.pptx")
	pptxtest.WriteFile(t, in, lessonDeck())
	out := filepath.Join(dir, "lesson.xlsx")

	if _, err := New(DefaultOptions()).ConvertFile(context.Background(), in, out, FormatXLSX); err != nil {
		t.Fatal(err)
	}
	wb, err := xlsx.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(wb.Sheets) != 1 || wb.Sheets[0].Rows[0][1] != "Nội dung" {
		t.Errorf("workbook = %+v", wb.Sheets)
	}
}

func TestConvertFileErrors(t *testing.T) {
	dir := t.TempDir()
	c := New(DefaultOptions())

	legacy := filepath.Join(dir, "old.ppt")
	if err := os.WriteFile(legacy, []byte("binary"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ConvertFile(context.Background(), legacy, filepath.Join(dir, "old.docx"), FormatDocx); !errors.Is(err, ErrLegacyFormat) {
		t.Errorf("expected ErrLegacyFormat, got %v", err)
	}

	if _, err := c.ConvertFile(context.Background(), "in.pptx", "out.pdf", ""); err == nil || !strings.Contains(err.Error(), "unsupported output format") {
		t.Errorf("expected unsupported format error, got %v", err)
	}

	if _, err := c.ConvertFile(context.Background(), filepath.Join(dir, "missing.pptx"), filepath.Join(dir, "m.docx"), FormatDocx); err == nil || !strings.Contains(err.Error(), "file not found") {
		t.Errorf("expected file not found, got %v", err)
	}
}

func TestConvertLogsShapeWarnings(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ragged.pptx")
	ragged := `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="3" name="Ragged"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr><p:xfrm/>` +
		`<a:graphic><a:graphicData uri="` + pptx.TableURI + `"><a:tbl><a:tblGrid><a:gridCol w="1"/><a:gridCol w="1"/></a:tblGrid>` +
		`<a:tr h="1"><a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>x</a:t></a:r></a:p></a:txBody></a:tc></a:tr></a:tbl></a:graphicData></a:graphic></p:graphicFrame>`
	pptxtest.WriteFile(t, in, pptxtest.Deck{Slides: []string{ragged + pptxtest.Text(4, "after")}})

	var logs bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = log.New(&logs, "", 0)
	report, err := New(opts).ConvertFile(context.Background(), in, filepath.Join(dir, "ragged.txt"), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "Ragged") {
		t.Errorf("warnings = %v", report.Warnings)
	}
	if !strings.Contains(logs.String(), "Ragged") {
		t.Errorf("warning not logged: %q", logs.String())
	}
	text, _ := os.ReadFile(filepath.Join(dir, "ragged.txt"))
	if !strings.Contains(string(text), "after") {
		t.Errorf("sibling after failing table missing: %q", text)
	}
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "lesson.pptx")
	pptxtest.WriteFile(t, in, lessonDeck())

	slides, errs, err := New(DefaultOptions()).Extract(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if len(slides) != 3 || len(errs) != 0 {
		t.Fatalf("slides=%d errs=%v", len(slides), errs)
	}
	if slides[1][1].Kind != extract.BlockTable {
		t.Errorf("slide 2 block 2 = %v", slides[1][1].Kind)
	}
}

func TestDetectFormatAndOutputPath(t *testing.T) {
	tests := map[string]string{
		"a.docx": FormatDocx, "a.TXT": FormatText, "a.md": FormatMD, "a.markdown": FormatMD,
		"a.htm": FormatHTML, "a.xlsx": FormatXLSX, "a.pdf": "",
	}
	for path, want := range tests {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %q, want %q", path, got, want)
		}
	}
	if got := OutputPath(filepath.Join("inputs", "Bài 1.pptx"), "outputs", "docx"); got != filepath.Join("outputs", "Bài 1.docx") {
		t.Errorf("OutputPath = %q", got)
	}
}

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"github.com/klytics/deckdoc/internal/formats/docx"
	"github.com/klytics/deckdoc/internal/formats/pptx/pptxtest"
	"github.com/klytics/deckdoc/internal/output"
)

func init() {
	color.NoColor = true
}

// execute runs the CLI with args in an isolated home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DECKDOC_JSON", "")
	t.Setenv("DECKDOC_NO_PROGRESS", "1")
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func sampleDeck(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	pptxtest.WriteFile(t, path, pptxtest.Deck{Slides: []string{
		pptxtest.TextShape(2, pptxtest.Para(pptxtest.Run("Lesson title", `sz="3600"`))) +
			pptxtest.Text(3, "Body text"),
		pptxtest.TableFrame(2, 2, []string{"A", "B"}, []string{"1", "2"}),
	}})
	return path
}

func TestRootListsCommands(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"convert", "batch", "inspect", "watch", "config", "history", "doctor", "completion", "version"} {
		if !strings.Contains(out, name) {
			t.Errorf("command %q missing from help", name)
		}
	}
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := sampleDeck(t, dir, "lesson.pptx")

	out, err := execute(t, "convert", in)
	if err != nil {
		t.Fatalf("convert failed: %v\n%s", err, out)
	}
	docPath := filepath.Join(dir, "lesson.docx")
	doc, err := docx.ParseFile(docPath)
	if err != nil {
		t.Fatal(err)
	}
	text := doc.PlainText()
	for _, want := range []string{"Lesson title", "Body text", "A"} {
		if !strings.Contains(text, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if !strings.Contains(out, "Converted:") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestConvertCommandJSON(t *testing.T) {
	dir := t.TempDir()
	in := sampleDeck(t, dir, "lesson.pptx")
	target := filepath.Join(dir, "out", "lesson.md")

	out, err := execute(t, "convert", in, "-o", target, "--json")
	if err != nil {
		t.Fatalf("convert failed: %v\n%s", err, out)
	}
	r, err := output.Decode([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if !r.OK || r.Command != "convert" {
		t.Errorf("result = %+v", r)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "## Lesson title") {
		t.Errorf("markdown = %q", data)
	}
}

func TestConvertMissingFile(t *testing.T) {
	if _, err := execute(t, "convert", filepath.Join(t.TempDir(), "nope.pptx")); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestBatchCommand(t *testing.T) {
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "docs")
	sampleDeck(t, in, "a.pptx")
	os.WriteFile(filepath.Join(in, "broken.pptx"), []byte("nope"), 0644)

	out, err := execute(t, "batch", "--in", in, "--out", outDir)
	if err != nil {
		t.Fatalf("batch failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Processed 2 files. 1 succeeded, 1 failed.") {
		t.Errorf("summary missing in:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "a.docx")); err != nil {
		t.Errorf("a.docx not written: %v", err)
	}
}

func TestInspectJSON(t *testing.T) {
	in := sampleDeck(t, t.TempDir(), "lesson.pptx")
	out, err := execute(t, "inspect", in, "--json")
	if err != nil {
		t.Fatalf("inspect failed: %v\n%s", err, out)
	}
	for _, want := range []string{`"kind": "paragraph"`, `"kind": "table"`, `"title": true`} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %s", want)
		}
	}
}

func TestInspectPretty(t *testing.T) {
	in := sampleDeck(t, t.TempDir(), "lesson.pptx")
	out, err := execute(t, "inspect", in, "--no-pager")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Slide 2") || !strings.Contains(out, "--- 2 slides, 2 paragraphs, 1 tables ---") {
		t.Errorf("unexpected inspect output:\n%s", out)
	}
}

func TestConfigShowAndPath(t *testing.T) {
	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "font_family: Times New Roman") {
		t.Errorf("config show output:\n%s", out)
	}

	out, err = execute(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, filepath.Join(".deckdoc", "config.yaml")) {
		t.Errorf("config path = %q", out)
	}
}

func TestConfigInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deckdoc.yaml")
	if _, err := execute(t, "config", "init", "--config", path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not written: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "deckdoc ") {
		t.Errorf("version output = %q", out)
	}
}

func TestDoctorJSON(t *testing.T) {
	out, err := execute(t, "doctor", "--json")
	if err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"Self Test"`) || !strings.Contains(out, "converted a sample deck") {
		t.Errorf("doctor output:\n%s", out)
	}
}

func TestConvertRecordsHistory(t *testing.T) {
	home := t.TempDir()
	in := sampleDeck(t, t.TempDir(), "lesson.pptx")

	run := func(args ...string) string {
		t.Helper()
		viper.Reset()
		root := NewRootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v\n%s", args, err, out.String())
		}
		return out.String()
	}
	t.Setenv("HOME", home)
	t.Setenv("DECKDOC_JSON", "")
	t.Cleanup(viper.Reset)

	run("convert", in)
	out := run("history")
	if !strings.Contains(out, "convert") || !strings.Contains(out, "docx") {
		t.Errorf("history output:\n%s", out)
	}

	run("history", "clear")
	if out := run("history"); !strings.Contains(out, "No conversions recorded") {
		t.Errorf("history after clear:\n%s", out)
	}
}

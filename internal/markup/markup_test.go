package markup

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<p:graphicFrame xmlns:p="urn:p" xmlns:a="urn:a" xmlns:x="urn:x">
  <p:nvGraphicFramePr><p:cNvPr id="4" name="Diagram 3"/></p:nvGraphicFramePr>
  <a:graphic>
    <a:graphicData uri="urn:diagram">
      <a:p><a:r><a:t>First</a:t></a:r></a:p>
      <x:t>Second</x:t>
      <a:p><a:r><a:t> </a:t></a:r></a:p>
    </a:graphicData>
  </a:graphic>
</p:graphicFrame>`

func TestParseBuildsTree(t *testing.T) {
	root, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if root.Local() != "graphicFrame" {
		t.Fatalf("root = %q", root.Local())
	}
	if root.Name.Space != "urn:p" {
		t.Errorf("namespace = %q, want resolved URI", root.Name.Space)
	}

	cNvPr := root.Path("nvGraphicFramePr", "cNvPr")
	if cNvPr == nil {
		t.Fatal("cNvPr not found")
	}
	if name, _ := cNvPr.AttrValue("name"); name != "Diagram 3" {
		t.Errorf("name = %q", name)
	}

	data := root.Find("graphicData")
	if data == nil {
		t.Fatal("graphicData not found")
	}
	if uri, ok := data.AttrValue("uri"); !ok || uri != "urn:diagram" {
		t.Errorf("uri = %q", uri)
	}
	if got := len(data.ChildrenNamed("p")); got != 2 {
		t.Errorf("expected 2 paragraphs, got %d", got)
	}
}

func TestWalkDocumentOrderAndTextRuns(t *testing.T) {
	root, err := ParseBytes([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	var texts []string
	err = Walk(root, func(n *Node) error {
		if IsTextRun(n) {
			texts = append(texts, n.Text)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"First", "Second", " "}
	if len(texts) != len(want) {
		t.Fatalf("texts = %q, want %q", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("texts[%d] = %q, want %q", i, texts[i], want[i])
		}
	}
}

func TestWalkSkipChildren(t *testing.T) {
	root, _ := ParseBytes([]byte(sample))
	count := 0
	_ = Walk(root, func(n *Node) error {
		if n.Local() == "graphic" {
			return SkipChildren
		}
		if IsTextRun(n) {
			count++
		}
		return nil
	})
	if count != 0 {
		t.Errorf("expected skipped subtree, found %d text runs", count)
	}
}

func TestWalkStopsOnError(t *testing.T) {
	root, _ := ParseBytes([]byte(sample))
	boom := errors.New("boom")
	visited := 0
	err := Walk(root, func(n *Node) error {
		visited++
		if n.Local() == "cNvPr" {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if visited != 3 {
		t.Errorf("visited = %d, want 3", visited)
	}
}

func TestWalkDeepTree(t *testing.T) {
	root := &Node{}
	cur := root
	for i := 0; i < 100000; i++ {
		next := &Node{}
		cur.Children = append(cur.Children, next)
		cur = next
	}
	cur.Children = append(cur.Children, &Node{Text: "leaf"})
	cur.Children[0].Name.Local = "t"

	var found string
	_ = Walk(root, func(n *Node) error {
		if IsTextRun(n) {
			found = n.Text
		}
		return nil
	})
	if found != "leaf" {
		t.Errorf("found = %q", found)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"truncated", "<a><b></b>"},
		{"malformed", "<a><b></a>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBytes([]byte(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIsTextRun(t *testing.T) {
	if IsTextRun(nil) {
		t.Error("nil is not a text run")
	}
	if !IsTextRun(&Node{Text: "x", Name: xml.Name{Space: "urn:any", Local: "t"}}) {
		t.Error("t in any namespace is a text run")
	}
	if IsTextRun(&Node{Name: xml.Name{Space: "urn:a", Local: "tx"}}) {
		t.Error("tx is not a text run")
	}
}

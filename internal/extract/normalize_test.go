package extract

import (
	"reflect"
	"testing"

	"github.com/klytics/deckdoc/internal/formats/pptx"
)

func boolPtr(v bool) *bool       { return &v }
func sizePtr(v float64) *float64 { return &v }

func TestNormalizeRun(t *testing.T) {
	f := DefaultFormat()
	src := pptx.Run{Text: " Hello ", Bold: boolPtr(true), Italic: boolPtr(false), SizePt: sizePtr(40)}

	tests := []struct {
		name  string
		title bool
		size  float64
	}{
		{"title", true, 14},
		{"body", false, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRun(src, tt.title, f)
			if got.Text != " Hello " {
				t.Errorf("text = %q, want it unchanged", got.Text)
			}
			if got.Font != "Times New Roman" {
				t.Errorf("font = %q", got.Font)
			}
			if got.SizePt != tt.size {
				t.Errorf("size = %v, want %v", got.SizePt, tt.size)
			}
			if got.Bold == nil || !*got.Bold {
				t.Error("bold not copied")
			}
			if got.Italic == nil || *got.Italic {
				t.Error("explicit italic=false not copied")
			}
			if got.Underline != nil {
				t.Error("unset underline must stay unset")
			}
		})
	}
}

func TestNormalizeRunIsPure(t *testing.T) {
	f := DefaultFormat()
	src := pptx.Run{Text: "x", Underline: boolPtr(true)}

	a := NormalizeRun(src, false, f)
	b := NormalizeRun(src, false, f)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("normalizing twice differs: %+v vs %+v", a, b)
	}

	*a.Underline = false
	if !*src.Underline || !*b.Underline {
		t.Error("normalized runs must not share attribute storage with the source")
	}
}

func TestNormalizeRunCustomFormat(t *testing.T) {
	f := Format{FontFamily: "Arial", TitleSize: 20, BodySize: 10}
	got := NormalizeRun(pptx.Run{Text: "x"}, true, f)
	if got.Font != "Arial" || got.SizePt != 20 {
		t.Errorf("got %+v", got)
	}
}

func TestIsTitle(t *testing.T) {
	tests := []struct {
		name string
		runs []pptx.Run
		want bool
	}{
		{"no runs", nil, false},
		{"no sizes", []pptx.Run{{Text: "a"}}, false},
		{"below threshold", []pptx.Run{{Text: "a", SizePt: sizePtr(27.99)}}, false},
		{"at threshold", []pptx.Run{{Text: "a", SizePt: sizePtr(28)}}, true},
		{"any run", []pptx.Run{{Text: "a", SizePt: sizePtr(12)}, {Text: "b", SizePt: sizePtr(44)}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTitle(pptx.NewParagraph(tt.runs...), 28); got != tt.want {
				t.Errorf("IsTitle = %v, want %v", got, tt.want)
			}
		})
	}
}

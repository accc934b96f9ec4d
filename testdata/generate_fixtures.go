//go:build ignore

// This program generates test fixture files for deckdoc.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/klytics/deckdoc/internal/convert"
	"github.com/klytics/deckdoc/internal/formats/pptx/pptxtest"
)

func main() {
	if err := generatePptx(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating sample.pptx: %v\n", err)
		os.Exit(1)
	}

	if err := generateDocx(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating sample.docx: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Test fixtures generated successfully.")
}

func generatePptx() error {
	deck := pptxtest.Deck{
		Slides: []string{
			pptxtest.Text(2, "Tuần 3", "Tiết 7") +
				pptxtest.TextShape(3, pptxtest.Para(pptxtest.Run("Bài 4: Hệ sinh thái", `sz="4000" b="1"`))) +
				pptxtest.Text(4, "Mục tiêu bài học"),
			pptxtest.TextShape(2, pptxtest.Para(pptxtest.Run("Thành phần", `sz="3200" b="1"`))) +
				pptxtest.TableFrame(3, 2,
					[]string{"Thành phần", "Ví dụ"},
					[]string{"Sinh vật sản xuất", "Cây xanh\nTảo"},
					[]string{"Sinh vật tiêu thụ", "Động vật"}),
			pptxtest.Group(2,
				pptxtest.Text(3, "Chuỗi thức ăn"),
				pptxtest.Group(4, pptxtest.Text(5, "Cỏ → Thỏ → Cáo"))) +
				pptxtest.Picture(6),
			pptxtest.DiagramFrame(2, "rId9"),
		},
		SlideRels: map[int]string{3: pptxtest.DiagramRel("rId9", "../diagrams/data1.xml")},
		Parts: map[string]string{
			"ppt/diagrams/data1.xml": pptxtest.DiagramData("Quan sát", "Ghi chép", "Thảo luận?"),
		},
	}

	data, err := deck.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile("testdata/sample.pptx", data, 0644)
}

func generateDocx() error {
	c := convert.New(convert.DefaultOptions())
	_, err := c.ConvertFile(context.Background(), "testdata/sample.pptx", "testdata/sample.docx", convert.FormatDocx)
	return err
}

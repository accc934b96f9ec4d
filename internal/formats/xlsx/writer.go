package xlsx

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klytics/deckdoc/internal/formats/docx"
	"github.com/xuri/excelize/v2"
)

// TableBook is a document sink that keeps only tables, one sheet per table.
// Paragraphs are dropped.
type TableBook struct {
	wb Workbook
}

// NewTableBook returns an empty table book.
func NewTableBook() *TableBook {
	return &TableBook{}
}

// AppendParagraph is a no-op; workbooks only carry tables.
func (t *TableBook) AppendParagraph(docx.Alignment, []docx.Run) {}

// AppendEmptyParagraph is a no-op.
func (t *TableBook) AppendEmptyParagraph() {}

// AppendTable adds a sheet named "Table N" holding the cell texts.
func (t *TableBook) AppendTable(rows [][][]docx.Run) {
	sheet := Sheet{
		Name: SheetName(len(t.wb.Sheets) + 1),
		Rows: make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, docx.RunsText(cell))
		}
		sheet.Rows = append(sheet.Rows, cells)
	}
	t.wb.Sheets = append(t.wb.Sheets, sheet)
}

// Workbook returns the tables collected so far.
func (t *TableBook) Workbook() *Workbook {
	return &t.wb
}

// WriteFile saves the collected tables to path, creating parent directories.
func (t *TableBook) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create output directory for %s: %w", path, err)
	}
	return WriteFile(&t.wb, path)
}

// Bytes renders the collected tables as an .xlsx archive.
func (t *TableBook) Bytes() ([]byte, error) {
	f, err := build(&t.wb)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("could not render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile creates a new .xlsx file from the given workbook data. The first
// row of each sheet is the header row and is written in bold. A workbook
// without sheets is saved with a single empty sheet.
func WriteFile(wb *Workbook, path string) error {
	f, err := build(wb)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}

func build(wb *Workbook) (*excelize.File, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not create header style: %w", err)
	}

	for i, sheet := range wb.Sheets {
		sheetName := sheet.Name
		if sheetName == "" {
			sheetName = fmt.Sprintf("Sheet%d", i+1)
		}

		if i == 0 {
			// Rename default sheet
			defaultSheet := f.GetSheetName(0)
			if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
				f.Close()
				return nil, fmt.Errorf("could not rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheetName); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not create sheet %q: %w", sheetName, err)
		}

		for rowIdx, row := range sheet.Rows {
			cellName, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("invalid cell coordinates: %w", err)
			}
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := f.SetSheetRow(sheetName, cellName, &values); err != nil {
				f.Close()
				return nil, fmt.Errorf("could not write row %d of %q: %w", rowIdx+1, sheetName, err)
			}
		}

		if len(sheet.Rows) > 0 && len(sheet.Rows[0]) > 0 {
			last, err := excelize.CoordinatesToCellName(len(sheet.Rows[0]), 1)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("invalid cell coordinates: %w", err)
			}
			if err := f.SetCellStyle(sheetName, "A1", last, header); err != nil {
				f.Close()
				return nil, fmt.Errorf("could not style header of %q: %w", sheetName, err)
			}
		}
	}
	return f, nil
}

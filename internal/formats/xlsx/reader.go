// Package xlsx exports extracted tables to .xlsx workbooks and reads them back.
package xlsx

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// Sheet holds the cell texts of one exported table.
type Sheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// Workbook holds the exported tables in slide order.
type Workbook struct {
	Sheets []Sheet `json:"sheets"`
}

// SheetName returns the sheet name of the n-th exported table (1-based).
func SheetName(n int) string {
	return fmt.Sprintf("Table %d", n)
}

// ReadFile reads an exported workbook from disk.
func ReadFile(path string) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	wb, err := ReadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return wb, nil
}

// ReadBytes reads an exported workbook from memory. Trailing empty cells of
// a row are not reported.
func ReadBytes(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not a valid .xlsx workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}

// Table returns the sheet of the n-th exported table (1-based).
func (wb *Workbook) Table(n int) (*Sheet, error) {
	name := SheetName(n)
	for i := range wb.Sheets {
		if wb.Sheets[i].Name == name {
			return &wb.Sheets[i], nil
		}
	}
	return nil, fmt.Errorf("workbook has %d table(s), no %q", len(wb.Sheets), name)
}

// Cell returns the text at row i, column j of the sheet, or "" when the
// cell is outside the stored rows.
func (s *Sheet) Cell(i, j int) string {
	if i < 0 || i >= len(s.Rows) || j < 0 || j >= len(s.Rows[i]) {
		return ""
	}
	return s.Rows[i][j]
}

// internal/output/excel.go
package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/BiDiConformer/pkg/types"
)

const excelSheet = "Results"

// ExcelWriter writes results as an XLSX workbook
type ExcelWriter struct {
	filename string
	book     *excelize.File
}

// NewExcelWriter creates a new Excel writer
func NewExcelWriter(filename string) (*ExcelWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("excel output requires a filename")
	}

	book := excelize.NewFile()
	if err := book.SetSheetName("Sheet1", excelSheet); err != nil {
		book.Close()
		return nil, fmt.Errorf("failed to prepare workbook: %w", err)
	}

	return &ExcelWriter{
		filename: filename,
		book:     book,
	}, nil
}

// Write writes a header row followed by one row per result
func (w *ExcelWriter) Write(results []types.CheckResult) error {
	for col, name := range resultColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := w.book.SetCellValue(excelSheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for i, result := range results {
		for col, value := range resultRow(result) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to address result cell: %w", err)
			}
			if err := w.book.SetCellValue(excelSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write result cell: %w", err)
			}
		}
	}

	if err := w.book.SaveAs(w.filename); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

// Close closes the workbook
func (w *ExcelWriter) Close() error {
	if w.book != nil {
		err := w.book.Close()
		w.book = nil
		return err
	}
	return nil
}

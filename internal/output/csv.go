// internal/output/csv.go
package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/valpere/BiDiConformer/pkg/types"
)

// CSVWriter writes results in CSV format
type CSVWriter struct {
	filename string
	file     *os.File
	writer   *csv.Writer
}

// NewCSVWriter creates a new CSV writer
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("csv output requires a filename")
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return &CSVWriter{
		filename: filename,
		file:     file,
		writer:   csv.NewWriter(file),
	}, nil
}

// Write writes results with a header row
func (w *CSVWriter) Write(results []types.CheckResult) error {
	if err := w.writer.Write(resultColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, result := range results {
		if err := w.writer.Write(resultRow(result)); err != nil {
			return fmt.Errorf("failed to write result row: %w", err)
		}
	}

	w.writer.Flush()
	return w.writer.Error()
}

// Close closes the CSV writer
func (w *CSVWriter) Close() error {
	if w.writer != nil {
		w.writer.Flush()
	}
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}

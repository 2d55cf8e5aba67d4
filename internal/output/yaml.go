// internal/output/yaml.go
package output

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/valpere/BiDiConformer/pkg/types"
)

// YAMLWriter writes results in YAML format
type YAMLWriter struct {
	filename string
	file     *os.File
}

// NewYAMLWriter creates a new YAML writer
func NewYAMLWriter(filename string) (*YAMLWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("yaml output requires a filename")
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return &YAMLWriter{
		filename: filename,
		file:     file,
	}, nil
}

// Write writes results to the YAML file
func (w *YAMLWriter) Write(results []types.CheckResult) error {
	encoder := yaml.NewEncoder(w.file)
	defer encoder.Close()
	return encoder.Encode(results)
}

// Close closes the YAML writer
func (w *YAMLWriter) Close() error {
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}

// internal/output/manager.go
package output

import (
	"fmt"

	"github.com/valpere/BiDiConformer/internal/config"
	"github.com/valpere/BiDiConformer/pkg/types"
)

// Manager manages different result output formats
type Manager struct {
	format   Format
	file     string
	database *DatabaseOptions
}

// NewManager creates a new output manager
func NewManager(cfg *config.OutputConfig) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("output configuration is required")
	}

	m := &Manager{
		format: Format(cfg.Format),
		file:   cfg.File,
	}

	if cfg.Database != nil {
		m.database = &DatabaseOptions{
			DSN:      cfg.Database.DSN,
			Database: cfg.Database.Database,
			Table:    cfg.Database.Table,
		}
	}

	return m, nil
}

// GetWriter returns the appropriate writer for the configured format
func (m *Manager) GetWriter() (Writer, error) {
	switch m.format {
	case FormatJSON:
		return NewJSONWriter(m.file)
	case FormatCSV:
		return NewCSVWriter(m.file)
	case FormatYAML:
		return NewYAMLWriter(m.file)
	case FormatExcel:
		return NewExcelWriter(m.file)
	case FormatSQLite:
		return NewSQLiteWriter(m.databaseOptions())
	case FormatPostgreSQL:
		return NewPostgreSQLWriter(m.databaseOptions())
	case FormatMySQL:
		return NewMySQLWriter(m.databaseOptions())
	case FormatMongoDB:
		return NewMongoDBWriter(m.databaseOptions())
	default:
		return nil, fmt.Errorf("unsupported output format: %s", m.format)
	}
}

// WriteResults writes conformance results using the configured format
func (m *Manager) WriteResults(results []types.CheckResult) error {
	writer, err := m.GetWriter()
	if err != nil {
		return fmt.Errorf("failed to get writer: %w", err)
	}
	defer writer.Close()

	return writer.Write(results)
}

func (m *Manager) databaseOptions() DatabaseOptions {
	if m.database == nil {
		return DatabaseOptions{}
	}
	return *m.database
}

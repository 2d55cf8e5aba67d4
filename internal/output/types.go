// internal/output/types.go
package output

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/valpere/BiDiConformer/pkg/types"
)

// Format represents supported result output formats
type Format string

const (
	FormatJSON       Format = "json"
	FormatCSV        Format = "csv"
	FormatYAML       Format = "yaml"
	FormatExcel      Format = "excel"
	FormatSQLite     Format = "sqlite"
	FormatPostgreSQL Format = "postgresql"
	FormatMySQL      Format = "mysql"
	FormatMongoDB    Format = "mongodb"
)

// ValidFormats returns all valid output format values
func ValidFormats() []Format {
	return []Format{
		FormatJSON, FormatCSV, FormatYAML, FormatExcel,
		FormatSQLite, FormatPostgreSQL, FormatMySQL, FormatMongoDB,
	}
}

// Writer persists a batch of conformance results
type Writer interface {
	Write(results []types.CheckResult) error
	Close() error
}

// DatabaseOptions configures a database result sink
type DatabaseOptions struct {
	DSN      string
	Database string
	Table    string
}

// resultColumns is the fixed column layout shared by the tabular sinks.
var resultColumns = []string{"suite", "check_name", "status", "duration_ms", "error", "started_at"}

// resultRow converts a result into the fixed tabular layout.
func resultRow(r types.CheckResult) []string {
	return []string{
		r.Suite,
		r.Check,
		string(r.Status),
		strconv.FormatInt(r.Duration.Milliseconds(), 10),
		r.Error,
		r.StartedAt.Format(time.RFC3339),
	}
}

// SQL identifier: starts with letter or underscore, then letters, digits, underscores.
var sqlIdentifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateSQLIdentifier rejects table names that cannot be interpolated safely.
func ValidateSQLIdentifier(identifier string) error {
	if identifier == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(identifier) > 63 {
		return fmt.Errorf("identifier %q exceeds 63 characters", identifier)
	}
	if !sqlIdentifierRegex.MatchString(identifier) {
		return fmt.Errorf("invalid identifier %q", identifier)
	}
	return nil
}

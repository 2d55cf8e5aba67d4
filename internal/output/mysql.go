// internal/output/mysql.go
package output

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/valpere/BiDiConformer/pkg/types"
)

// MySQLWriter writes results to a MySQL database
type MySQLWriter struct {
	db    *sql.DB
	table string
}

// NewMySQLWriter creates a new MySQL writer
func NewMySQLWriter(options DatabaseOptions) (*MySQLWriter, error) {
	if options.DSN == "" {
		return nil, fmt.Errorf("mysql dsn is required")
	}
	if err := ValidateSQLIdentifier(options.Table); err != nil {
		return nil, fmt.Errorf("invalid mysql table: %w", err)
	}

	db, err := sql.Open("mysql", options.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	w := &MySQLWriter{db: db, table: options.Table}
	if err := w.createTable(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

func (w *MySQLWriter) createTable() error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		suite VARCHAR(255) NOT NULL,
		check_name VARCHAR(255) NOT NULL,
		status VARCHAR(32) NOT NULL,
		duration_ms BIGINT NOT NULL,
		error TEXT,
		started_at DATETIME NOT NULL
	)`, w.table)

	if _, err := w.db.Exec(stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", w.table, err)
	}
	return nil
}

// Write inserts results inside a single transaction
func (w *MySQLWriter) Write(results []types.CheckResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (suite, check_name, status, duration_ms, error, started_at) VALUES (?, ?, ?, ?, ?, ?)",
		w.table,
	))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.Exec(r.Suite, r.Check, string(r.Status), r.Duration.Milliseconds(), r.Error, r.StartedAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert result %s: %w", r.Check, err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection
func (w *MySQLWriter) Close() error {
	if w.db != nil {
		err := w.db.Close()
		w.db = nil
		return err
	}
	return nil
}

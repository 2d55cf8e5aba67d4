// internal/output/postgresql.go
package output

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/valpere/BiDiConformer/pkg/types"
)

// PostgreSQLWriter writes results to a PostgreSQL database
type PostgreSQLWriter struct {
	db    *sql.DB
	table string
}

// NewPostgreSQLWriter creates a new PostgreSQL writer
func NewPostgreSQLWriter(options DatabaseOptions) (*PostgreSQLWriter, error) {
	if options.DSN == "" {
		return nil, fmt.Errorf("postgresql dsn is required")
	}
	if err := ValidateSQLIdentifier(options.Table); err != nil {
		return nil, fmt.Errorf("invalid postgresql table: %w", err)
	}

	db, err := sql.Open("postgres", options.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgresql connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgresql: %w", err)
	}

	w := &PostgreSQLWriter{db: db, table: options.Table}
	if err := w.createTable(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

func (w *PostgreSQLWriter) createTable() error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id SERIAL PRIMARY KEY,
		suite TEXT NOT NULL,
		check_name TEXT NOT NULL,
		status TEXT NOT NULL,
		duration_ms BIGINT NOT NULL,
		error TEXT,
		started_at TIMESTAMPTZ NOT NULL
	)`, w.table)

	if _, err := w.db.Exec(stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", w.table, err)
	}
	return nil
}

// Write inserts results inside a single transaction
func (w *PostgreSQLWriter) Write(results []types.CheckResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (suite, check_name, status, duration_ms, error, started_at) VALUES ($1, $2, $3, $4, $5, $6)",
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
func (w *PostgreSQLWriter) Close() error {
	if w.db != nil {
		err := w.db.Close()
		w.db = nil
		return err
	}
	return nil
}

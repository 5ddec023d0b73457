package writer

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// parquetTable buffers rows in an in-memory DuckDB table inside one transaction
// and exports the table to a parquet file on finalize.
type parquetTable struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
	table      string
	ddl        string
	insert     string
}

func (t *parquetTable) initialize() (err error) {
	t.db, err = sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	if _, err = t.db.Exec(t.ddl); err != nil {
		t.db.Close()
		t.db = nil

		return fmt.Errorf("failed to create table: %w", err)
	}

	t.tx, err = t.db.Begin()
	if err != nil {
		t.db.Close()
		t.db = nil

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	t.stmt, err = t.tx.Prepare(t.insert)
	if err != nil {
		t.tx.Rollback()
		t.db.Close()
		t.tx = nil
		t.db = nil

		return fmt.Errorf("failed to prepare statement: %w", err)
	}

	return nil
}

func (t *parquetTable) exec(args ...any) error {
	if t.stmt == nil {
		return fmt.Errorf("writer not initialized or statement is nil")
	}

	if _, err := t.stmt.Exec(args...); err != nil {
		return fmt.Errorf("failed to insert data: %w", err)
	}

	return nil
}

func (t *parquetTable) finalize() (string, error) {
	if t.tx == nil {
		return "", fmt.Errorf("writer not initialized or transaction is nil")
	}

	if t.stmt != nil {
		t.stmt.Close()
		t.stmt = nil
	}

	if err := t.tx.Commit(); err != nil {
		t.tx.Rollback()
		t.tx = nil

		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	t.tx = nil

	quoted := strings.ReplaceAll(t.outputPath, "'", "''")

	_, err := t.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM %s ORDER BY time) TO '%s' (FORMAT PARQUET)`, t.table, quoted))
	if err != nil {
		return "", fmt.Errorf("failed to export to Parquet: %w", err)
	}

	return t.outputPath, nil
}

func (t *parquetTable) close() error {
	var closeErrors []string

	if t.stmt != nil {
		if err := t.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close statement: %v", err))
		}

		t.stmt = nil
	}

	// Finalize was not called or failed
	if t.tx != nil {
		if err := t.tx.Rollback(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to rollback transaction: %v", err))
		}

		t.tx = nil
	}

	if t.db != nil {
		if err := t.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close db connection: %v", err))
		}

		t.db = nil
	}

	if len(closeErrors) > 0 {
		return fmt.Errorf("errors occurred during close:\n- %s", strings.Join(closeErrors, "\n- "))
	}

	return nil
}

package writer

import (
	"github.com/moznion/go-optional"
)

// DuckDBEquityWriter writes an equity curve to a parquet file through DuckDB.
type DuckDBEquityWriter struct {
	table parquetTable
}

func NewDuckDBEquityWriter(outputPath string) EquityWriter {
	return &DuckDBEquityWriter{
		table: parquetTable{
			outputPath: outputPath,
			table:      "equity",
			ddl: `
				CREATE TABLE IF NOT EXISTS equity (
					time TIMESTAMP,
					price DOUBLE,
					balance DOUBLE,
					ma_short DOUBLE,
					ma_long DOUBLE
				)
			`,
			insert: `
				INSERT INTO equity (time, price, balance, ma_short, ma_long)
				VALUES (?, ?, ?, ?, ?)
			`,
		},
	}
}

func (w *DuckDBEquityWriter) Initialize() error {
	return w.table.initialize()
}

// Write inserts a row. Unset averages are stored as NULL.
func (w *DuckDBEquityWriter) Write(row EquityRow) error {
	return w.table.exec(row.Time, row.Price, row.Balance, nullable(row.ShortMA), nullable(row.LongMA))
}

func (w *DuckDBEquityWriter) Finalize() (string, error) {
	return w.table.finalize()
}

func (w *DuckDBEquityWriter) Close() error {
	return w.table.close()
}

func (w *DuckDBEquityWriter) GetOutputPath() string {
	return w.table.outputPath
}

// WriteEquity exports rows to a parquet file at path.
func WriteEquity(path string, rows []EquityRow) (err error) {
	w := NewDuckDBEquityWriter(path)
	if err := w.Initialize(); err != nil {
		return err
	}

	defer func() {
		if closeErr := w.Close(); err == nil {
			err = closeErr
		}
	}()

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	_, err = w.Finalize()

	return err
}

func nullable(value optional.Option[float64]) any {
	if value.IsNone() {
		return nil
	}

	return value.Unwrap()
}

package writer

import (
	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// DuckDBWriter writes OHLC bars to a parquet file through DuckDB.
type DuckDBWriter struct {
	table parquetTable
}

// NewDuckDBWriter creates a new DuckDBWriter exporting to outputPath.
func NewDuckDBWriter(outputPath string) MarketDataWriter {
	return &DuckDBWriter{
		table: parquetTable{
			outputPath: outputPath,
			table:      "market_data",
			ddl: `
				CREATE TABLE IF NOT EXISTS market_data (
					id TEXT,
					time TIMESTAMP,
					open DOUBLE,
					high DOUBLE,
					low DOUBLE,
					close DOUBLE,
					volume DOUBLE,
					filled BOOLEAN
				)
			`,
			insert: `
				INSERT INTO market_data (id, time, open, high, low, close, volume, filled)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`,
		},
	}
}

// Initialize creates the in-memory table and begins the write transaction.
func (w *DuckDBWriter) Initialize() error {
	return w.table.initialize()
}

// Write inserts a single bar.
func (w *DuckDBWriter) Write(data types.MarketData) error {
	return w.table.exec(
		uuid.New().String(),
		data.Time,
		data.Open,
		data.High,
		data.Low,
		data.Close,
		data.Volume,
		data.Filled,
	)
}

// Finalize commits the transaction and exports the bars ordered by time.
func (w *DuckDBWriter) Finalize() (string, error) {
	return w.table.finalize()
}

// Close releases the statement, transaction and connection. Safe to call twice.
func (w *DuckDBWriter) Close() error {
	return w.table.close()
}

func (w *DuckDBWriter) GetOutputPath() string {
	return w.table.outputPath
}

// WriteBars exports bars to a parquet file at path.
func WriteBars(path string, bars []types.MarketData) (err error) {
	w := NewDuckDBWriter(path)
	if err := w.Initialize(); err != nil {
		return err
	}

	defer func() {
		if closeErr := w.Close(); err == nil {
			err = closeErr
		}
	}()

	for _, bar := range bars {
		if err := w.Write(bar); err != nil {
			return err
		}
	}

	_, err = w.Finalize()

	return err
}

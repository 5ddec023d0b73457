package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
)

const tickView = "ticks"

type DuckDBTickSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	path   string
}

// NewTickSource opens a DuckDB database at dbPath. An empty dbPath uses an
// in-memory database, which is what the backtest runner does.
func NewTickSource(dbPath string, logger *logger.Logger) (TickSource, error) {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBTickSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements TickSource.
func (d *DuckDBTickSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB tick source", zap.String("path", path))

	_, err := d.db.Exec(`DROP VIEW IF EXISTS ` + tickView)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to drop existing view", err)
	}

	// CREATE VIEW is not supported by squirrel
	_, err = d.db.Exec(fmt.Sprintf(`CREATE VIEW %s AS SELECT CAST(ts AS BIGINT) AS ts, CAST(price AS DOUBLE) AS price, CAST(amount AS DOUBLE) AS amount FROM %s`,
		tickView, readerFor(path)))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to read ticks from %s", path)
	}

	d.path = path

	return nil
}

func readerFor(path string) string {
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"

	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return fmt.Sprintf("read_parquet(%s)", quoted)
	}

	return fmt.Sprintf("read_csv(%s, header=false, columns={'ts': 'BIGINT', 'price': 'DOUBLE', 'amount': 'DOUBLE'})", quoted)
}

// ReadTicks implements TickSource.
func (d *DuckDBTickSource) ReadTicks(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Tick, error) {
	query, args, err := withRange(d.sq.Select("ts", "price", "amount").From(tickView), start, end).
		OrderBy("ts ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build tick query", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query ticks", err)
	}
	defer rows.Close()

	result := make([]types.Tick, 0, 1024)

	for rows.Next() {
		var (
			ts            int64
			price, amount float64
		)

		if err := rows.Scan(&ts, &price, &amount); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan tick", err)
		}

		result = append(result, types.Tick{
			Time:   time.Unix(ts, 0).UTC(),
			Price:  price,
			Volume: amount,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating ticks", err)
	}

	d.logger.Debug("Read ticks", zap.String("path", d.path), zap.Int("count", len(result)))

	return result, nil
}

// Count implements TickSource.
func (d *DuckDBTickSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	query, args, err := withRange(d.sq.Select("COUNT(*)").From(tickView), start, end).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count ticks", err)
	}

	return count, nil
}

// Close implements TickSource.
func (d *DuckDBTickSource) Close() error {
	if d.db == nil {
		return nil
	}

	err := d.db.Close()
	d.db = nil

	return err
}

// withRange restricts the query to [start, end) on whole unix seconds.
func withRange(builder squirrel.SelectBuilder, start optional.Option[time.Time], end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"ts": ceilUnix(start.Unwrap())})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.Lt{"ts": ceilUnix(end.Unwrap())})
	}

	return builder
}

func ceilUnix(t time.Time) int64 {
	seconds := t.Unix()
	if t.Nanosecond() > 0 {
		seconds++
	}

	return seconds
}

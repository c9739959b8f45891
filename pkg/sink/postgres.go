package sink

import (
	"context"
	"fmt"
	"time"

	"racerank/pkg/logger"
	"racerank/pkg/race"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// copyThreshold is the batch size from which COPY is used instead of INSERT
const copyThreshold = 100

const schema = `
	CREATE TABLE IF NOT EXISTS race_results (
		category  TEXT    NOT NULL,
		bib       INTEGER NOT NULL,
		name      TEXT    NOT NULL,
		elapsed   TEXT    NOT NULL,
		placement INTEGER NOT NULL,
		prize     TEXT
	)
`

var resultColumns = []string{"category", "bib", "name", "elapsed", "placement", "prize"}

// PostgresSink stores results in the race_results table, one row per athlete
type PostgresSink struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// PostgresConfig holds database connection settings
type PostgresConfig struct {
	URI      string
	MinConns int32
	MaxConns int32
}

// NewPostgresSink creates a new PostgresSink instance
func NewPostgresSink(ctx context.Context, cfg PostgresConfig, l *logger.Logger) (*PostgresSink, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create race_results table: %w", err)
	}

	return &PostgresSink{pool: pool, logger: l}, nil
}

// Write replaces the category's rows inside a single transaction
func (s *PostgresSink) Write(ctx context.Context, category race.Category, results []race.Result) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM race_results WHERE category = $1", string(category)); err != nil {
		return fmt.Errorf("failed to clear %s results: %w", category, err)
	}

	if ShouldUseCopy(results) {
		err = s.copyResults(ctx, tx, category, results)
	} else {
		err = s.insertResults(ctx, tx, category, results)
	}
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit %s results: %w", category, err)
	}

	s.logger.Debug("results stored", zap.String("category", string(category)), zap.Int("rows", len(results)))
	return nil
}

func (s *PostgresSink) insertResults(ctx context.Context, tx pgx.Tx, category race.Category, results []race.Result) error {
	const query = `
		INSERT INTO race_results (category, bib, name, elapsed, placement, prize)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, r := range results {
		if _, err := tx.Exec(ctx, query, resultRow(category, r)...); err != nil {
			return fmt.Errorf("failed to insert bib %d: %w", r.Bib, err)
		}
	}
	return nil
}

func (s *PostgresSink) copyResults(ctx context.Context, tx pgx.Tx, category race.Category, results []race.Result) error {
	rows := make([][]interface{}, len(results))
	for i, r := range results {
		rows[i] = resultRow(category, r)
	}

	_, err := tx.CopyFrom(ctx, pgx.Identifier{"race_results"}, resultColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy from failed: %w", err)
	}
	return nil
}

func resultRow(category race.Category, r race.Result) []interface{} {
	return []interface{}{string(category), r.Bib, r.Name, r.Elapsed, r.Placement, r.Prize}
}

// Close closes the pool
func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}

// ShouldUseCopy reports whether a batch is large enough for the COPY protocol
func ShouldUseCopy(results []race.Result) bool {
	return len(results) >= copyThreshold
}

package sink

import (
	"context"
	"fmt"
	"time"

	"go-jobcrawl/internal/scraper"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS crawled_jobs (
		company         TEXT NOT NULL,
		url             TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		salary          TEXT NOT NULL DEFAULT '',
		sort_salary     INTEGER NOT NULL,
		location        TEXT NOT NULL DEFAULT '',
		keyword_context TEXT NOT NULL DEFAULT '',
		scraped_at      TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (company, url)
	)`

const upsertJobSQL = `
	INSERT INTO crawled_jobs (company, url, description, salary, sort_salary, location, keyword_context, scraped_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (company, url) DO UPDATE SET
		description = EXCLUDED.description,
		salary = EXCLUDED.salary,
		sort_salary = EXCLUDED.sort_salary,
		location = EXCLUDED.location,
		keyword_context = EXCLUDED.keyword_context,
		scraped_at = EXCLUDED.scraped_at`

// PostgresSink mirrors the result set into the crawled_jobs table.
type PostgresSink struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func ConnectPostgres(ctx context.Context, connString string, logger *zap.Logger) (*PostgresSink, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// transaction-mode poolers cannot hold prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create crawled_jobs table: %w", err)
	}

	return &PostgresSink{db: pool, logger: logger}, nil
}

func (s *PostgresSink) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// Persist upserts the prepared view in one transaction.
func (s *PostgresSink) Persist(ctx context.Context, records []scraper.JobRecord) error {
	view := Prepare(records)
	if len(view) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return &PersistError{Target: "postgres", Err: fmt.Errorf("begin: %w", err)}
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, upsertBatch(view))
	for range view {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return &PersistError{Target: "postgres", Err: fmt.Errorf("upsert job: %w", err)}
		}
	}
	if err := results.Close(); err != nil {
		return &PersistError{Target: "postgres", Err: err}
	}
	if err := tx.Commit(ctx); err != nil {
		return &PersistError{Target: "postgres", Err: fmt.Errorf("commit: %w", err)}
	}

	s.logger.Debug("mirrored results to postgres", zap.Int("records", len(view)))
	return nil
}

func upsertBatch(view []scraper.JobRecord) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, r := range view {
		batch.Queue(upsertJobSQL,
			r.Company, r.URL, r.Description, r.SalaryText, r.SortSalary, r.Location, r.KeywordContext, r.ScrapedAt)
	}
	return batch
}

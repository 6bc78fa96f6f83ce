// Package db provides database connection helpers.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresPool creates and verifies a pgxpool connection pool.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

// migrations are applied in order at startup. Each statement is idempotent.
//
// location uses NULLS NOT DISTINCT so that ("Remote", NULL) is one row,
// not one row per insert — the (city, state) identity must hold even when
// a provider gives no state.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS company (
		id       BIGSERIAL PRIMARY KEY,
		name     TEXT NOT NULL UNIQUE,
		industry TEXT,
		website  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS location (
		id    BIGSERIAL PRIMARY KEY,
		city  TEXT,
		state TEXT,
		UNIQUE NULLS NOT DISTINCT (city, state)
	)`,
	`CREATE TABLE IF NOT EXISTS job (
		id          BIGSERIAL PRIMARY KEY,
		source_id   TEXT NOT NULL UNIQUE,
		title       TEXT NOT NULL,
		type        TEXT,
		salary_min  BIGINT NOT NULL DEFAULT 0,
		salary_max  BIGINT NOT NULL DEFAULT 0,
		currency    TEXT NOT NULL DEFAULT '',
		experience  INT,
		remote      BOOLEAN NOT NULL DEFAULT FALSE,
		skills      TEXT[] NOT NULL DEFAULT '{}',
		posted_date TIMESTAMPTZ,
		company_id  BIGINT NOT NULL REFERENCES company(id),
		location_id BIGINT NOT NULL REFERENCES location(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_job_posted_date ON job (posted_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_job_title ON job (title)`,
	`CREATE INDEX IF NOT EXISTS idx_job_remote ON job (remote)`,
	`CREATE INDEX IF NOT EXISTS idx_job_salary ON job (salary_min, salary_max)`,
	`CREATE INDEX IF NOT EXISTS idx_job_company_id ON job (company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_job_location_id ON job (location_id)`,
	`CREATE INDEX IF NOT EXISTS idx_location_city ON location (city)`,
	`CREATE INDEX IF NOT EXISTS idx_location_state ON location (state)`,
	`CREATE INDEX IF NOT EXISTS idx_company_name ON company (name)`,
}

// Migrate ensures the aggregator schema exists.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

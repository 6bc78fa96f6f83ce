// Package store persists canonical jobs in PostgreSQL and serves the
// filtered job-offers query. Identity conflicts are resolved by the
// database's ON CONFLICT primitives, never by application-level locking,
// so overlapping ingestion runs stay race-safe.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"joblens/aggregator-service/internal/model"
)

// Store wraps the connection pool with the aggregator's persistence logic.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a configured Store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ReconciliationError reports that the atomic insert-or-fetch primitive
// returned neither an inserted row nor an existing match for an identity.
// This is a storage-layer contract violation, not an expected conflict.
type ReconciliationError struct {
	Entity string
	Key    string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("could not resolve %s identity %q", e.Entity, e.Key)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation. The upsert logic should make these impossible; the API layer
// still maps them to a conflict response defensively.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// jobUpserter is the per-job persistence step the batch loop drives.
type jobUpserter interface {
	upsertJob(ctx context.Context, job model.Job) error
}

// UpsertBatch reconciles a batch of canonical jobs against the store,
// one job at a time. The batch is not atomic: a failure partway leaves
// previously committed jobs in place.
func (s *Store) UpsertBatch(ctx context.Context, jobs []model.Job) error {
	return upsertAll(ctx, s, jobs)
}

// upsertAll runs the per-job loop. A ReconciliationError on one job is
// logged and skipped so the rest of the batch proceeds; any other
// persistence error fails the run.
func upsertAll(ctx context.Context, u jobUpserter, jobs []model.Job) error {
	var recErr *ReconciliationError
	for _, job := range jobs {
		if err := u.upsertJob(ctx, job); err != nil {
			if errors.As(err, &recErr) {
				slog.Warn("skipping job: identity resolution failed",
					"sourceId", job.SourceID, "err", err)
				continue
			}
			return fmt.Errorf("upsert job %s: %w", job.SourceID, err)
		}
	}
	return nil
}

// upsertJob resolves the job's company and location to persisted
// identities, then upserts the job row keyed by source_id.
func (s *Store) upsertJob(ctx context.Context, job model.Job) error {
	companyID, err := s.upsertCompany(ctx, job.Company)
	if err != nil {
		return err
	}

	locationID, err := s.upsertLocation(ctx, job.Location)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO job (source_id, title, type, salary_min, salary_max, currency,
		                  experience, remote, skills, posted_date, company_id, location_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (source_id) DO UPDATE SET
		   title       = EXCLUDED.title,
		   type        = EXCLUDED.type,
		   salary_min  = EXCLUDED.salary_min,
		   salary_max  = EXCLUDED.salary_max,
		   currency    = EXCLUDED.currency,
		   experience  = EXCLUDED.experience,
		   remote      = EXCLUDED.remote,
		   skills      = EXCLUDED.skills,
		   posted_date = EXCLUDED.posted_date,
		   company_id  = EXCLUDED.company_id,
		   location_id = EXCLUDED.location_id`,
		job.SourceID, job.Title, job.Type, job.SalaryMin, job.SalaryMax, job.Currency,
		job.Experience, job.Remote, skillsOrEmpty(job.Skills), job.PostedDate,
		companyID, locationID,
	)
	return err
}

// upsertCompany resolves a company by name. Insert-if-absent; when the
// name already exists, industry and website are overwritten — company
// metadata legitimately changes over time and the newest source wins.
func (s *Store) upsertCompany(ctx context.Context, c model.Company) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO company (name, industry, website)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET
		   industry = EXCLUDED.industry,
		   website  = EXCLUDED.website
		 RETURNING id`,
		c.Name, c.Industry, c.Website,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, &ReconciliationError{Entity: "company", Key: c.Name}
	}
	if err != nil {
		return 0, fmt.Errorf("upsert company %q: %w", c.Name, err)
	}
	return id, nil
}

// upsertLocation resolves a location by (city, state). Insert-if-absent;
// an existing row is returned unchanged — location identity is purely
// geographic and the first recorded spelling wins.
func (s *Store) upsertLocation(ctx context.Context, l model.Location) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO location (city, state)
		 VALUES ($1, $2)
		 ON CONFLICT (city, state) DO NOTHING
		 RETURNING id`,
		l.City, l.State,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("upsert location %s: %w", locationKey(l), err)
	}

	// Conflict: the row already exists, fetch it. NULL-safe comparison so
	// a nil state matches the stored NULL.
	err = s.pool.QueryRow(ctx,
		`SELECT id FROM location
		 WHERE city IS NOT DISTINCT FROM $1 AND state IS NOT DISTINCT FROM $2`,
		l.City, l.State,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, &ReconciliationError{Entity: "location", Key: locationKey(l)}
	}
	if err != nil {
		return 0, fmt.Errorf("find location %s: %w", locationKey(l), err)
	}
	return id, nil
}

func locationKey(l model.Location) string {
	city, state := "", ""
	if l.City != nil {
		city = *l.City
	}
	if l.State != nil {
		state = *l.State
	}
	return fmt.Sprintf("(%s, %s)", city, state)
}

// skillsOrEmpty keeps the skills column NOT NULL even when a provider
// omitted the array.
func skillsOrEmpty(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}

package store

import (
	"context"
	"fmt"
	"strings"

	"joblens/aggregator-service/internal/model"
)

// Filter holds the optional job-offers query criteria. All set fields are
// combined with AND. Text fields match case-insensitive substrings.
type Filter struct {
	Title     string
	City      string
	State     string
	Company   string
	Remote    *bool
	SalaryMin *int64
	SalaryMax *int64
	Page      int
	Limit     int
}

// normalize applies pagination defaults and bounds. The API layer rejects
// out-of-range values up front; this keeps direct callers safe too.
func (f *Filter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

// Meta describes the pagination state of a JobPage.
type Meta struct {
	CurrentPage     int  `json:"currentPage"`
	ItemsPerPage    int  `json:"itemsPerPage"`
	TotalItems      int  `json:"totalItems"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// JobPage is one page of matching jobs with embedded company and location.
type JobPage struct {
	Data []model.Job `json:"data"`
	Meta Meta        `json:"meta"`
}

// buildFilterWhere translates a Filter into a WHERE clause and positional
// args. Returns an empty clause when no criteria are set.
func buildFilterWhere(f Filter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Title != "" {
		add("j.title ILIKE $%d", "%"+f.Title+"%")
	}
	if f.City != "" {
		add("l.city ILIKE $%d", "%"+f.City+"%")
	}
	if f.State != "" {
		add("l.state ILIKE $%d", "%"+f.State+"%")
	}
	if f.Remote != nil {
		add("j.remote = $%d", *f.Remote)
	}
	if f.Company != "" {
		add("c.name ILIKE $%d", "%"+f.Company+"%")
	}
	if f.SalaryMin != nil {
		add("j.salary_min >= $%d", *f.SalaryMin)
	}
	if f.SalaryMax != nil {
		add("j.salary_max <= $%d", *f.SalaryMax)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// newMeta computes pagination metadata. totalItems is counted before
// pagination; an empty result yields zero total pages.
func newMeta(page, limit, totalItems int) Meta {
	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + limit - 1) / limit
	}
	return Meta{
		CurrentPage:     page,
		ItemsPerPage:    limit,
		TotalItems:      totalItems,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

const jobJoins = `
	 FROM job j
	 LEFT JOIN company c ON c.id = j.company_id
	 LEFT JOIN location l ON l.id = j.location_id`

// FindJobs returns one page of jobs matching the filter, most recently
// posted first. Jobs whose posted date could not be parsed sort last.
func (s *Store) FindJobs(ctx context.Context, f Filter) (*JobPage, error) {
	f.normalize()
	where, args := buildFilterWhere(f)

	var totalItems int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*)`+jobJoins+where, args...).Scan(&totalItems)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	offset := (f.Page - 1) * f.Limit
	query := `SELECT j.id, j.source_id, j.title, j.type, j.salary_min, j.salary_max,
	                 j.currency, j.experience, j.remote, j.skills, j.posted_date,
	                 c.id, c.name, c.industry, c.website,
	                 l.id, l.city, l.state` +
		jobJoins + where +
		fmt.Sprintf(` ORDER BY j.posted_date DESC NULLS LAST LIMIT $%d OFFSET $%d`,
			len(args)+1, len(args)+2)
	args = append(args, f.Limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	data := make([]model.Job, 0, f.Limit)
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(
			&j.ID, &j.SourceID, &j.Title, &j.Type, &j.SalaryMin, &j.SalaryMax,
			&j.Currency, &j.Experience, &j.Remote, &j.Skills, &j.PostedDate,
			&j.Company.ID, &j.Company.Name, &j.Company.Industry, &j.Company.Website,
			&j.Location.ID, &j.Location.City, &j.Location.State,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		data = append(data, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return &JobPage{
		Data: data,
		Meta: newMeta(f.Page, f.Limit, totalItems),
	}, nil
}

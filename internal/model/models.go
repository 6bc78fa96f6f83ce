// Package model defines the canonical data structures shared by the
// aggregator. Every provider format is normalised into these before
// anything touches the database.
package model

import "time"

// Company is a hiring company. Name is the identity key: two jobs naming
// the same company (case-sensitive exact match) resolve to one row.
type Company struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Industry *string `json:"industry"`
	Website  *string `json:"website"`
}

// Location is a geographic place. Identity key is the (city, state) pair;
// a nil State means "no state given" and is distinct from an empty string.
// Remote-ness lives on the Job, not here.
type Location struct {
	ID    int64   `json:"id"`
	City  *string `json:"city"`
	State *string `json:"state"`
}

// Job is the unit of record. SourceID is globally unique across all
// providers and is the identity key for upserts: re-ingesting the same
// SourceID updates the existing row instead of duplicating it.
//
// PostedDate is nil when the provider's date string could not be parsed.
// The nil is preserved end to end (stored as NULL, rendered as null) —
// callers must special-case it rather than the pipeline defaulting it.
type Job struct {
	ID         int64      `json:"id"`
	SourceID   string     `json:"sourceId"`
	Title      string     `json:"title"`
	Type       *string    `json:"type"`
	SalaryMin  int64      `json:"salaryMin"`
	SalaryMax  int64      `json:"salaryMax"`
	Currency   string     `json:"currency"`
	Experience *int       `json:"experience"`
	Remote     bool       `json:"remote"`
	Skills     []string   `json:"skills"`
	PostedDate *time.Time `json:"postedDate"`
	Company    Company    `json:"company"`
	Location   Location   `json:"location"`
}

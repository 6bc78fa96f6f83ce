// Package source implements job posting providers. Each provider pairs a
// small HTTP fetch with a pure normaliser that maps the provider's wire
// shape into the canonical model. Adding a provider means adding one more
// file implementing Source — nothing downstream changes.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"joblens/aggregator-service/internal/model"
)

const httpTimeout = 15 * time.Second

// Source fetches job postings from one external provider and returns them
// already normalised into canonical Jobs.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Job, error)
}

// newHTTPClient constructs the shared client used by all providers.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// fetchJSON issues a GET and decodes the response body into v.
// Non-2xx responses and undecodable bodies are errors — the syncer
// degrades the affected source to an empty contribution.
func fetchJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return nil
}

// dateLayouts covers the formats the providers emit: full ISO timestamps
// (with or without fractional seconds) and bare dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate parses a provider date string. Unparsable input returns nil —
// the preserved invalid-date sentinel. It is never substituted with a
// default; the query side orders nil dates last.
func parseDate(s string) *time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// optional maps an empty string to nil so absent provider fields stay
// absent in the canonical model.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

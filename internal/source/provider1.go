package source

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"joblens/aggregator-service/internal/model"
)

// provider1Response mirrors the provider 1 payload: an array of jobs with
// free-text location and salary fields that need parsing.
type provider1Response struct {
	Metadata provider1Metadata `json:"metadata"`
	Jobs     []provider1Job    `json:"jobs"`
}

type provider1Metadata struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

type provider1Job struct {
	JobID      string           `json:"jobId"`
	Title      string           `json:"title"`
	Details    provider1Details `json:"details"`
	Company    provider1Company `json:"company"`
	Skills     []string         `json:"skills"`
	PostedDate string           `json:"postedDate"`
}

type provider1Details struct {
	Location    string `json:"location"`
	Type        string `json:"type"`
	SalaryRange string `json:"salaryRange"`
}

type provider1Company struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
}

// Provider1 fetches jobs from the first upstream provider.
type Provider1 struct {
	url    string
	client *http.Client
}

// NewProvider1 constructs the provider against the given endpoint.
func NewProvider1(url string) *Provider1 {
	return &Provider1{url: url, client: newHTTPClient()}
}

func (p *Provider1) Name() string { return "provider1" }

// Fetch retrieves the provider 1 feed and normalises it.
func (p *Provider1) Fetch(ctx context.Context) ([]model.Job, error) {
	var resp provider1Response
	if err := fetchJSON(ctx, p.client, p.url, &resp); err != nil {
		return nil, err
	}
	return normalizeProvider1(resp), nil
}

// normalizeProvider1 maps the provider 1 wire shape into canonical Jobs.
// Pure: no I/O, and malformed entries degrade to zero-valued fields
// rather than failing the batch.
func normalizeProvider1(resp provider1Response) []model.Job {
	jobs := make([]model.Job, 0, len(resp.Jobs))
	for _, src := range resp.Jobs {
		min, max, currency := parseSalaryRange(src.Details.SalaryRange)

		job := model.Job{
			SourceID:   src.JobID,
			Title:      src.Title,
			Type:       optional(src.Details.Type),
			SalaryMin:  min,
			SalaryMax:  max,
			Currency:   currency,
			Skills:     src.Skills,
			PostedDate: parseDate(src.PostedDate),
			// Provider 1 never reports remote status.
			Remote: false,
			Company: model.Company{
				Name:     src.Company.Name,
				Industry: optional(src.Company.Industry),
			},
			Location: parseLocationString(src.Details.Location),
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// salaryRangePattern matches strings like "$62k - $136k" or "$50k-$70k".
var salaryRangePattern = regexp.MustCompile(`\$(\d+)k\s*-\s*\$(\d+)k`)

// parseSalaryRange extracts (min, max, currency) from free text.
// Anything that does not match — empty, null, "Competitive salary" —
// yields (0, 0, "").
func parseSalaryRange(salaryRange string) (int64, int64, string) {
	m := salaryRangePattern.FindStringSubmatch(salaryRange)
	if m == nil {
		return 0, 0, ""
	}
	min, _ := strconv.ParseInt(m[1], 10, 64)
	max, _ := strconv.ParseInt(m[2], 10, 64)
	return min * 1000, max * 1000, "USD"
}

// parseLocationString splits free text like "Seattle, WA" into city and
// state. Without a comma the whole trimmed string becomes the city and
// the state stays nil ("no state given" is distinct from an empty state).
// Parts after the second are ignored.
func parseLocationString(locationStr string) model.Location {
	parts := strings.Split(locationStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	loc := model.Location{}
	if len(parts) >= 2 {
		loc.City = &parts[0]
		loc.State = &parts[1]
	} else {
		loc.City = &parts[0]
	}
	return loc
}

package source

import (
	"context"
	"net/http"

	"joblens/aggregator-service/internal/model"
)

// provider2Response mirrors the provider 2 payload: a mapping keyed by
// job id with fully structured fields, so no text parsing is needed.
type provider2Response struct {
	Status string        `json:"status"`
	Data   provider2Data `json:"data"`
}

type provider2Data struct {
	JobsList map[string]provider2Entry `json:"jobsList"`
}

type provider2Entry struct {
	Position     string                `json:"position"`
	Location     provider2Location     `json:"location"`
	Compensation provider2Compensation `json:"compensation"`
	Employer     provider2Employer     `json:"employer"`
	Requirements provider2Requirements `json:"requirements"`
	DatePosted   string                `json:"datePosted"`
}

type provider2Location struct {
	City   string `json:"city"`
	State  string `json:"state"`
	Remote bool   `json:"remote"`
}

type provider2Compensation struct {
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
	Currency string `json:"currency"`
}

type provider2Employer struct {
	CompanyName string `json:"companyName"`
	Website     string `json:"website"`
}

type provider2Requirements struct {
	Experience   int      `json:"experience"`
	Technologies []string `json:"technologies"`
}

// Provider2 fetches jobs from the second upstream provider.
type Provider2 struct {
	url    string
	client *http.Client
}

// NewProvider2 constructs the provider against the given endpoint.
func NewProvider2(url string) *Provider2 {
	return &Provider2{url: url, client: newHTTPClient()}
}

func (p *Provider2) Name() string { return "provider2" }

// Fetch retrieves the provider 2 feed and normalises it.
func (p *Provider2) Fetch(ctx context.Context) ([]model.Job, error) {
	var resp provider2Response
	if err := fetchJSON(ctx, p.client, p.url, &resp); err != nil {
		return nil, err
	}
	return normalizeProvider2(resp), nil
}

// normalizeProvider2 maps the keyed provider 2 entries into canonical
// Jobs. Iteration order over the map is not significant — the query side
// orders by posted date.
func normalizeProvider2(resp provider2Response) []model.Job {
	jobs := make([]model.Job, 0, len(resp.Data.JobsList))
	for jobID, entry := range resp.Data.JobsList {
		experience := entry.Requirements.Experience

		jobs = append(jobs, model.Job{
			SourceID:   jobID,
			Title:      entry.Position,
			SalaryMin:  entry.Compensation.Min,
			SalaryMax:  entry.Compensation.Max,
			Currency:   entry.Compensation.Currency,
			Experience: &experience,
			Skills:     entry.Requirements.Technologies,
			PostedDate: parseDate(entry.DatePosted),
			Remote:     entry.Location.Remote,
			Company: model.Company{
				Name:    entry.Employer.CompanyName,
				Website: optional(entry.Employer.Website),
			},
			// Empty location fields stay absent (nil) so both providers
			// resolve to the same (city, state) identity.
			Location: model.Location{
				City:  optional(entry.Location.City),
				State: optional(entry.Location.State),
			},
		})
	}
	return jobs
}

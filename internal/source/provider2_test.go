package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"joblens/aggregator-service/internal/model"
)

const provider2Payload = `{
	"status": "success",
	"data": {
		"jobsList": {
			"job-628": {
				"position": "Frontend Developer",
				"location": {"city": "New York", "state": "NY", "remote": true},
				"compensation": {"min": 61000, "max": 111000, "currency": "USD"},
				"employer": {"companyName": "Creative Design Ltd", "website": "https://creativedesign.com"},
				"requirements": {"experience": 4, "technologies": ["Java", "Spring Boot", "AWS"]},
				"datePosted": "2025-07-07"
			},
			"job-302": {
				"position": "Backend Engineer",
				"location": {"city": "San Francisco", "state": "CA", "remote": false},
				"compensation": {"min": 67000, "max": 111000, "currency": "USD"},
				"employer": {"companyName": "TechCorp", "website": ""},
				"requirements": {"experience": 5, "technologies": ["Go"]},
				"datePosted": "2025-07-11"
			}
		}
	}
}`

func TestNormalizeProvider2(t *testing.T) {
	var resp provider2Response
	if err := json.Unmarshal([]byte(provider2Payload), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	jobs := normalizeProvider2(resp)
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	// Map iteration order is not guaranteed — index by sourceId.
	byID := make(map[string]model.Job, len(jobs))
	for _, j := range jobs {
		byID[j.SourceID] = j
	}

	j, ok := byID["job-628"]
	if !ok {
		t.Fatal("job-628 missing from result")
	}
	if j.Title != "Frontend Developer" {
		t.Errorf("title = %q", j.Title)
	}
	if !j.Remote {
		t.Error("remote flag must be read from location.remote")
	}
	if j.SalaryMin != 61000 || j.SalaryMax != 111000 || j.Currency != "USD" {
		t.Errorf("salary = (%d, %d, %q)", j.SalaryMin, j.SalaryMax, j.Currency)
	}
	if j.Experience == nil || *j.Experience != 4 {
		t.Errorf("experience = %v, want 4", j.Experience)
	}
	if j.PostedDate == nil {
		t.Fatal("date-only datePosted should parse")
	}
	if got := j.PostedDate.Format("2006-01-02"); got != "2025-07-07" {
		t.Errorf("postedDate = %s, want 2025-07-07", got)
	}
	if j.Company.Name != "Creative Design Ltd" {
		t.Errorf("company = %q", j.Company.Name)
	}
	if j.Company.Website == nil || *j.Company.Website != "https://creativedesign.com" {
		t.Errorf("website = %v", j.Company.Website)
	}
	if j.Location.City == nil || *j.Location.City != "New York" {
		t.Errorf("city = %v", j.Location.City)
	}
	if j.Location.State == nil || *j.Location.State != "NY" {
		t.Errorf("state = %v", j.Location.State)
	}

	j2 := byID["job-302"]
	if j2.Remote {
		t.Error("job-302 must not be remote")
	}
	if j2.Company.Website != nil {
		t.Errorf("empty website should be nil, got %q", *j2.Company.Website)
	}
}

// Degraded entries with empty or missing location fields must normalise
// to absent (nil) city/state, matching provider 1's no-comma case — the
// same city from either provider resolves to one location identity.
func TestNormalizeProvider2_MissingLocationFields(t *testing.T) {
	payload := `{
		"status": "success",
		"data": {
			"jobsList": {
				"job-9": {
					"position": "Engineer",
					"location": {"city": "Austin", "remote": false},
					"compensation": {"min": 0, "max": 0, "currency": ""},
					"employer": {"companyName": "Acme", "website": ""},
					"requirements": {"experience": 0, "technologies": []},
					"datePosted": "2025-07-07"
				}
			}
		}
	}`

	var resp provider2Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	jobs := normalizeProvider2(resp)
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Location.City == nil || *j.Location.City != "Austin" {
		t.Errorf("city = %v, want Austin", j.Location.City)
	}
	if j.Location.State != nil {
		t.Errorf("missing state must be nil, got %q", *j.Location.State)
	}
}

func TestNormalizeProvider2_EmptyList(t *testing.T) {
	var resp provider2Response
	if err := json.Unmarshal([]byte(`{"status": "success", "data": {"jobsList": {}}}`), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if jobs := normalizeProvider2(resp); len(jobs) != 0 {
		t.Errorf("expected empty result, got %d jobs", len(jobs))
	}
}

func TestProvider2Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(provider2Payload))
	}))
	defer srv.Close()

	p := NewProvider2(srv.URL)
	jobs, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"2025-07-06T01:25:07.877Z", true},
		{"2025-07-11T08:06:47Z", true},
		{"2025-07-07", true},
		{"2025-07-07T10:00:00", true},
		{"not a date", false},
		{"", false},
	}
	for _, c := range cases {
		got := parseDate(c.in)
		if c.valid && got == nil {
			t.Errorf("parseDate(%q) = nil, want a time", c.in)
		}
		if !c.valid && got != nil {
			t.Errorf("parseDate(%q) = %v, want nil", c.in, got)
		}
	}
}

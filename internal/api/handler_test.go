package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"joblens/aggregator-service/internal/store"
)

type fakeFinder struct {
	got  store.Filter
	page *store.JobPage
	err  error
}

func (f *fakeFinder) FindJobs(ctx context.Context, filter store.Filter) (*store.JobPage, error) {
	f.got = filter
	if f.err != nil {
		return nil, f.err
	}
	if f.page != nil {
		return f.page, nil
	}
	return &store.JobPage{Meta: store.Meta{CurrentPage: filter.Page, ItemsPerPage: filter.Limit}}, nil
}

type fakeRunner struct {
	ran chan struct{}
	err error
}

func (f *fakeRunner) Run(ctx context.Context) error {
	if f.ran != nil {
		f.ran <- struct{}{}
	}
	return f.err
}

func newTestMux(finder *fakeFinder, runner *fakeRunner) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(finder, runner).RegisterRoutes(mux)
	return mux
}

func TestJobOffers_FilterPassthrough(t *testing.T) {
	finder := &fakeFinder{}
	mux := newTestMux(finder, &fakeRunner{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/job-offers?title=dev&city=Seattle&state=WA&company=TechCorp&remote=true&salaryMin=50000&salaryMax=150000&page=2&limit=5", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	f := finder.got
	if f.Title != "dev" || f.City != "Seattle" || f.State != "WA" || f.Company != "TechCorp" {
		t.Errorf("text filters not passed through: %+v", f)
	}
	if f.Remote == nil || !*f.Remote {
		t.Errorf("remote = %v, want true", f.Remote)
	}
	if f.SalaryMin == nil || *f.SalaryMin != 50000 {
		t.Errorf("salaryMin = %v", f.SalaryMin)
	}
	if f.SalaryMax == nil || *f.SalaryMax != 150000 {
		t.Errorf("salaryMax = %v", f.SalaryMax)
	}
	if f.Page != 2 || f.Limit != 5 {
		t.Errorf("pagination = (%d, %d), want (2, 5)", f.Page, f.Limit)
	}
}

func TestJobOffers_Defaults(t *testing.T) {
	finder := &fakeFinder{}
	mux := newTestMux(finder, &fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/job-offers", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if finder.got.Page != 1 || finder.got.Limit != 10 {
		t.Errorf("defaults = (%d, %d), want (1, 10)", finder.got.Page, finder.got.Limit)
	}
	if finder.got.Remote != nil || finder.got.SalaryMin != nil || finder.got.SalaryMax != nil {
		t.Errorf("unset optional filters should stay nil: %+v", finder.got)
	}
}

func TestJobOffers_ValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"salaryMin not a number", "?salaryMin=abc"},
		{"salaryMin negative", "?salaryMin=-1"},
		{"salaryMax not a number", "?salaryMax=lots"},
		{"remote not a bool", "?remote=maybe"},
		{"page zero", "?page=0"},
		{"page not a number", "?page=two"},
		{"limit zero", "?limit=0"},
		{"limit over 100", "?limit=101"},
	}
	for _, c := range cases {
		mux := newTestMux(&fakeFinder{}, &fakeRunner{})
		req := httptest.NewRequest(http.MethodGet, "/api/job-offers"+c.query, nil)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.name, rr.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body["error"] == "" {
			t.Errorf("%s: expected structured error body, got %s", c.name, rr.Body.String())
		}
	}
}

func TestJobOffers_StorageFailure(t *testing.T) {
	finder := &fakeFinder{err: errors.New("connection reset")}
	mux := newTestMux(finder, &fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/job-offers", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestJobOffers_MethodNotAllowed(t *testing.T) {
	mux := newTestMux(&fakeFinder{}, &fakeRunner{})
	req := httptest.NewRequest(http.MethodPost, "/api/job-offers", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

func TestSync_Accepted(t *testing.T) {
	runner := &fakeRunner{ran: make(chan struct{}, 1)}
	mux := newTestMux(&fakeFinder{}, runner)

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rr.Code)
	}

	select {
	case <-runner.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("sync run was never triggered")
	}
}

func TestSync_GetNotAllowed(t *testing.T) {
	mux := newTestMux(&fakeFinder{}, &fakeRunner{})
	req := httptest.NewRequest(http.MethodGet, "/api/sync", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

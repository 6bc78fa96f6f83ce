// Package api implements the HTTP surface of the aggregator.
//
// Routes:
//
//	GET  /api/job-offers → filtered, paginated job listing
//	POST /api/sync       → trigger an ingestion run on demand
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"joblens/aggregator-service/internal/store"
)

// JobFinder serves the job-offers query.
type JobFinder interface {
	FindJobs(ctx context.Context, f store.Filter) (*store.JobPage, error)
}

// SyncRunner triggers one ingestion run.
type SyncRunner interface {
	Run(ctx context.Context) error
}

// Handler holds shared dependencies.
type Handler struct {
	finder JobFinder
	syncer SyncRunner
}

// NewHandler returns a configured Handler.
func NewHandler(finder JobFinder, syncer SyncRunner) *Handler {
	return &Handler{finder: finder, syncer: syncer}
}

// RegisterRoutes mounts all aggregator routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/job-offers", h.handleJobOffers)
	mux.HandleFunc("/api/sync", h.handleSync)
}

// handleJobOffers handles GET /api/job-offers.
func (h *Handler) handleJobOffers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.finder.FindJobs(r.Context(), filter)
	if err != nil {
		slog.Error("findJobs failed", "err", err)
		if store.IsUniqueViolation(err) {
			// Should be impossible on the read path; mapped defensively.
			jsonError(w, "conflict", http.StatusConflict)
			return
		}
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, page)
}

// handleSync handles POST /api/sync. The run happens in the background;
// the response only acknowledges the trigger.
func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	go func() {
		if err := h.syncer.Run(context.Background()); err != nil {
			slog.Error("manual sync failed", "err", err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

// parseFilter validates and converts query parameters into a store.Filter.
func parseFilter(r *http.Request) (store.Filter, error) {
	q := r.URL.Query()

	f := store.Filter{
		Title:   q.Get("title"),
		City:    q.Get("city"),
		State:   q.Get("state"),
		Company: q.Get("company"),
		Page:    1,
		Limit:   10,
	}

	if s := q.Get("remote"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return f, fmt.Errorf("remote must be a boolean, got %q", s)
		}
		f.Remote = &v
	}

	if s := q.Get("salaryMin"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			return f, fmt.Errorf("salaryMin must be a non-negative integer, got %q", s)
		}
		f.SalaryMin = &v
	}

	if s := q.Get("salaryMax"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			return f, fmt.Errorf("salaryMax must be a non-negative integer, got %q", s)
		}
		f.SalaryMax = &v
	}

	if s := q.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return f, fmt.Errorf("page must be a positive integer, got %q", s)
		}
		f.Page = v
	}

	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 100 {
			return f, fmt.Errorf("limit must be between 1 and 100, got %q", s)
		}
		f.Limit = v
	}

	return f, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

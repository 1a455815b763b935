// Package httpstats serves a grammar's generation statistics
// (token/type/rule/state/conflict counts, with conflict detail) as JSON,
// for slrgen's optional `--stats --serve ADDR` flags -- a small dashboard-
// friendly alternative to the CLI's plain-text report.
//
// Grounded on server/api/api.go's chi.URLParam-based parameter extraction
// pattern, but mounted on its own chi.NewRouter() (the teacher's own HTTP
// server uses net/http.ServeMux for top-level routing and reserves chi for
// the URL-param helper; this package has exactly one route, so a bare
// chi.Router serves equally well and keeps the dependency load-bearing
// rather than vestigial).
package httpstats

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Report is the JSON shape served at GET /stats, and at GET /stats/{runID}
// when runID equals RunID (any other id gets 404; no history is kept).
// Field names mirror the ictiobus.Stats struct
// this package is handed at construction time.
type Report struct {
	RunID            string           `json:"run_id"`
	TerminalCount    int              `json:"terminal_count"`
	NonTerminalCount int              `json:"nonterminal_count"`
	RuleCount        int              `json:"rule_count"`
	StateCount       int              `json:"state_count"`
	ConflictCount    int              `json:"conflict_count"`
	Conflicts        []ConflictDetail `json:"conflicts,omitempty"`
}

// ConflictDetail is the JSON shape of one parse.ConflictRecord.
type ConflictDetail struct {
	State      int    `json:"state"`
	Terminal   int    `json:"terminal"`
	RuleID     int    `json:"rule_id"`
	ShiftState int    `json:"shift_state"`
	Category   string `json:"category"`
}

// Handler serves the current Report for as long as the process runs; the
// caller regenerates a new Handler (or swaps the stats behind a mutex) each
// time the grammar is recompiled.
type Handler struct {
	report Report
}

// NewHandler builds a Handler that always serves report.
func NewHandler(report Report) *Handler {
	return &Handler{report: report}
}

// Router mounts the stats endpoint on a fresh chi router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", h.getStats)
	r.Get("/stats/{runID}", h.getStatsByRunID)
	return r
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.report)
}

func (h *Handler) getStatsByRunID(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID != h.report.RunID {
		http.Error(w, "no stats recorded for that run", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

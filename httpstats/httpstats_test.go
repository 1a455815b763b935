package httpstats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Handler_getStats_servesReportAsJSON(t *testing.T) {
	assert := assert.New(t)

	report := Report{
		RunID:         "run-1",
		TerminalCount: 3,
		RuleCount:     2,
		Conflicts:     []ConflictDetail{{State: 1, Terminal: 2, RuleID: 3, Category: "Ambiguous"}},
	}
	h := NewHandler(report)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)

	var got Report
	assert.NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(report.RunID, got.RunID)
	assert.Equal(report.TerminalCount, got.TerminalCount)
	assert.Len(got.Conflicts, 1)
}

func Test_Handler_getStatsByRunID_matchFound(t *testing.T) {
	assert := assert.New(t)

	h := NewHandler(Report{RunID: "run-42"})

	req := httptest.NewRequest(http.MethodGet, "/stats/run-42", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)
}

func Test_Handler_getStatsByRunID_mismatchReturns404(t *testing.T) {
	assert := assert.New(t)

	h := NewHandler(Report{RunID: "run-42"})

	req := httptest.NewRequest(http.MethodGet, "/stats/some-other-run", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(http.StatusNotFound, rec.Code)
}

package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"clinicalgoto/internal/trials"
	dErrors "clinicalgoto/pkg/domain-errors"
)

type TrialsHandlerSuite struct {
	suite.Suite
}

func TestTrialsHandlerSuite(t *testing.T) {
	suite.Run(t, new(TrialsHandlerSuite))
}

type stubSearcher struct {
	lastQuery trials.Query
	result    *trials.SearchResult
	err       error
}

func (s *stubSearcher) Search(ctx context.Context, query trials.Query) (*trials.SearchResult, error) {
	s.lastQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestRouter(searcher Searcher) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := New(searcher, logger)
	r := chi.NewRouter()
	handler.Register(r)
	return r
}

func (s *TrialsHandlerSuite) TestSearch() {
	searcher := &stubSearcher{result: &trials.SearchResult{
		TotalCount: 42,
		Studies: []trials.TrialSummary{{
			ID:       "NCT01234567",
			Title:    "A Study of Something",
			Status:   "RECRUITING",
			Location: "Boston, Massachusetts, United States",
		}},
	}}
	r := newTestRouter(searcher)

	req := httptest.NewRequest(http.MethodGet, "/api/clinical-trials?location=Boston&condition=Diabetes&pageSize=5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	assert.Equal(s.T(), trials.Query{Location: "Boston", Condition: "Diabetes", PageSize: 5}, searcher.lastQuery)

	var resp SearchResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(s.T(), resp.Success)
	assert.Equal(s.T(), 42, resp.TotalCount)
	require.Len(s.T(), resp.Studies, 1)
	assert.Equal(s.T(), "NCT01234567", resp.Studies[0].ID)
}

func (s *TrialsHandlerSuite) TestSearchMissingLocation() {
	searcher := &stubSearcher{err: dErrors.New(dErrors.CodeValidation, "Location is required")}
	r := newTestRouter(searcher)

	req := httptest.NewRequest(http.MethodGet, "/api/clinical-trials", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), false, resp["success"])
	assert.Equal(s.T(), "Location is required", resp["error"])
}

func (s *TrialsHandlerSuite) TestSearchBadPageSize() {
	searcher := &stubSearcher{}
	r := newTestRouter(searcher)

	for _, raw := range []string{"abc", "0", "-3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/clinical-trials?location=Boston&pageSize="+raw, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(s.T(), http.StatusBadRequest, w.Code, raw)
	}
}

func (s *TrialsHandlerSuite) TestSearchUpstreamFailure() {
	searcher := &stubSearcher{err: dErrors.New(dErrors.CodeUpstream, "Failed to fetch clinical trials")}
	r := newTestRouter(searcher)

	req := httptest.NewRequest(http.MethodGet, "/api/clinical-trials?location=Boston", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusInternalServerError, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "Failed to fetch clinical trials", resp["error"])
}

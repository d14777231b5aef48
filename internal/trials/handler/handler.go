// Package handler exposes the clinical-trials search endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clinicalgoto/internal/platform/middleware"
	"clinicalgoto/internal/transport/http/shared"
	"clinicalgoto/internal/trials"
	dErrors "clinicalgoto/pkg/domain-errors"
)

// Searcher performs the upstream trial search.
type Searcher interface {
	Search(ctx context.Context, query trials.Query) (*trials.SearchResult, error)
}

// Handler serves GET /api/clinical-trials.
type Handler struct {
	searcher Searcher
	logger   *slog.Logger
}

// New creates a trials Handler.
func New(searcher Searcher, logger *slog.Logger) *Handler {
	return &Handler{searcher: searcher, logger: logger}
}

// Register mounts the trials routes on the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/clinical-trials", h.handleSearch)
}

// SearchResponse carries the upstream total alongside the mapped studies.
type SearchResponse struct {
	Success    bool                  `json:"success"`
	TotalCount int                   `json:"totalCount"`
	Studies    []trials.TrialSummary `json:"studies"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := trials.Query{
		Location:  r.URL.Query().Get("location"),
		Condition: r.URL.Query().Get("condition"),
	}
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "pageSize must be a positive integer"))
			return
		}
		query.PageSize = size
	}

	result, err := h.searcher.Search(ctx, query)
	if err != nil {
		h.logger.ErrorContext(ctx, "trial search failed",
			"request_id", middleware.GetRequestID(ctx),
			"location", query.Location,
			"condition", query.Condition,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, SearchResponse{
		Success:    true,
		TotalCount: result.TotalCount,
		Studies:    result.Studies,
	})
}

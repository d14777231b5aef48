package trials

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	dErrors "clinicalgoto/pkg/domain-errors"
)

// DefaultPageSize applies when a query does not specify one.
const DefaultPageSize = 10

// Placeholders for optional fields the upstream sometimes omits. Studies are
// never dropped for missing fields; only the fields are defaulted.
const (
	placeholderTitle       = "Clinical Trial"
	placeholderDescription = "No description available."
	placeholderLocation    = "Location not specified"
	placeholderPhase       = "N/A"
)

// Client calls the ClinicalTrials.gov v2 API. One attempt per search; the
// caller decides whether an upstream failure is fatal.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient builds a trials client against baseURL (".../api/v2"). The timeout
// bounds each search; expiry surfaces as an upstream error.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		logger: logger,
	}
}

// Search queries recruiting studies at q.Location, optionally filtered by
// q.Condition. Zero upstream matches yield an empty result, not an error.
func (c *Client) Search(ctx context.Context, q Query) (*SearchResult, error) {
	if strings.TrimSpace(q.Location) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Location is required")
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	params := map[string]string{
		"query.locn":           q.Location,
		"filter.overallStatus": "RECRUITING",
		"pageSize":             strconv.Itoa(pageSize),
		"countTotal":           "true",
	}
	if q.Condition != "" {
		params["query.cond"] = q.Condition
	}

	var payload apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&payload).
		Get("/studies")
	if err != nil {
		c.logger.WarnContext(ctx, "clinical trials request failed",
			"location", q.Location,
			"error", err,
		)
		return nil, dErrors.Wrap(dErrors.CodeUpstream, "Failed to fetch clinical trials", err)
	}
	if resp.IsError() {
		c.logger.WarnContext(ctx, "clinical trials upstream error",
			"location", q.Location,
			"status", resp.StatusCode(),
		)
		return nil, dErrors.Newf(dErrors.CodeUpstream, "Failed to fetch clinical trials (status %d)", resp.StatusCode())
	}

	result := &SearchResult{
		TotalCount: payload.TotalCount,
		Studies:    make([]TrialSummary, 0, len(payload.Studies)),
	}
	for _, study := range payload.Studies {
		result.Studies = append(result.Studies, mapStudy(study, q.Condition))
	}
	return result, nil
}

// mapStudy normalizes one upstream study, defaulting missing optional fields.
func mapStudy(study apiStudy, queryCondition string) TrialSummary {
	ps := study.ProtocolSection

	title := ps.Identification.BriefTitle
	if title == "" {
		title = ps.Identification.OfficialTitle
	}
	if title == "" {
		title = placeholderTitle
	}

	description := ps.Description.BriefSummary
	if description == "" {
		description = placeholderDescription
	}

	location := placeholderLocation
	if len(ps.ContactsLocations.Locations) > 0 {
		if formatted := formatLocation(ps.ContactsLocations.Locations[0]); formatted != "" {
			location = formatted
		}
	}

	phase := placeholderPhase
	if len(ps.Design.Phases) > 0 {
		phase = strings.Join(ps.Design.Phases, ", ")
	}

	condition := queryCondition
	if len(ps.Conditions.Conditions) > 0 {
		condition = ps.Conditions.Conditions[0]
	}

	return TrialSummary{
		ID:          ps.Identification.NCTID,
		Title:       title,
		Description: description,
		Location:    location,
		Status:      ps.Status.OverallStatus,
		Phase:       phase,
		Condition:   condition,
	}
}

func formatLocation(loc studyLocation) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{loc.Facility, loc.City, loc.State, loc.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

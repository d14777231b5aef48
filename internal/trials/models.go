// Package trials adapts the public ClinicalTrials.gov v2 search API into
// compact trial summaries. Nothing here is persisted.
package trials

// TrialSummary is the normalized projection of one external study record.
type TrialSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	Phase       string `json:"phase"`
	Condition   string `json:"condition"`
}

// Query describes one search against the upstream directory.
type Query struct {
	// Location is required; the upstream search is restricted to
	// currently-recruiting studies there.
	Location string

	// Condition optionally narrows the search by condition text.
	Condition string

	// PageSize caps returned studies; non-positive values use the default.
	PageSize int
}

// SearchResult carries the upstream total alongside the mapped page.
type SearchResult struct {
	TotalCount int            `json:"totalCount"`
	Studies    []TrialSummary `json:"studies"`
}

// Upstream response envelope, trimmed to the modules we read.

type apiResponse struct {
	TotalCount int        `json:"totalCount"`
	Studies    []apiStudy `json:"studies"`
}

type apiStudy struct {
	ProtocolSection protocolSection `json:"protocolSection"`
}

type protocolSection struct {
	Identification    identificationModule    `json:"identificationModule"`
	Status            statusModule            `json:"statusModule"`
	Description       descriptionModule       `json:"descriptionModule"`
	Design            designModule            `json:"designModule"`
	Conditions        conditionsModule        `json:"conditionsModule"`
	ContactsLocations contactsLocationsModule `json:"contactsLocationsModule"`
}

type identificationModule struct {
	NCTID         string `json:"nctId"`
	BriefTitle    string `json:"briefTitle"`
	OfficialTitle string `json:"officialTitle"`
}

type statusModule struct {
	OverallStatus string `json:"overallStatus"`
}

type descriptionModule struct {
	BriefSummary string `json:"briefSummary"`
}

type designModule struct {
	Phases []string `json:"phases"`
}

type conditionsModule struct {
	Conditions []string `json:"conditions"`
}

type contactsLocationsModule struct {
	Locations []studyLocation `json:"locations"`
}

type studyLocation struct {
	Facility string `json:"facility"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
}

// Package registrant holds the domain model for people who submitted the
// registration form.
package registrant

import "time"

// Registrant is one stored registration. Rows are never physically deleted;
// IsActive=false marks logical removal.
type Registrant struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Condition    string    `json:"condition"`
	Location     string    `json:"location"`
	Consent      bool      `json:"consent"`
	RegisteredAt time.Time `json:"registeredAt"`
	IsActive     bool      `json:"isActive"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Subscriber is the public projection returned to the submitting client.
type Subscriber struct {
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Condition    string    `json:"condition,omitempty"`
	Location     string    `json:"location,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// PublicProjection builds the client-facing view of r.
func (r Registrant) PublicProjection(includeSearch bool) Subscriber {
	s := Subscriber{
		FullName:     r.FullName,
		Email:        r.Email,
		RegisteredAt: r.RegisteredAt,
	}
	if includeSearch {
		s.Condition = r.Condition
		s.Location = r.Location
	}
	return s
}

// Stats aggregates active registrants only.
type Stats struct {
	Total     int `json:"total"`
	Recent    int `json:"recent"`
	Consented int `json:"consented"`
}

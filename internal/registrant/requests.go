package registrant

import (
	"html"
	"strings"
)

// NotSpecified fills optional free-text fields the register-only entry point
// allows to be blank.
const NotSpecified = "Not specified"

// RegisterRequest is the JSON body shared by both registration entry points.
// Consent is decoded loosely so that only the literal boolean true counts as
// consent; strings like "true" do not.
type RegisterRequest struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Condition string `json:"condition"`
	Location  string `json:"location"`
	Address   string `json:"address"`
	Consent   any    `json:"consent"`
}

// ConsentGranted coerces the consent field to a strict boolean.
func (r RegisterRequest) ConsentGranted() bool {
	granted, ok := r.Consent.(bool)
	return ok && granted
}

// NormalizeEmail case-folds and trims an address. Insertion and lookup must
// use the exact same normalization.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeText HTML-escapes a free-text field.
func SanitizeText(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

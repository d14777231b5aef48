// Package store persists registrants. Stores are interface-driven to keep the
// workflow testable and to allow swapping the in-memory and postgres
// implementations without rewiring business code.
package store

import (
	"context"

	"clinicalgoto/internal/registrant"
	dErrors "clinicalgoto/pkg/domain-errors"
)

// RecentWindowDays bounds the "recent registrations" stat.
const RecentWindowDays = 7

var (
	// ErrNotFound is returned when no active registrant matches.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "User not found")

	// ErrDuplicateEmail is returned when an active registrant already holds
	// the email. The constraint lives in the store so two concurrent inserts
	// can never both succeed.
	ErrDuplicateEmail = dErrors.New(dErrors.CodeConflict, "User with this email already exists")
)

// Store is the registrant persistence contract. Emails passed in must already
// be normalized (trimmed, lowercased); stores compare them verbatim.
type Store interface {
	// Insert stores a new registrant, assigning ID and RegisteredAt.
	// Returns ErrDuplicateEmail when an active row holds the same email.
	Insert(ctx context.Context, reg *registrant.Registrant) (*registrant.Registrant, error)

	// FindActiveByEmail returns the active registrant with the email, or
	// ErrNotFound.
	FindActiveByEmail(ctx context.Context, email string) (*registrant.Registrant, error)

	// ListActive returns all active registrants, newest registration first.
	ListActive(ctx context.Context) ([]*registrant.Registrant, error)

	// Deactivate soft-deletes the active registrant with the email and
	// stamps UpdatedAt. Returns ErrNotFound when no active row matches.
	Deactivate(ctx context.Context, email string) error

	// Stats aggregates over active registrants only.
	Stats(ctx context.Context) (registrant.Stats, error)
}

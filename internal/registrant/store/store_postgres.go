package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"clinicalgoto/internal/registrant"
)

// PostgresStore persists registrants in PostgreSQL. Email uniqueness among
// active rows is enforced by a partial unique index, so the second of two
// concurrent inserts always observes the conflict.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registrant store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS registrants (
	id            UUID PRIMARY KEY,
	full_name     TEXT NOT NULL,
	email         TEXT NOT NULL,
	phone         TEXT NOT NULL,
	condition     TEXT NOT NULL,
	location      TEXT NOT NULL,
	consent       BOOLEAN NOT NULL DEFAULT FALSE,
	registered_at TIMESTAMPTZ NOT NULL,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS registrants_active_email_idx
	ON registrants (email) WHERE is_active;
`

// EnsureSchema creates the registrants table and its active-email unique
// index. The original service created tables at startup; kept for parity.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, reg *registrant.Registrant) (*registrant.Registrant, error) {
	now := time.Now().UTC()
	stored := *reg
	stored.ID = uuid.NewString()
	stored.RegisteredAt = now
	stored.UpdatedAt = now
	stored.IsActive = true

	const query = `
		INSERT INTO registrants
			(id, full_name, email, phone, condition, location, consent, registered_at, is_active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		stored.ID, stored.FullName, stored.Email, stored.Phone,
		stored.Condition, stored.Location, stored.Consent,
		stored.RegisteredAt, stored.IsActive, stored.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert registrant: %w", err)
	}
	return &stored, nil
}

func (s *PostgresStore) FindActiveByEmail(ctx context.Context, email string) (*registrant.Registrant, error) {
	const query = `
		SELECT id, full_name, email, phone, condition, location, consent, registered_at, is_active, updated_at
		FROM registrants
		WHERE email = $1 AND is_active
	`
	reg, err := scanRegistrant(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find registrant by email: %w", err)
	}
	return reg, nil
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*registrant.Registrant, error) {
	const query = `
		SELECT id, full_name, email, phone, condition, location, consent, registered_at, is_active, updated_at
		FROM registrants
		WHERE is_active
		ORDER BY registered_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list registrants: %w", err)
	}
	defer rows.Close()

	var out []*registrant.Registrant
	for rows.Next() {
		reg, err := scanRegistrant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registrant: %w", err)
		}
		out = append(out, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrants: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Deactivate(ctx context.Context, email string) error {
	const query = `
		UPDATE registrants
		SET is_active = FALSE, updated_at = NOW()
		WHERE email = $1 AND is_active
	`
	res, err := s.db.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("deactivate registrant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate registrant: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats runs the three aggregate counts concurrently, mirroring how the
// original service batched them.
func (s *PostgresStore) Stats(ctx context.Context) (registrant.Stats, error) {
	var stats registrant.Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM registrants WHERE is_active`,
		).Scan(&stats.Total)
	})
	g.Go(func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM registrants WHERE is_active AND registered_at >= NOW() - make_interval(days => $1)`,
			RecentWindowDays,
		).Scan(&stats.Recent)
	})
	g.Go(func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM registrants WHERE is_active AND consent`,
		).Scan(&stats.Consented)
	})

	if err := g.Wait(); err != nil {
		return registrant.Stats{}, fmt.Errorf("registrant stats: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistrant(row rowScanner) (*registrant.Registrant, error) {
	var reg registrant.Registrant
	err := row.Scan(
		&reg.ID, &reg.FullName, &reg.Email, &reg.Phone,
		&reg.Condition, &reg.Location, &reg.Consent,
		&reg.RegisteredAt, &reg.IsActive, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

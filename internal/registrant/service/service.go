// Package service orchestrates the registration workflow: validate, check
// uniqueness, persist, search, respond. Stateless per request.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"clinicalgoto/internal/platform/metrics"
	"clinicalgoto/internal/registrant"
	"clinicalgoto/internal/registrant/store"
	"clinicalgoto/internal/trials"
	"clinicalgoto/internal/visitorlog"
	dErrors "clinicalgoto/pkg/domain-errors"
)

// Searcher is the trial search contract the workflow depends on.
type Searcher interface {
	Search(ctx context.Context, q trials.Query) (*trials.SearchResult, error)
}

// Mailer sends the welcome email; failures are swallowed and logged.
type Mailer interface {
	SendWelcome(ctx context.Context, reg registrant.Registrant) error
}

// ClientInfo carries transport-level facts into the visitor log.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// Service implements both registration entry points plus the admin-facing
// list/deactivate/stats operations.
type Service struct {
	store    store.Store
	searcher Searcher
	mailer   Mailer
	visitors visitorlog.Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
	pageSize int
}

// New wires the registration workflow. Mailer and visitor recorder may be the
// nop implementations; store and searcher are required.
func New(
	st store.Store,
	searcher Searcher,
	mailer Mailer,
	visitors visitorlog.Recorder,
	m *metrics.Metrics,
	logger *slog.Logger,
	pageSize int,
) *Service {
	if mailer == nil {
		mailer = notifyNop{}
	}
	if visitors == nil {
		visitors = visitorlog.NopRecorder{}
	}
	if pageSize <= 0 {
		pageSize = trials.DefaultPageSize
	}
	return &Service{
		store:    st,
		searcher: searcher,
		mailer:   mailer,
		visitors: visitors,
		metrics:  m,
		logger:   logger,
		pageSize: pageSize,
	}
}

type notifyNop struct{}

func (notifyNop) SendWelcome(context.Context, registrant.Registrant) error { return nil }

// Register validates and persists a registrant without searching for trials.
// Condition and location are optional here; blanks get placeholder text, and
// address doubles as location when location is absent.
func (s *Service) Register(ctx context.Context, req registrant.RegisterRequest, client ClientInfo) (*registrant.Registrant, error) {
	if req.FullName == "" || req.Email == "" || req.Phone == "" {
		return nil, dErrors.New(dErrors.CodeValidation,
			"Missing required fields: fullName, email, and phone are required")
	}
	if !govalidator.IsEmail(req.Email) {
		return nil, dErrors.New(dErrors.CodeValidation, "Invalid email format")
	}

	condition := registrant.SanitizeText(req.Condition)
	if condition == "" {
		condition = registrant.NotSpecified
	}
	location := registrant.SanitizeText(req.Location)
	if location == "" {
		location = registrant.SanitizeText(req.Address)
	}
	if location == "" {
		location = registrant.NotSpecified
	}

	return s.persist(ctx, req, condition, location, client)
}

// RegisterAndSearch runs the combined flow: all fields are required, and on
// success the registrant's location/condition drive a trial search. An
// upstream search failure degrades to an empty trial list; the registration
// stays committed.
func (s *Service) RegisterAndSearch(ctx context.Context, req registrant.RegisterRequest, client ClientInfo) (*registrant.Registrant, []trials.TrialSummary, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"fullName", req.FullName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"condition", req.Condition},
		{"location", req.Location},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, dErrors.Newf(dErrors.CodeValidation,
			"Missing required fields: %s", strings.Join(missing, ", "))
	}
	if !govalidator.IsEmail(req.Email) {
		return nil, nil, dErrors.New(dErrors.CodeValidation, "Invalid email format")
	}

	saved, err := s.persist(ctx, req,
		registrant.SanitizeText(req.Condition),
		registrant.SanitizeText(req.Location),
		client,
	)
	if err != nil {
		return nil, nil, err
	}

	found := s.searchTrials(ctx, saved)
	return saved, found, nil
}

// persist runs the uniqueness check and durable write shared by both entry
// points, then fires the best-effort side effects.
func (s *Service) persist(ctx context.Context, req registrant.RegisterRequest, condition, location string, client ClientInfo) (*registrant.Registrant, error) {
	email := registrant.NormalizeEmail(req.Email)

	if _, err := s.store.FindActiveByEmail(ctx, email); err == nil {
		s.metrics.IncrementConflicts()
		return nil, store.ErrDuplicateEmail
	} else if !dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "Registration failed. Please try again.", err)
	}

	saved, err := s.store.Insert(ctx, &registrant.Registrant{
		FullName:  registrant.SanitizeText(req.FullName),
		Email:     email,
		Phone:     registrant.SanitizeText(req.Phone),
		Condition: condition,
		Location:  location,
		Consent:   req.ConsentGranted(),
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			// Lost the race to a concurrent insert; the store's constraint
			// guarantees a single winner.
			s.metrics.IncrementConflicts()
			return nil, err
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "Registration failed. Please try again.", err)
	}
	s.metrics.IncrementRegistrations()
	s.logger.InfoContext(ctx, "new registration", "email", saved.Email)

	s.recordVisitor(ctx, saved, client)
	s.sendWelcome(ctx, saved)
	return saved, nil
}

func (s *Service) searchTrials(ctx context.Context, reg *registrant.Registrant) []trials.TrialSummary {
	result, err := s.searcher.Search(ctx, trials.Query{
		Location:  reg.Location,
		Condition: reg.Condition,
		PageSize:  s.pageSize,
	})
	if err != nil {
		s.metrics.RecordTrialSearch(true)
		s.logger.WarnContext(ctx, "trial search failed after registration",
			"email", reg.Email,
			"error", err,
		)
		return []trials.TrialSummary{}
	}
	s.metrics.RecordTrialSearch(false)
	if result.Studies == nil {
		return []trials.TrialSummary{}
	}
	return result.Studies
}

func (s *Service) recordVisitor(ctx context.Context, reg *registrant.Registrant, client ClientInfo) {
	err := s.visitors.Record(visitorlog.Entry{
		Time:      time.Now(),
		IP:        client.IP,
		UserAgent: client.UserAgent,
		FullName:  reg.FullName,
		Email:     reg.Email,
		Phone:     reg.Phone,
		Condition: reg.Condition,
		Location:  reg.Location,
		Consent:   reg.Consent,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "visitor log write failed", "email", reg.Email, "error", err)
	}
}

func (s *Service) sendWelcome(ctx context.Context, reg *registrant.Registrant) {
	if err := s.mailer.SendWelcome(ctx, *reg); err != nil {
		s.logger.WarnContext(ctx, "welcome email failed", "email", reg.Email, "error", err)
	}
}

// ListActive returns all active registrants, newest first.
func (s *Service) ListActive(ctx context.Context) ([]*registrant.Registrant, error) {
	regs, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "Failed to fetch users", err)
	}
	return regs, nil
}

// Deactivate soft-deletes the active registrant with the given email, freeing
// the address for re-registration.
func (s *Service) Deactivate(ctx context.Context, email string) error {
	if email == "" {
		return dErrors.New(dErrors.CodeValidation, "Email is required")
	}
	if err := s.store.Deactivate(ctx, registrant.NormalizeEmail(email)); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return err
		}
		return dErrors.Wrap(dErrors.CodeInternal, "Failed to delete user", err)
	}
	s.metrics.IncrementDeactivations()
	s.logger.InfoContext(ctx, "registrant deactivated", "email", registrant.NormalizeEmail(email))
	return nil
}

// Stats aggregates counts over active registrants.
func (s *Service) Stats(ctx context.Context) (registrant.Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return registrant.Stats{}, dErrors.Wrap(dErrors.CodeInternal, "Failed to fetch stats", err)
	}
	return stats, nil
}

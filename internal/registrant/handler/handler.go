// Package handler is the thin HTTP layer over the registration workflow.
// Transport concerns stay here; business rules live in the service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinicalgoto/internal/platform/middleware"
	"clinicalgoto/internal/registrant"
	"clinicalgoto/internal/registrant/service"
	"clinicalgoto/internal/transport/http/shared"
	"clinicalgoto/internal/trials"
	dErrors "clinicalgoto/pkg/domain-errors"
)

// Service defines the workflow operations the handler needs.
type Service interface {
	Register(ctx context.Context, req registrant.RegisterRequest, client service.ClientInfo) (*registrant.Registrant, error)
	RegisterAndSearch(ctx context.Context, req registrant.RegisterRequest, client service.ClientInfo) (*registrant.Registrant, []trials.TrialSummary, error)
}

// Handler serves the public registration endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a registration Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the registration routes on the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/register", h.handleRegister)
	r.Post("/api/register-and-search", h.handleRegisterAndSearch)
}

// RegisterResponse confirms a registration without trials.
type RegisterResponse struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message"`
	Subscriber registrant.Subscriber `json:"subscriber"`
}

// RegisterAndSearchResponse confirms a registration and carries the matched
// trials, which may be empty when the upstream search degraded.
type RegisterAndSearchResponse struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message"`
	Subscriber registrant.Subscriber `json:"subscriber"`
	Trials     []trials.TrialSummary `json:"trials"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registrant.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid request body"))
		return
	}

	saved, err := h.service.Register(ctx, req, clientInfo(r))
	if err != nil {
		h.logError(ctx, "registration failed", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Success:    true,
		Message:    "Registration successful! Welcome email sent if email service is configured.",
		Subscriber: saved.PublicProjection(false),
	})
}

func (h *Handler) handleRegisterAndSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registrant.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid request body"))
		return
	}

	saved, found, err := h.service.RegisterAndSearch(ctx, req, clientInfo(r))
	if err != nil {
		h.logError(ctx, "registration and search failed", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, RegisterAndSearchResponse{
		Success:    true,
		Message:    "Registration successful! Clinical trials found.",
		Subscriber: saved.PublicProjection(true),
		Trials:     found,
	})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	attrs := []any{
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	}
	switch dErrors.GetCode(err) {
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeConflict:
		h.logger.WarnContext(ctx, msg, attrs...)
	default:
		h.logger.ErrorContext(ctx, msg, attrs...)
	}
}

func clientInfo(r *http.Request) service.ClientInfo {
	return service.ClientInfo{
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

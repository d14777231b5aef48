// Package handler serves the admin panel API: login, logout, the registrant
// listing, soft deletion, and aggregate stats. Everything except login and
// logout sits behind the session-cookie middleware.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinicalgoto/internal/admin/auth"
	"clinicalgoto/internal/platform/middleware"
	"clinicalgoto/internal/registrant"
	"clinicalgoto/internal/transport/http/shared"
	dErrors "clinicalgoto/pkg/domain-errors"
)

// Directory is the slice of the registration workflow the admin panel needs.
type Directory interface {
	ListActive(ctx context.Context) ([]*registrant.Registrant, error)
	Deactivate(ctx context.Context, email string) error
	Stats(ctx context.Context) (registrant.Stats, error)
}

// Handler serves the admin endpoints.
type Handler struct {
	auth      *auth.Service
	directory Directory
	logger    *slog.Logger
}

// New creates an admin Handler.
func New(authService *auth.Service, directory Directory, logger *slog.Logger) *Handler {
	return &Handler{auth: authService, directory: directory, logger: logger}
}

// Register mounts the admin routes on the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/admin/login", h.handleLogin)
	r.Post("/api/admin/logout", h.handleLogout)
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAdmin)
		r.Get("/api/admin/users", h.handleListUsers)
		r.Post("/api/admin/users/delete", h.handleDeleteUser)
		r.Get("/api/admin/stats", h.handleStats)
	})
}

// LoginRequest is the admin login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid request body"))
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "admin login rejected",
			"request_id", middleware.GetRequestID(ctx),
			"username", req.Username,
		)
		shared.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.auth.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	h.logger.InfoContext(ctx, "admin logged in", "username", req.Username)
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.directory.ListActive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list registrants",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}

// DeleteUserRequest identifies the registrant to deactivate by email.
type DeleteUserRequest struct {
	Email string `json:"email"`
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DeleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.directory.Deactivate(ctx, req.Email); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) && !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "failed to deactivate registrant",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "registrant deactivated", "email", req.Email)
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "User deleted successfully",
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.directory.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute stats",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"clinicalgoto/internal/admin/auth"
	"clinicalgoto/internal/admin/handler/mocks"
	"clinicalgoto/internal/registrant"
	dErrors "clinicalgoto/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/admin-mocks.go -package=mocks Directory
type AdminHandlerSuite struct {
	suite.Suite
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerSuite))
}

func newTestRouter(t *testing.T) (*chi.Mux, *auth.Service, *mocks.MockDirectory) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	directory := mocks.NewMockDirectory(ctrl)

	authService, err := auth.NewService("admin", "admin123", "test-secret", time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := New(authService, directory, logger)
	r := chi.NewRouter()
	handler.Register(r)
	return r, authService, directory
}

func loginCookie(t *testing.T, authService *auth.Service) *http.Cookie {
	t.Helper()
	token, err := authService.Login("admin", "admin123")
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

func (s *AdminHandlerSuite) TestLoginSetsCookie() {
	r, _, _ := newTestRouter(s.T())

	body := []byte(`{"username":"admin","password":"admin123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.Len(s.T(), cookies, 1)
	assert.Equal(s.T(), auth.CookieName, cookies[0].Name)
	assert.NotEmpty(s.T(), cookies[0].Value)
	assert.True(s.T(), cookies[0].HttpOnly)

	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), true, resp["success"])
	assert.Equal(s.T(), "Login successful", resp["message"])
}

func (s *AdminHandlerSuite) TestLoginBadCredentials() {
	r, _, _ := newTestRouter(s.T())

	body := []byte(`{"username":"admin","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Empty(s.T(), w.Result().Cookies())
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "Invalid username or password", resp["error"])
}

func (s *AdminHandlerSuite) TestLogoutClearsCookie() {
	r, _, _ := newTestRouter(s.T())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(s.T(), cookies, 1)
	assert.Equal(s.T(), auth.CookieName, cookies[0].Name)
	assert.Empty(s.T(), cookies[0].Value)
	assert.Negative(s.T(), cookies[0].MaxAge)
}

func (s *AdminHandlerSuite) TestListUsersRequiresSession() {
	r, _, _ := newTestRouter(s.T())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *AdminHandlerSuite) TestListUsers() {
	r, authService, directory := newTestRouter(s.T())
	directory.EXPECT().ListActive(gomock.Any()).Return([]*registrant.Registrant{
		{
			ID:           "reg_abc",
			FullName:     "Jane Doe",
			Email:        "jane.doe@example.com",
			Phone:        "5551234567",
			Condition:    "Diabetes",
			Location:     "Boston",
			Consent:      true,
			RegisteredAt: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
			IsActive:     true,
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(loginCookie(s.T(), authService))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), true, resp["success"])
	assert.Equal(s.T(), float64(1), resp["total"])
	users := resp["users"].([]any)
	require.Len(s.T(), users, 1)
	first := users[0].(map[string]any)
	assert.Equal(s.T(), "jane.doe@example.com", first["email"])
	assert.Equal(s.T(), true, first["isActive"])
}

func (s *AdminHandlerSuite) TestDeleteUser() {
	r, authService, directory := newTestRouter(s.T())
	directory.EXPECT().Deactivate(gomock.Any(), "jane.doe@example.com").Return(nil)

	body := []byte(`{"email":"jane.doe@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/delete", bytes.NewReader(body))
	req.AddCookie(loginCookie(s.T(), authService))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "User deleted successfully", resp["message"])
}

func (s *AdminHandlerSuite) TestDeleteUserNotFound() {
	r, authService, directory := newTestRouter(s.T())
	directory.EXPECT().Deactivate(gomock.Any(), "ghost@example.com").
		Return(dErrors.New(dErrors.CodeNotFound, "User not found"))

	body := []byte(`{"email":"ghost@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/users/delete", bytes.NewReader(body))
	req.AddCookie(loginCookie(s.T(), authService))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "User not found", resp["error"])
}

func (s *AdminHandlerSuite) TestStats() {
	r, authService, directory := newTestRouter(s.T())
	directory.EXPECT().Stats(gomock.Any()).
		Return(registrant.Stats{Total: 10, Recent: 3, Consented: 7}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.AddCookie(loginCookie(s.T(), authService))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	stats := resp["stats"].(map[string]any)
	assert.Equal(s.T(), float64(10), stats["total"])
	assert.Equal(s.T(), float64(3), stats["recent"])
	assert.Equal(s.T(), float64(7), stats["consented"])
}

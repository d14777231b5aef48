package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "clinicalgoto/pkg/domain-errors"
)

type AuthSuite struct {
	suite.Suite
	service *Service
}

func (s *AuthSuite) SetupTest() {
	service, err := NewService("admin", "admin123", "test-secret", time.Hour)
	require.NoError(s.T(), err)
	s.service = service
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) TestLoginAndValidate() {
	token, err := s.service.Login("admin", "admin123")
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), token)

	claims, err := s.service.ValidateToken(token)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "admin", claims.Username)
}

func (s *AuthSuite) TestLoginWrongPassword() {
	_, err := s.service.Login("admin", "nope")
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Equal(s.T(), "Invalid username or password", dErrors.ClientMessage(err))
}

func (s *AuthSuite) TestLoginWrongUsername() {
	_, err := s.service.Login("root", "admin123")
	require.Error(s.T(), err)
	assert.Equal(s.T(), "Invalid username or password", dErrors.ClientMessage(err))
}

func (s *AuthSuite) TestValidateGarbageToken() {
	_, err := s.service.ValidateToken("not-a-token")
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *AuthSuite) TestExpiredToken() {
	issued := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	clock := issued
	service, err := NewService("admin", "admin123", "test-secret", time.Hour,
		WithClock(func() time.Time { return clock }))
	require.NoError(s.T(), err)

	token, err := service.Login("admin", "admin123")
	require.NoError(s.T(), err)

	clock = issued.Add(2 * time.Hour)
	_, err = service.ValidateToken(token)
	require.Error(s.T(), err)
	assert.Equal(s.T(), "Session expired", dErrors.ClientMessage(err))
}

func (s *AuthSuite) TestRequireAdmin() {
	var gotUser string
	protected := s.service.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = r.Context().Value(ContextKeyAdminUser).(string)
		w.WriteHeader(http.StatusOK)
	}))

	// No cookie.
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "Authentication required", resp["error"])

	// Valid cookie.
	token, err := s.service.Login("admin", "admin123")
	require.NoError(s.T(), err)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "admin", gotUser)

	// Tampered cookie.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token + "x"})
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

// Package auth guards the admin panel with a single configured credential
// pair and short-lived signed session tokens carried in an HTTP-only cookie.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"clinicalgoto/internal/transport/http/shared"
	dErrors "clinicalgoto/pkg/domain-errors"
)

// CookieName is the cookie carrying the admin session token.
const CookieName = "admin_token"

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so the response does not reveal which part failed.
var ErrInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "Invalid username or password")

// Claims are the session token claims.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service validates admin credentials and issues session tokens.
type Service struct {
	username     string
	passwordHash []byte
	signingKey   []byte
	ttl          time.Duration
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService hashes the configured password once at startup. The plaintext is
// not retained.
func NewService(username, password, secret string, ttl time.Duration, opts ...Option) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	s := &Service{
		username:     username,
		passwordHash: hash,
		signingKey:   []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login checks the credentials and returns a signed session token.
func (s *Service) Login(username, password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) != 1 {
		// Still burn a bcrypt comparison so timing does not reveal
		// whether the username matched.
		_ = bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "failed to sign session token", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a session token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "Session expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Authentication required")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Authentication required")
	}
	return claims, nil
}

// TTL reports the configured session lifetime, used to set the cookie expiry.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

type contextKey string

// ContextKeyAdminUser holds the authenticated admin username.
const ContextKeyAdminUser contextKey = "admin_user"

// RequireAdmin rejects requests without a valid session cookie.
func (s *Service) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Authentication required"))
			return
		}
		claims, err := s.ValidateToken(cookie.Value)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ContextKeyAdminUser, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/biztime"
)

// SessionClaims carry the authenticated user's identity in the session
// cookie. Role and center scope are re-read from the database on every
// request; the token only proves who is signed in.
type SessionClaims struct {
	UserSID string                 `json:"user_sid"`
	Email   string                 `json:"email"`
	Role    authorization.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// SessionService issues and verifies the signed session tokens stored in
// the session cookie.
type SessionService struct {
	secret        []byte
	sessionExpDay int
}

// NewSessionService creates a new SessionService
func NewSessionService(secret string, sessionExpDays int) *SessionService {
	return &SessionService{
		secret:        []byte(secret),
		sessionExpDay: sessionExpDays,
	}
}

// Generate creates a signed session token for the given user
func (s *SessionService) Generate(userSID, email string, role authorization.UserRole) (string, error) {
	now := biztime.NowUTC()
	exp := now.Add(time.Duration(s.sessionExpDay) * 24 * time.Hour)

	claims := &SessionClaims{
		UserSID: userSID,
		Email:   email,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a session token
func (s *SessionService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// MaxAgeSeconds returns the cookie lifetime in seconds
func (s *SessionService) MaxAgeSeconds() int {
	return s.sessionExpDay * 24 * 60 * 60
}

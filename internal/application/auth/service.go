package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/user"
	infraauth "github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/auth"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/cache"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/id"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

// DefaultRedirectPath is where a login lands when no safe next path was
// requested.
const DefaultRedirectPath = "/dashboard"

// Failure codes surfaced to the login page as ?error= values.
const (
	FailureUnauthorizedDomain = "unauthorized_domain"
	FailureNotRegistered      = "not_registered"
	FailureDeactivated        = "deactivated"
	FailureAuthError          = "auth_error"
)

// LoginFailure is a login rejection with a stable code the frontend can
// translate. It deliberately carries no account details.
type LoginFailure struct {
	Code string
}

func (e *LoginFailure) Error() string {
	return "login failed: " + e.Code
}

// LoginResult is a completed sign-in: the session token to set and where
// to send the browser.
type LoginResult struct {
	Token    string
	NextPath string
	User     *user.User
}

// OAuthClient is the subset of the Google client the login flow needs.
type OAuthClient interface {
	GetAuthURL(state string) (authURL string, codeVerifier string, err error)
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (string, error)
	GetUserInfo(ctx context.Context, accessToken string) (*infraauth.OAuthUserInfo, error)
}

// Service runs the Google sign-in flow. Accounts are pre-provisioned by
// admins: sign-in never creates users, it only matches existing rows by
// email.
type Service struct {
	oauthClient    OAuthClient
	stateStore     *cache.OAuthStateStore
	sessions       *infraauth.SessionService
	userRepo       user.Repository
	allowedDomains []string
	logger         logger.Interface
}

// NewService creates a new auth service
func NewService(
	oauthClient OAuthClient,
	stateStore *cache.OAuthStateStore,
	sessions *infraauth.SessionService,
	userRepo user.Repository,
	allowedDomains []string,
	logger logger.Interface,
) *Service {
	return &Service{
		oauthClient:    oauthClient,
		stateStore:     stateStore,
		sessions:       sessions,
		userRepo:       userRepo,
		allowedDomains: allowedDomains,
		logger:         logger,
	}
}

// StartLogin begins the OAuth flow and returns the consent URL to
// redirect to. next is the in-app path to resume after sign-in.
func (s *Service) StartLogin(ctx context.Context, next string) (string, error) {
	state, err := id.Generate(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	authURL, codeVerifier, err := s.oauthClient.GetAuthURL(state)
	if err != nil {
		return "", fmt.Errorf("failed to build auth URL: %w", err)
	}

	err = s.stateStore.Store(ctx, state, cache.OAuthState{
		CodeVerifier: codeVerifier,
		NextPath:     SanitizeRedirectPath(next),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store login state: %w", err)
	}

	return authURL, nil
}

// CompleteLogin finishes the OAuth flow. Any rejection comes back as a
// *LoginFailure with a stable code; everything else is an internal error.
func (s *Service) CompleteLogin(ctx context.Context, state, code string) (*LoginResult, error) {
	loginState, err := s.stateStore.Consume(ctx, state)
	if err != nil {
		s.logger.Warn("login state rejected", "error", err)
		return nil, &LoginFailure{Code: FailureAuthError}
	}

	accessToken, err := s.oauthClient.ExchangeCode(ctx, code, loginState.CodeVerifier)
	if err != nil {
		s.logger.Warn("code exchange failed", "error", err)
		return nil, &LoginFailure{Code: FailureAuthError}
	}

	info, err := s.oauthClient.GetUserInfo(ctx, accessToken)
	if err != nil {
		s.logger.Warn("failed to fetch user info", "error", err)
		return nil, &LoginFailure{Code: FailureAuthError}
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))
	if !s.isAllowedDomain(email) {
		s.logger.Warn("sign-in from unauthorized domain", "email", email)
		return nil, &LoginFailure{Code: FailureUnauthorizedDomain}
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == user.ErrUserNotFound {
			s.logger.Warn("sign-in by unregistered email", "email", email)
			return nil, &LoginFailure{Code: FailureNotRegistered}
		}
		s.logger.Error("failed to look up user", "error", err)
		return nil, &LoginFailure{Code: FailureAuthError}
	}

	if !u.IsActive() {
		s.logger.Warn("sign-in by deactivated user", "email", email)
		return nil, &LoginFailure{Code: FailureDeactivated}
	}

	token, err := s.sessions.Generate(u.SID(), u.Email(), u.Role())
	if err != nil {
		s.logger.Error("failed to issue session token", "error", err)
		return nil, &LoginFailure{Code: FailureAuthError}
	}

	nextPath := loginState.NextPath
	if nextPath == "" {
		nextPath = DefaultRedirectPath
	}

	s.logger.Info("user signed in", "user_sid", u.SID(), "role", u.Role().String())

	return &LoginResult{
		Token:    token,
		NextPath: nextPath,
		User:     u,
	}, nil
}

// ResolveActor loads the current user row for a verified session and
// builds the access actor. The database row wins over anything in the
// token: deactivation and role changes take effect on the next request.
func (s *Service) ResolveActor(ctx context.Context, userSID string) (*user.User, access.Actor, error) {
	u, err := s.userRepo.GetBySID(ctx, userSID)
	if err != nil {
		return nil, access.Actor{}, err
	}
	if !u.IsActive() {
		return nil, access.Actor{}, user.ErrUserNotFound
	}

	return u, access.Actor{
		UserID:          u.ID(),
		Role:            u.Role(),
		CenterIDs:       u.CenterIDs(),
		LinkedSubjectID: u.LinkedSubjectID(),
	}, nil
}

func (s *Service) isAllowedDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := email[at+1:]
	for _, allowed := range s.allowedDomains {
		if domain == allowed {
			return true
		}
	}
	return false
}

// SanitizeRedirectPath keeps post-login redirects inside the app. Only
// same-origin absolute paths survive; scheme-relative ("//host") and
// absolute ("https://host") URLs fall back to the dashboard.
func SanitizeRedirectPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") {
		return DefaultRedirectPath
	}
	if strings.HasPrefix(p, "//") || strings.Contains(p, "://") {
		return DefaultRedirectPath
	}
	return p
}

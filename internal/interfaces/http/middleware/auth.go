package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appauth "github.com/rahul-raghavan/pep-ops-log/internal/application/auth"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/user"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/auth"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/config"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/constants"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/utils"
)

// Context keys set by RequireAuth.
const (
	ContextKeyUser  = "current_user"
	ContextKeyActor = "actor"
)

type SessionMiddleware struct {
	sessions  *auth.SessionService
	authSvc   *appauth.Service
	cookieCfg config.CookieConfig
	logger    logger.Interface
}

func NewSessionMiddleware(
	sessions *auth.SessionService,
	authSvc *appauth.Service,
	cookieCfg config.CookieConfig,
	logger logger.Interface,
) *SessionMiddleware {
	return &SessionMiddleware{
		sessions:  sessions,
		authSvc:   authSvc,
		cookieCfg: cookieCfg,
		logger:    logger,
	}
}

// RequireAuth verifies the session cookie and resolves the current user
// row on every request. The row wins over the token: a deactivated or
// re-roled user is cut off on their next request, not at token expiry.
func (m *SessionMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.GetTokenFromCookie(c, utils.SessionTokenCookie)

		// Fallback to Authorization header for non-browser clients
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				utils.ErrorResponse(c, http.StatusUnauthorized, "missing session token")
				c.Abort()
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
				c.Abort()
				return
			}

			token = parts[1]
		}

		claims, err := m.sessions.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify session token", "error", err)
			utils.ClearSessionCookie(c, m.cookieCfg)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}

		u, actor, err := m.authSvc.ResolveActor(c.Request.Context(), claims.UserSID)
		if err != nil {
			m.logger.Warnw("session no longer maps to an active user", "user_sid", claims.UserSID, "error", err)
			utils.ClearSessionCookie(c, m.cookieCfg)
			utils.ErrorResponse(c, http.StatusUnauthorized, "session is no longer valid")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, u.ID())
		c.Set(ContextKeyUser, u)
		c.Set(ContextKeyActor, actor)
		c.Set(authorization.ContextKeyUserRole, string(u.Role()))

		c.Next()
	}
}

// CurrentActor returns the access actor set by RequireAuth.
func CurrentActor(c *gin.Context) (access.Actor, bool) {
	v, exists := c.Get(ContextKeyActor)
	if !exists {
		return access.Actor{}, false
	}
	actor, ok := v.(access.Actor)
	return actor, ok
}

// CurrentUser returns the user row set by RequireAuth.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok
}

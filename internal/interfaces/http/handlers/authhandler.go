package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	appauth "github.com/rahul-raghavan/pep-ops-log/internal/application/auth"
	userapp "github.com/rahul-raghavan/pep-ops-log/internal/application/user"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/auth"
	"github.com/rahul-raghavan/pep-ops-log/internal/interfaces/http/middleware"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/config"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/utils"
)

// LoginErrorPath is where failed sign-ins land, with ?error=<code>.
const LoginErrorPath = "/login"

type AuthHandler struct {
	authSvc   *appauth.Service
	userSvc   *userapp.Service
	sessions  *auth.SessionService
	cookieCfg config.CookieConfig
	logger    logger.Interface
}

func NewAuthHandler(
	authSvc *appauth.Service,
	userSvc *userapp.Service,
	sessions *auth.SessionService,
	cookieCfg config.CookieConfig,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		authSvc:   authSvc,
		userSvc:   userSvc,
		sessions:  sessions,
		cookieCfg: cookieCfg,
		logger:    logger,
	}
}

// GoogleLogin godoc
// @Summary Start Google sign-in
// @Description Redirects the browser to the Google consent screen. The next query parameter is the in-app path to resume after sign-in.
// @Tags auth
// @Param next query string false "Post-login redirect path"
// @Success 302 "Redirect to Google"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	authURL, err := h.authSvc.StartLogin(c.Request.Context(), c.Query("next"))
	if err != nil {
		h.logger.Errorw("failed to start login", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback godoc
// @Summary Complete Google sign-in
// @Description Handles the OAuth callback, sets the session cookie and redirects into the app. Rejections redirect to the login page with a stable error code.
// @Tags auth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 302 "Redirect into the app"
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	if state == "" || code == "" {
		c.Redirect(http.StatusFound, loginErrorURL(appauth.FailureAuthError))
		return
	}

	result, err := h.authSvc.CompleteLogin(c.Request.Context(), state, code)
	if err != nil {
		var failure *appauth.LoginFailure
		if errors.As(err, &failure) {
			c.Redirect(http.StatusFound, loginErrorURL(failure.Code))
			return
		}
		h.logger.Errorw("login failed unexpectedly", "error", err)
		c.Redirect(http.StatusFound, loginErrorURL(appauth.FailureAuthError))
		return
	}

	utils.SetSessionCookie(c, h.cookieCfg, result.Token, h.sessions.MaxAgeSeconds())
	c.Redirect(http.StatusFound, result.NextPath)
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie
// @Security SessionCookie
// @Tags auth
// @Produce json
// @Success 200 {object} utils.APIResponse "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.ClearSessionCookie(c, h.cookieCfg)
	utils.SuccessResponse(c, http.StatusOK, "logged out", nil)
}

// Me godoc
// @Summary Current user
// @Description Returns the signed-in user's account
// @Security SessionCookie
// @Tags auth
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	resp, err := h.userSvc.Get(c.Request.Context(), u.SID())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, resp)
}

func loginErrorURL(code string) string {
	return LoginErrorPath + "?error=" + url.QueryEscape(code)
}

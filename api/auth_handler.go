package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/rankforge/site-backend/auth"
	"github.com/rankforge/site-backend/content"
	"github.com/rankforge/site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder   Responder
	logger      zerolog.Logger
	tokens      TokenIssuer
	credentials auth.Credentials
	secure      bool
}

func newAuthHandler(tokens TokenIssuer, credentials auth.Credentials, secureCookies bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		tokens:      tokens,
		credentials: credentials,
		secure:      secureCookies,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token for the admin UI.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// login checks the admin credentials and issues a token, also set as an HttpOnly cookie
// @Summary Admin login
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse "Invalid username or password"
// @Failure 429 {object} ErrorResponse
// @Router /api/admin/login [post]
func (h authHandler) login() http.HandlerFunc {
	return h.responder.Handle("login", func(r *http.Request) (Result, error) {
		if h.tokens == nil {
			return Result{}, errs.NewServiceNotConfiguredError("Admin login")
		}
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			return Result{}, err
		}
		v := &content.Validator{}
		v.Check(strings.TrimSpace(req.Username) != "", "username", "Username is required")
		v.Check(req.Password != "", "password", "Password is required")
		if err := v.Err(); err != nil {
			return Result{}, err
		}

		if !h.credentials.Verify(strings.TrimSpace(req.Username), req.Password) {
			h.logger.Warn().Str("ip", clientIP(r)).Msg("failed login attempt")
			return Result{}, errs.NewInvalidCredentialsError()
		}

		token, expiresAt, err := h.tokens.Issue(h.credentials.Username)
		if err != nil {
			return Result{}, errs.NewInternalError("could not issue token").WithCause(err)
		}

		cookie := &http.Cookie{
			Name:     auth.CookieName,
			Value:    token,
			Path:     "/",
			Expires:  expiresAt,
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteStrictMode,
		}
		res := OK(LoginResponse{Token: token, ExpiresAt: expiresAt})
		res.Message = "Login successful"
		res.Header = http.Header{"Set-Cookie": []string{cookie.String()}}
		return res, nil
	})
}

func (h authHandler) logout() http.HandlerFunc {
	return h.responder.Handle("logout", func(r *http.Request) (Result, error) {
		cookie := &http.Cookie{
			Name:     auth.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteStrictMode,
		}
		res := Deleted("Logged out")
		res.Header = http.Header{"Set-Cookie": []string{cookie.String()}}
		return res, nil
	})
}

// me returns the identity the request was authenticated as.
func (h authHandler) me() http.HandlerFunc {
	return h.responder.Handle("me", func(r *http.Request) (Result, error) {
		identity, ok := ctxGetIdentity(r.Context())
		if !ok {
			return Result{}, errs.Unauthorized
		}
		return OK(map[string]any{
			"username":   identity.Subject,
			"expires_at": identity.ExpiresAt,
		}), nil
	})
}

package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/musamusakannike/creator-ai-backend2/internal/auth/provider"
	"github.com/musamusakannike/creator-ai-backend2/internal/middleware"
	"github.com/musamusakannike/creator-ai-backend2/internal/session"
	"github.com/musamusakannike/creator-ai-backend2/internal/token"
	"github.com/musamusakannike/creator-ai-backend2/internal/user"
)

// legacy browser-session lifetime; unrelated to the bearer token TTL
const sessionLifetime = 24 * time.Hour

type Handler struct {
	provider     provider.OAuthProvider
	users        user.Store
	tokens       *token.Manager
	sessionStore session.Store
	authn        *middleware.Authenticator

	frontendCallbackURL string
	failureURL          string
}

func NewHandler(
	p provider.OAuthProvider,
	users user.Store,
	tokens *token.Manager,
	sessionStore session.Store,
	authn *middleware.Authenticator,
	frontendCallbackURL string,
	failureURL string,
) *Handler {
	return &Handler{
		provider:            p,
		users:               users,
		tokens:              tokens,
		sessionStore:        sessionStore,
		authn:               authn,
		frontendCallbackURL: frontendCallbackURL,
		failureURL:          failureURL,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/google", h.login)
	r.GET("/auth/google/callback", h.callback)
	r.GET("/auth/success", h.loginSuccess)
	r.GET("/auth/failure", h.loginFailure)
	r.GET("/auth/logout", h.logout)
}

// login kicks off the authorization-code flow. The only state that
// survives until the callback lives in the state and PKCE cookies.
func (h *Handler) login(c *gin.Context) {
	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := h.provider.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

// callback finishes the flow: exchange the code, upsert the identity
// record, mint a bearer token and hand it to the front-end. Every
// failure path aborts without minting anything.
func (h *Handler) callback(c *gin.Context) {
	if !validateState(c) {
		slog.Warn("oauth callback with invalid state")
		h.redirectFailure(c)
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		slog.Warn("oauth callback returned error",
			"error", errParam,
			"desc", c.Query("error_description"),
		)
		h.redirectFailure(c)
		return
	}

	code := c.Query("code")
	if code == "" {
		slog.Error("oauth callback missing code and error")
		h.redirectFailure(c)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		slog.Warn("oauth callback missing pkce verifier")
		h.redirectFailure(c)
		return
	}

	identity, err := h.provider.ExchangeCode(
		c.Request.Context(),
		code,
		codeVerifier,
	)
	if err != nil {
		slog.Error("provider exchange failed", "error", err.Error())
		h.redirectFailure(c)
		return
	}

	u, err := h.users.Upsert(
		c.Request.Context(),
		identity.GoogleID,
		identity.Email,
		identity.AccessToken,
	)
	if err != nil {
		slog.Error("identity upsert failed", "error", err.Error())
		h.redirectFailure(c)
		return
	}

	bearer, err := h.tokens.Issue(u.ID, u.Email)
	if err != nil {
		slog.Error("token issue failed", "error", err.Error())
		h.redirectFailure(c)
		return
	}

	// Legacy browser session, best effort. The bearer token is the
	// real credential; a session failure must not fail the login.
	h.createSession(c, u.ID.String())

	slog.Info("login succeeded", "user_id", u.ID.String())

	c.Redirect(
		http.StatusFound,
		h.frontendCallbackURL+"?token="+url.QueryEscape(bearer),
	)
}

func (h *Handler) createSession(c *gin.Context, userID string) {
	sessionID, err := session.GenerateID()
	if err != nil {
		slog.Warn("session id generation failed", "error", err.Error())
		return
	}

	sess := session.Session{
		SessionID: sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionLifetime),
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		slog.Warn("session create failed", "error", err.Error())
		return
	}

	session.SetCookie(c.Writer, sessionID, sess.ExpiresAt)
}

func (h *Handler) redirectFailure(c *gin.Context) {
	c.Redirect(http.StatusFound, h.failureURL)
}

// loginSuccess reflects the authenticated identity back to the caller.
// The bearer header is optional here; without one the endpoint reports
// not-authenticated instead of gating.
func (h *Handler) loginSuccess(c *gin.Context) {
	u, err := h.authn.Authenticate(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":    u.ID.String(),
			"email": u.Email,
		},
	})
}

func (h *Handler) loginFailure(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"message": "Login failed"})
}

// logout invalidates the legacy server-side session, if any. Bearer
// tokens are stateless and simply age out.
func (h *Handler) logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessionStore.Delete(c.Request.Context(), cookie.Value); err != nil {
			slog.Warn("session delete failed", "error", err.Error())
		}
	}

	session.ClearCookie(c.Writer)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

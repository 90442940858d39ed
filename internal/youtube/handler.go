package youtube

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/musamusakannike/creator-ai-backend2/internal/middleware"
)

// Handler exposes the read-only dashboard endpoints. Both routes sit
// behind the bearer gate; the provider access token comes from the
// resolved identity record, never from the request.
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, authn *middleware.Authenticator) {
	group := r.Group("/youtube")
	group.Use(middleware.GinRequireAuth(authn))

	group.GET("/analytics", h.analytics)
	group.GET("/contents", h.contents)
}

func (h *Handler) analytics(c *gin.Context) {
	accessToken, ok := h.accessToken(c)
	if !ok {
		return
	}

	stats, err := h.client.DashboardStats(c.Request.Context(), accessToken)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) contents(c *gin.Context) {
	accessToken, ok := h.accessToken(c)
	if !ok {
		return
	}

	contents, err := h.client.ChannelContents(c.Request.Context(), accessToken)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contents": contents})
}

func (h *Handler) accessToken(c *gin.Context) (string, bool) {
	u, ok := middleware.UserFromContext(c.Request.Context())
	if !ok {
		// The gate attaches the user; reaching here without one is a
		// wiring bug, not a client error.
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return "", false
	}
	if u.YouTubeAccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No YouTube access token found"})
		return "", false
	}
	return u.YouTubeAccessToken, true
}

// writeError maps downstream failures. An expired or revoked provider
// token is a hard failure of the upstream call, not of the bearer auth.
func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrChannelNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Channel not found"})
		return
	}

	slog.Error("youtube request failed", "error", err.Error())
	c.JSON(http.StatusBadGateway, gin.H{"message": "YouTube request failed"})
}

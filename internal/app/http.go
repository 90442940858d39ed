package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/musamusakannike/creator-ai-backend2/internal/auth/handler"
	"github.com/musamusakannike/creator-ai-backend2/internal/auth/provider/google"
	"github.com/musamusakannike/creator-ai-backend2/internal/config"
	"github.com/musamusakannike/creator-ai-backend2/internal/middleware"
	"github.com/musamusakannike/creator-ai-backend2/internal/session"
	"github.com/musamusakannike/creator-ai-backend2/internal/token"
	"github.com/musamusakannike/creator-ai-backend2/internal/user"
	"github.com/musamusakannike/creator-ai-backend2/internal/youtube"
)

func setupHTTP(ctx context.Context, cfg *config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, using insecure default; tokens are forgeable")
	}
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)

	users := user.NewPGStore(infra.DB)
	sessionStore := session.NewRedisStore(infra.Redis.Client)

	googleProvider, err := google.New(
		ctx,
		cfg.Google.ClientID,
		cfg.Google.ClientSecret,
		cfg.Google.RedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	authn := middleware.NewAuthenticator(tokens, users)

	authHandler := handler.NewHandler(
		googleProvider,
		users,
		tokens,
		sessionStore,
		authn,
		cfg.Frontend.CallbackURL,
		cfg.Frontend.FailureURL,
	)

	youtubeHandler := youtube.NewHandler(youtube.NewClient())

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORS)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler.RegisterRoutes(router)
	youtubeHandler.RegisterRoutes(router, authn)

	return router, func() error {
		return infra.DB.Close()
	}, nil
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")

	if cfg.AllowedOrigins == "" || cfg.AllowedOrigins == "*" {
		c.AllowAllOrigins = true
		return c
	}

	c.AllowOrigins = strings.Split(cfg.AllowedOrigins, ",")
	return c
}

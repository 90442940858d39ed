package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration. Values come from the
// environment and are never mutated after Load.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Google   GoogleConfig
	Auth     AuthConfig
	Frontend FrontendConfig
	CORS     CORSConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `env:"APP_PORT"                env-default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN string `env:"DATABASE_DSN" env-required:"true"`
}

// RedisConfig holds settings for the legacy session store.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
}

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"     env-required:"true"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET" env-required:"true"`
	RedirectURL  string `env:"GOOGLE_CALLBACK_URL"  env-required:"true"`
}

// AuthConfig holds bearer-token settings. An empty JWTSecret does not
// fail Load; the token manager falls back to an insecure default and
// the condition is logged at startup instead.
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	JWTIssuer string        `env:"JWT_ISSUER" env-default:"creator-dashboard"`
	TokenTTL  time.Duration `env:"JWT_EXPIRY" env-default:"1h"`
}

// FrontendConfig holds the URLs the auth flow redirects back to.
type FrontendConfig struct {
	CallbackURL string `env:"FRONTEND_CALLBACK_URL" env-default:"http://localhost:3000/auth/callback"`
	FailureURL  string `env:"FRONTEND_FAILURE_URL"  env-default:"/auth/failure"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	return &cfg, nil
}

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultInsecureSecret is used when no signing secret is configured.
// Deploying with it means every issued token is forgeable; startup logs
// a warning but the process keeps running.
const DefaultInsecureSecret = "your_jwt_secret_key"

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, malformed structure, wrong issuer, or past expiry.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity payload carried by an issued token.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

// Manager issues and verifies signed bearer tokens. The signing secret
// is fixed at construction and never changes for the process lifetime.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewManager creates a token manager. An empty secret falls back to
// DefaultInsecureSecret.
func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	if secret == "" {
		secret = DefaultInsecureSecret
	}
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

type userClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Issue creates a signed HS256 token carrying the user's id and email,
// expiring after the configured lifetime.
func (m *Manager) Issue(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := userClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns the embedded
// claims. Signature and expiry are checked; there is no grace period.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &userClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*userClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != m.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return &Claims{UserID: userID, Email: claims.Email}, nil
}

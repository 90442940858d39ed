package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound signals that no user matched the lookup key.
	ErrNotFound = errors.New("user not found")

	// ErrConflict signals a store-level uniqueness violation, e.g. two
	// concurrent first logins racing on the same email. Not retried
	// here; the caller treats the exchange as failed.
	ErrConflict = errors.New("user conflicts with an existing record")
)

// User is the persisted identity record. GoogleID is the provider's
// stable subject identifier; YouTubeAccessToken is overwritten on every
// successful re-authentication.
type User struct {
	ID                 uuid.UUID
	Email              string
	GoogleID           string
	YouTubeAccessToken string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Store defines how identity records are persisted and looked up.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)

	// Upsert updates the access token of the record matching googleID,
	// or creates a new record when none exists. Repeated logins by the
	// same Google identity never produce duplicates.
	Upsert(ctx context.Context, googleID, email, accessToken string) (*User, error)
}

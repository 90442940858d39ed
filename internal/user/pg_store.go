package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/musamusakannike/creator-ai-backend2/internal/db"
)

const userColumns = `id, email, google_id, youtube_access_token, created_at, updated_at`

// PGStore is the canonical Store implementation backed by PostgreSQL.
// Uniqueness of email and google_id is enforced by the schema, which is
// what makes Upsert safe under concurrent first-time logins.
type PGStore struct {
	db *db.DB
}

func NewPGStore(db *db.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	return scanUser(row)
}

func (s *PGStore) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE google_id = $1
	`, googleID)

	return scanUser(row)
}

func (s *PGStore) Upsert(ctx context.Context, googleID, email, accessToken string) (*User, error) {
	// 1. Existing identity: overwrite the access token in place.
	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET youtube_access_token = $1, updated_at = NOW()
		WHERE google_id = $2
		RETURNING `+userColumns, accessToken, googleID)

	u, err := scanUser(row)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// 2. First login for this identity: create the record. A concurrent
	// insert racing on google_id or email surfaces as a unique
	// violation, mapped to ErrConflict.
	row = s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, google_id, youtube_access_token)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns, email, googleID, accessToken)

	u, err = scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.GoogleID,
		&u.YouTubeAccessToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user: scan: %w", err)
	}
	return &u, nil
}

func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return fmt.Errorf("%w: %v", ErrConflict, pqErr.Constraint)
	}
	return err
}

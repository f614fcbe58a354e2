package identity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Resolver turns a presented bearer token into a verified user id. The
// service never authenticates; it only consumes identities established by
// the credential collaborator.
type Resolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}

// SessionResolver resolves tokens against the sessions table.
type SessionResolver struct {
	db *sqlx.DB
}

// NewSessionResolver constructs a SessionResolver.
func NewSessionResolver(db *sqlx.DB) *SessionResolver {
	return &SessionResolver{db: db}
}

// Resolve returns the user id owning the session token.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (int64, error) {
	var userID int64
	err := r.db.GetContext(ctx, &userID, `SELECT user_id FROM sessions
        WHERE token=$1 AND (expires_at IS NULL OR expires_at > NOW())`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInvalidToken
	}
	return userID, err
}

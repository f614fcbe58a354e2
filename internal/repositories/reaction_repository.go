package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"collab-service/internal/models"
)

// ReactionRepository defines persistence for reactions.
type ReactionRepository interface {
	ListForMessages(ctx context.Context, messageIDs []int64) ([]models.Reaction, error)
	Toggle(ctx context.Context, workspaceID, messageID, memberID int64, value string) (added bool, err error)
}

// ReactionRepo is a sqlx-backed repository.
type ReactionRepo struct {
	db *sqlx.DB
}

// NewReactionRepo constructs ReactionRepo.
func NewReactionRepo(db *sqlx.DB) *ReactionRepo {
	return &ReactionRepo{db: db}
}

// ListForMessages returns all reaction rows whose message id is in the set.
// An empty id set issues no query.
func (r *ReactionRepo) ListForMessages(ctx context.Context, messageIDs []int64) ([]models.Reaction, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, workspace_id, message_id, member_id, value FROM reactions WHERE message_id IN (?)`, messageIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var reactions []models.Reaction
	err = r.db.SelectContext(ctx, &reactions, query, args...)
	return reactions, err
}

// Toggle removes an existing (message, member, value) reaction or inserts a
// new one. Returns whether the reaction now exists.
func (r *ReactionRepo) Toggle(ctx context.Context, workspaceID, messageID, memberID int64, value string) (bool, error) {
	var existingID int64
	err := r.db.GetContext(ctx, &existingID, `SELECT id FROM reactions WHERE message_id=$1 AND member_id=$2 AND value=$3`, messageID, memberID, value)
	if err == nil {
		_, err = r.db.ExecContext(ctx, `DELETE FROM reactions WHERE id=$1`, existingID)
		return false, err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO reactions (workspace_id, message_id, member_id, value) VALUES ($1, $2, $3, $4)
        ON CONFLICT (message_id, member_id, value) DO NOTHING`, workspaceID, messageID, memberID, value)
	return true, err
}

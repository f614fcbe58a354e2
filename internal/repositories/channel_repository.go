package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"collab-service/internal/models"
)

var ErrChannelNotFound = errors.New("channel not found")

// ChannelRepository abstracts channel persistence.
type ChannelRepository interface {
	Create(ctx context.Context, workspaceID int64, name string) (models.Channel, error)
	Get(ctx context.Context, channelID int64) (models.Channel, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]models.Channel, error)
	UpdateName(ctx context.Context, channelID int64, name string) error
	DeleteCascade(ctx context.Context, channelID int64) error
}

// ChannelRepo is a sqlx implementation of ChannelRepository.
type ChannelRepo struct {
	db *sqlx.DB
}

// NewChannelRepo constructs a ChannelRepo.
func NewChannelRepo(db *sqlx.DB) *ChannelRepo {
	return &ChannelRepo{db: db}
}

// Create inserts a channel.
func (r *ChannelRepo) Create(ctx context.Context, workspaceID int64, name string) (models.Channel, error) {
	var ch models.Channel
	err := r.db.QueryRowxContext(ctx, `INSERT INTO channels (workspace_id, name) VALUES ($1, $2)
        RETURNING id, workspace_id, name, created_at`, workspaceID, name).
		StructScan(&ch)
	return ch, err
}

// Get fetches a channel by id.
func (r *ChannelRepo) Get(ctx context.Context, channelID int64) (models.Channel, error) {
	var ch models.Channel
	err := r.db.GetContext(ctx, &ch, `SELECT id, workspace_id, name, created_at FROM channels WHERE id=$1`, channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Channel{}, ErrChannelNotFound
	}
	return ch, err
}

// ListByWorkspace returns the workspace's channels.
func (r *ChannelRepo) ListByWorkspace(ctx context.Context, workspaceID int64) ([]models.Channel, error) {
	var channels []models.Channel
	err := r.db.SelectContext(ctx, &channels, `SELECT id, workspace_id, name, created_at FROM channels WHERE workspace_id=$1 ORDER BY created_at`, workspaceID)
	return channels, err
}

// UpdateName renames a channel.
func (r *ChannelRepo) UpdateName(ctx context.Context, channelID int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE channels SET name=$2 WHERE id=$1`, channelID, name)
	if err != nil {
		return err
	}
	return requireRow(res, ErrChannelNotFound)
}

// DeleteCascade removes the channel's messages and their reactions, then
// the channel, in one transaction.
func (r *ChannelRepo) DeleteCascade(ctx context.Context, channelID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reactions WHERE message_id IN (SELECT id FROM messages WHERE channel_id=$1)`, channelID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE channel_id=$1`, channelID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM channels WHERE id=$1`, channelID)
	if err != nil {
		return err
	}
	if err := requireRow(res, ErrChannelNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

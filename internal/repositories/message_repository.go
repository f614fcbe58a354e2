package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"collab-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageScope is the normalized (channel, conversation, parent) triple that
// drives the exact-match page filter. Nil means "must be NULL", so a channel
// page never leaks thread replies and vice versa.
type MessageScope struct {
	ChannelID       *int64
	ConversationID  *int64
	ParentMessageID *int64
}

// Seek is the pagination key of the last row of the previous page.
type Seek struct {
	CreatedAt time.Time
	ID        int64
}

// ThreadPreview carries the most recent reply's author name/image and
// timestamp for thread summaries.
type ThreadPreview struct {
	AuthorName *string    `db:"author_name"`
	Image      *string    `db:"author_image"`
	CreatedAt  *time.Time `db:"created_at"`
}

// MessageRepository defines persistence for messages and the feed queries.
type MessageRepository interface {
	Create(ctx context.Context, msg models.Message) (models.Message, error)
	Get(ctx context.Context, messageID int64) (models.Message, error)
	UpdateBody(ctx context.Context, messageID int64, body string) (models.Message, error)
	DeleteWithReactions(ctx context.Context, messageID int64) error
	FetchPage(ctx context.Context, workspaceID int64, scope MessageScope, before *Seek, limit int) ([]models.MessageRow, error)
	CountReplies(ctx context.Context, parentID int64) (int, error)
	LatestReply(ctx context.Context, parentID int64) (ThreadPreview, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, workspace_id, member_id, channel_id, conversation_id, parent_message_id, body, image_url, created_at, updated_at`

// Create stores a message in its scope.
func (r *MessageRepo) Create(ctx context.Context, msg models.Message) (models.Message, error) {
	var created models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (workspace_id, member_id, channel_id, conversation_id, parent_message_id, body, image_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+messageColumns,
		msg.WorkspaceID, msg.MemberID, msg.ChannelID, msg.ConversationID, msg.ParentMessageID, msg.Body, msg.ImageURL).
		StructScan(&created)
	return created, err
}

// Get retrieves a single message.
func (r *MessageRepo) Get(ctx context.Context, messageID int64) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// UpdateBody replaces the body text and stamps updated_at.
func (r *MessageRepo) UpdateBody(ctx context.Context, messageID int64, body string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `UPDATE messages SET body=$2, updated_at=NOW() WHERE id=$1 RETURNING `+messageColumns, messageID, body).
		StructScan(&msg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// DeleteWithReactions removes a message and its reactions in one
// transaction, children first.
func (r *MessageRepo) DeleteWithReactions(ctx context.Context, messageID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reactions WHERE message_id=$1`, messageID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE id=$1`, messageID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return tx.Commit()
}

// FetchPage returns one page of messages in the scope, ordered by
// (created_at DESC, id DESC), seeking strictly past `before` when set.
// Author member and user are left-joined so callers can drop dangling rows.
func (r *MessageRepo) FetchPage(ctx context.Context, workspaceID int64, scope MessageScope, before *Seek, limit int) ([]models.MessageRow, error) {
	query := `SELECT m.id, m.workspace_id, m.member_id, m.channel_id, m.conversation_id, m.parent_message_id,
            m.body, m.image_url, m.created_at, m.updated_at,
            mem.id AS author_member_id, u.id AS author_user_id, u.email AS author_email, u.name AS author_name, u.image AS author_image
        FROM messages m
        LEFT JOIN members mem ON mem.id = m.member_id
        LEFT JOIN users u ON u.id = mem.user_id
        WHERE m.workspace_id=$1
          AND m.channel_id IS NOT DISTINCT FROM $2
          AND m.conversation_id IS NOT DISTINCT FROM $3
          AND m.parent_message_id IS NOT DISTINCT FROM $4`
	args := []interface{}{workspaceID, scope.ChannelID, scope.ConversationID, scope.ParentMessageID}

	if before != nil {
		query += ` AND (m.created_at, m.id) < ($5, $6)`
		args = append(args, before.CreatedAt, before.ID)
	}

	query += ` ORDER BY m.created_at DESC, m.id DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	var rows []models.MessageRow
	err := r.db.SelectContext(ctx, &rows, query, args...)
	return rows, err
}

// CountReplies counts direct replies of a parent message.
func (r *MessageRepo) CountReplies(ctx context.Context, parentID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages WHERE parent_message_id=$1`, parentID)
	return count, err
}

// LatestReply returns preview data of the most recent reply, ties broken
// by id descending.
func (r *MessageRepo) LatestReply(ctx context.Context, parentID int64) (ThreadPreview, error) {
	var preview ThreadPreview
	err := r.db.GetContext(ctx, &preview, `SELECT u.name AS author_name, u.image AS author_image, m.created_at
        FROM messages m
        LEFT JOIN members mem ON mem.id = m.member_id
        LEFT JOIN users u ON u.id = mem.user_id
        WHERE m.parent_message_id=$1
        ORDER BY m.created_at DESC, m.id DESC
        LIMIT 1`, parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return ThreadPreview{}, ErrMessageNotFound
	}
	return preview, err
}

package models

import "time"

// Message belongs to exactly one scope: a channel, a conversation, or a
// thread under its parent message. All ids live in the same workspace.
type Message struct {
	ID              int64      `db:"id" json:"id"`
	WorkspaceID     int64      `db:"workspace_id" json:"workspace_id"`
	MemberID        int64      `db:"member_id" json:"member_id"`
	ChannelID       *int64     `db:"channel_id" json:"channel_id"`
	ConversationID  *int64     `db:"conversation_id" json:"conversation_id"`
	ParentMessageID *int64     `db:"parent_message_id" json:"parent_message_id"`
	Body            string     `db:"body" json:"body"`
	ImageURL        *string    `db:"image_url" json:"image_url"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at"`
}

// MessageRow is a message joined with its author member and user, as
// returned by the page fetcher. Author fields are nullable so that rows
// with dangling author references can be detected and dropped.
type MessageRow struct {
	Message
	AuthorMemberID *int64  `db:"author_member_id"`
	AuthorUserID   *int64  `db:"author_user_id"`
	AuthorEmail    *string `db:"author_email"`
	AuthorName     *string `db:"author_name"`
	AuthorImage    *string `db:"author_image"`
}

// HasAuthor reports whether the author member and its user resolved.
func (r MessageRow) HasAuthor() bool {
	return r.AuthorMemberID != nil && r.AuthorUserID != nil
}

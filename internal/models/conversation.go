package models

import "time"

// Conversation is a two-party direct-message scope. The member pair is
// unordered and unique within a workspace.
type Conversation struct {
	ID          int64     `db:"id" json:"id"`
	WorkspaceID int64     `db:"workspace_id" json:"workspace_id"`
	MemberOneID int64     `db:"member_one_id" json:"member_one_id"`
	MemberTwoID int64     `db:"member_two_id" json:"member_two_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// HasParticipant reports whether the member is one of the two endpoints.
func (c Conversation) HasParticipant(memberID int64) bool {
	return c.MemberOneID == memberID || c.MemberTwoID == memberID
}

package models

import "time"

// Member roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Member is a user's membership record within one workspace. It is the
// authorization principal for in-app actions, never the raw user id.
type Member struct {
	ID          int64     `db:"id" json:"id"`
	WorkspaceID int64     `db:"workspace_id" json:"workspace_id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Role        string    `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// MemberWithUser joins a member to its linked user record.
type MemberWithUser struct {
	Member
	User User `json:"user"`
}

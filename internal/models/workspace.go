package models

import "time"

// Workspace is the top-level tenant holding channels, members and conversations.
type Workspace struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
	JoinCode  string    `db:"join_code" json:"join_code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WorkspaceInfo is the public view returned to non-members.
type WorkspaceInfo struct {
	Name     *string `json:"name"`
	IsMember bool    `json:"is_member"`
}

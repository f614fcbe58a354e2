package models

// Reaction is a (message, member, value) triple, unique per triple.
type Reaction struct {
	ID          int64  `db:"id" json:"id"`
	WorkspaceID int64  `db:"workspace_id" json:"workspace_id"`
	MessageID   int64  `db:"message_id" json:"message_id"`
	MemberID    int64  `db:"member_id" json:"member_id"`
	Value       string `db:"value" json:"value"`
}

// ReactionView is the per-value rollup for one message: the distinct count
// of reacting members and their ids. Derived, never persisted.
type ReactionView struct {
	Value     string  `json:"value"`
	Count     int     `json:"count"`
	MemberIDs []int64 `json:"member_ids"`
}

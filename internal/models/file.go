package models

import "time"

// File records an uploaded blob. The blob itself lives behind the storage
// collaborator; messages reference it only through the URL.
type File struct {
	ID          int64     `db:"id" json:"id"`
	Key         string    `db:"key" json:"-"`
	Filename    string    `db:"filename" json:"filename"`
	MimeType    string    `db:"mime_type" json:"mime_type"`
	Size        int64     `db:"size" json:"size"`
	URL         string    `db:"url" json:"url"`
	UploadedBy  int64     `db:"uploaded_by" json:"uploaded_by"`
	WorkspaceID *int64    `db:"workspace_id" json:"workspace_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"collab-service/internal/models"
)

var ErrFileNotFound = errors.New("file not found")

// FileRepository abstracts uploaded-file metadata persistence.
type FileRepository interface {
	Create(ctx context.Context, file models.File) (models.File, error)
	Get(ctx context.Context, fileID int64) (models.File, error)
	Delete(ctx context.Context, fileID int64) error
}

// FileRepo is a sqlx implementation of FileRepository.
type FileRepo struct {
	db *sqlx.DB
}

// NewFileRepo constructs a FileRepo.
func NewFileRepo(db *sqlx.DB) *FileRepo {
	return &FileRepo{db: db}
}

const fileColumns = `id, key, filename, mime_type, size, url, uploaded_by, workspace_id, created_at`

// Create stores file metadata.
func (r *FileRepo) Create(ctx context.Context, file models.File) (models.File, error) {
	var created models.File
	err := r.db.QueryRowxContext(ctx, `INSERT INTO files (key, filename, mime_type, size, url, uploaded_by, workspace_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+fileColumns,
		file.Key, file.Filename, file.MimeType, file.Size, file.URL, file.UploadedBy, file.WorkspaceID).
		StructScan(&created)
	return created, err
}

// Get fetches file metadata by id.
func (r *FileRepo) Get(ctx context.Context, fileID int64) (models.File, error) {
	var file models.File
	err := r.db.GetContext(ctx, &file, `SELECT `+fileColumns+` FROM files WHERE id=$1`, fileID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.File{}, ErrFileNotFound
	}
	return file, err
}

// Delete removes file metadata.
func (r *FileRepo) Delete(ctx context.Context, fileID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id=$1`, fileID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrFileNotFound)
}

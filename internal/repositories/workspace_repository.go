package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"collab-service/internal/models"
)

var ErrWorkspaceNotFound = errors.New("workspace not found")

// WorkspaceRepository abstracts workspace persistence.
type WorkspaceRepository interface {
	Create(ctx context.Context, name string, ownerID int64, joinCode string) (models.Workspace, error)
	Get(ctx context.Context, workspaceID int64) (models.Workspace, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Workspace, error)
	UpdateName(ctx context.Context, workspaceID int64, name string) error
	UpdateJoinCode(ctx context.Context, workspaceID int64, joinCode string) error
	DeleteCascade(ctx context.Context, workspaceID int64) error
}

// WorkspaceRepo is a sqlx implementation of WorkspaceRepository.
type WorkspaceRepo struct {
	db *sqlx.DB
}

// NewWorkspaceRepo constructs a WorkspaceRepo.
func NewWorkspaceRepo(db *sqlx.DB) *WorkspaceRepo {
	return &WorkspaceRepo{db: db}
}

// Create stores the workspace, its creator's admin membership and a default
// "general" channel in one transaction.
func (r *WorkspaceRepo) Create(ctx context.Context, name string, ownerID int64, joinCode string) (models.Workspace, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Workspace{}, err
	}
	defer tx.Rollback()

	var ws models.Workspace
	if err := tx.QueryRowxContext(ctx, `INSERT INTO workspaces (name, owner_id, join_code) VALUES ($1, $2, $3)
        RETURNING id, name, owner_id, join_code, created_at`, name, ownerID, joinCode).
		StructScan(&ws); err != nil {
		return models.Workspace{}, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO members (workspace_id, user_id, role) VALUES ($1, $2, $3)`, ws.ID, ownerID, models.RoleAdmin); err != nil {
		return models.Workspace{}, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO channels (workspace_id, name) VALUES ($1, 'general')`, ws.ID); err != nil {
		return models.Workspace{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Workspace{}, err
	}
	return ws, nil
}

// Get fetches a workspace by id.
func (r *WorkspaceRepo) Get(ctx context.Context, workspaceID int64) (models.Workspace, error) {
	var ws models.Workspace
	err := r.db.GetContext(ctx, &ws, `SELECT id, name, owner_id, join_code, created_at FROM workspaces WHERE id=$1`, workspaceID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Workspace{}, ErrWorkspaceNotFound
	}
	return ws, err
}

// ListForUser returns the workspaces the user is a member of.
func (r *WorkspaceRepo) ListForUser(ctx context.Context, userID int64) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	err := r.db.SelectContext(ctx, &workspaces, `SELECT w.id, w.name, w.owner_id, w.join_code, w.created_at
        FROM workspaces w
        JOIN members m ON m.workspace_id = w.id
        WHERE m.user_id=$1
        ORDER BY w.created_at DESC`, userID)
	return workspaces, err
}

// UpdateName renames a workspace.
func (r *WorkspaceRepo) UpdateName(ctx context.Context, workspaceID int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE workspaces SET name=$2 WHERE id=$1`, workspaceID, name)
	if err != nil {
		return err
	}
	return requireRow(res, ErrWorkspaceNotFound)
}

// UpdateJoinCode replaces the invite code.
func (r *WorkspaceRepo) UpdateJoinCode(ctx context.Context, workspaceID int64, joinCode string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE workspaces SET join_code=$2 WHERE id=$1`, workspaceID, joinCode)
	if err != nil {
		return err
	}
	return requireRow(res, ErrWorkspaceNotFound)
}

// DeleteCascade removes the workspace and everything it owns in one
// transaction, children before parents.
func (r *WorkspaceRepo) DeleteCascade(ctx context.Context, workspaceID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		`DELETE FROM reactions WHERE workspace_id=$1`,
		`DELETE FROM messages WHERE workspace_id=$1`,
		`DELETE FROM conversations WHERE workspace_id=$1`,
		`DELETE FROM channels WHERE workspace_id=$1`,
		`DELETE FROM members WHERE workspace_id=$1`,
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step, workspaceID); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM workspaces WHERE id=$1`, workspaceID)
	if err != nil {
		return err
	}
	if err := requireRow(res, ErrWorkspaceNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

func requireRow(res sql.Result, notFound error) error {
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}

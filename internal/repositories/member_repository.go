package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"collab-service/internal/models"
)

var ErrMemberNotFound = errors.New("member not found")

// MemberRepository abstracts member persistence.
type MemberRepository interface {
	Create(ctx context.Context, workspaceID, userID int64, role string) (models.Member, error)
	Get(ctx context.Context, memberID int64) (models.Member, error)
	GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID int64) (models.Member, error)
	GetWithUser(ctx context.Context, memberID int64) (models.MemberWithUser, error)
	ListWithUsers(ctx context.Context, workspaceID int64) ([]models.MemberWithUser, error)
	UpdateRole(ctx context.Context, memberID int64, role string) error
	RemoveCascade(ctx context.Context, memberID int64) error
}

// MemberRepo is a sqlx implementation of MemberRepository.
type MemberRepo struct {
	db *sqlx.DB
}

// NewMemberRepo constructs a MemberRepo.
func NewMemberRepo(db *sqlx.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

const memberColumns = `id, workspace_id, user_id, role, created_at`

// Create inserts a membership row.
func (r *MemberRepo) Create(ctx context.Context, workspaceID, userID int64, role string) (models.Member, error) {
	var member models.Member
	err := r.db.QueryRowxContext(ctx, `INSERT INTO members (workspace_id, user_id, role) VALUES ($1, $2, $3)
        RETURNING `+memberColumns, workspaceID, userID, role).
		StructScan(&member)
	return member, err
}

// Get fetches a member by id.
func (r *MemberRepo) Get(ctx context.Context, memberID int64) (models.Member, error) {
	var member models.Member
	err := r.db.GetContext(ctx, &member, `SELECT `+memberColumns+` FROM members WHERE id=$1`, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, ErrMemberNotFound
	}
	return member, err
}

// GetByWorkspaceAndUser resolves the caller's membership in a workspace.
func (r *MemberRepo) GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID int64) (models.Member, error) {
	var member models.Member
	err := r.db.GetContext(ctx, &member, `SELECT `+memberColumns+` FROM members WHERE workspace_id=$1 AND user_id=$2`, workspaceID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, ErrMemberNotFound
	}
	return member, err
}

// GetWithUser fetches a member joined with its user record.
func (r *MemberRepo) GetWithUser(ctx context.Context, memberID int64) (models.MemberWithUser, error) {
	row, err := r.scanMemberWithUser(ctx, `WHERE m.id=$1`, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MemberWithUser{}, ErrMemberNotFound
	}
	return row, err
}

// ListWithUsers returns all workspace members with their user info.
func (r *MemberRepo) ListWithUsers(ctx context.Context, workspaceID int64) ([]models.MemberWithUser, error) {
	rows, err := r.db.QueryxContext(ctx, memberWithUserQuery+` WHERE m.workspace_id=$1 ORDER BY m.id`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.MemberWithUser
	for rows.Next() {
		item, err := scanMemberUserRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// UpdateRole changes a member's role.
func (r *MemberRepo) UpdateRole(ctx context.Context, memberID int64, role string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE members SET role=$2 WHERE id=$1`, memberID, role)
	if err != nil {
		return err
	}
	return requireRow(res, ErrMemberNotFound)
}

// RemoveCascade deletes the member's reactions, messages, conversations and
// finally the member row, in that order, within one transaction.
func (r *MemberRepo) RemoveCascade(ctx context.Context, memberID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		`DELETE FROM reactions WHERE member_id=$1`,
		`DELETE FROM messages WHERE member_id=$1`,
		`DELETE FROM conversations WHERE member_one_id=$1 OR member_two_id=$1`,
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step, memberID); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM members WHERE id=$1`, memberID)
	if err != nil {
		return err
	}
	if err := requireRow(res, ErrMemberNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

const memberWithUserQuery = `SELECT m.id, m.workspace_id, m.user_id, m.role, m.created_at,
        u.id AS u_id, u.email AS u_email, u.name AS u_name, u.image AS u_image, u.created_at AS u_created_at
    FROM members m
    JOIN users u ON u.id = m.user_id`

func (r *MemberRepo) scanMemberWithUser(ctx context.Context, where string, args ...interface{}) (models.MemberWithUser, error) {
	rows, err := r.db.QueryxContext(ctx, memberWithUserQuery+" "+where, args...)
	if err != nil {
		return models.MemberWithUser{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return models.MemberWithUser{}, err
		}
		return models.MemberWithUser{}, sql.ErrNoRows
	}
	return scanMemberUserRow(rows)
}

func scanMemberUserRow(rows *sqlx.Rows) (models.MemberWithUser, error) {
	var item models.MemberWithUser
	err := rows.Scan(
		&item.ID, &item.WorkspaceID, &item.UserID, &item.Role, &item.CreatedAt,
		&item.User.ID, &item.User.Email, &item.User.Name, &item.User.Image, &item.User.CreatedAt,
	)
	return item, err
}

package comment

import (
	"context"
	"errors"
	"fmt"

	"github.com/curaious/civicpulse/internal/db"
	"github.com/jmoiron/sqlx"
)

var ErrProjectNotFound = errors.New("project not found")

// Store is the persistence the comment service depends on.
type Store interface {
	ProjectExists(ctx context.Context, projectID int64) (bool, error)
	ListForProject(ctx context.Context, projectID int64) ([]*Comment, error)
	Create(ctx context.Context, projectID, userID int64, body string) (*Comment, error)
}

type CommentRepo struct {
	db *sqlx.DB
}

func NewCommentRepo(db *sqlx.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) ProjectExists(ctx context.Context, projectID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, projectID)
	if err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}
	return exists, nil
}

// ListForProject returns a project's comments newest first
func (r *CommentRepo) ListForProject(ctx context.Context, projectID int64) ([]*Comment, error) {
	query := `
		SELECT c.id, c.project_id, c.user_id, u.username AS user_username, u.role AS user_role, c.body, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.project_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`

	comments := []*Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepo) Create(ctx context.Context, projectID, userID int64, body string) (*Comment, error) {
	query := `
		WITH inserted AS (
			INSERT INTO comments (project_id, user_id, body)
			VALUES ($1, $2, $3)
			RETURNING id, project_id, user_id, body, created_at
		)
		SELECT i.id, i.project_id, i.user_id, u.username AS user_username, u.role AS user_role, i.body, i.created_at
		FROM inserted i
		JOIN users u ON u.id = i.user_id
	`

	var comment Comment
	if err := r.db.GetContext(ctx, &comment, query, projectID, userID, body); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, nil
}

package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/curaious/civicpulse/internal/db"
	"github.com/jmoiron/sqlx"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrProjectNotFound = errors.New("project not found")
)

// Store is the persistence the report service depends on.
type Store interface {
	ProjectExists(ctx context.Context, projectID int64) (bool, error)
	ListForProject(ctx context.Context, projectID int64) ([]*Report, error)
	ListAll(ctx context.Context) ([]*Report, error)
	Create(ctx context.Context, projectID, userID int64, category Category, description string) (*Report, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Report, error)
}

type ReportRepo struct {
	db *sqlx.DB
}

func NewReportRepo(db *sqlx.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

const reportSelect = `
	SELECT r.id, r.project_id, r.user_id, u.username AS user_username, u.role AS user_role,
		r.category, r.description, r.status, r.created_at, r.updated_at
`

func (r *ReportRepo) ProjectExists(ctx context.Context, projectID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, projectID)
	if err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}
	return exists, nil
}

func (r *ReportRepo) ListForProject(ctx context.Context, projectID int64) ([]*Report, error) {
	query := reportSelect + `
		FROM reports r
		JOIN users u ON u.id = r.user_id
		WHERE r.project_id = $1
		ORDER BY r.created_at DESC, r.id DESC
	`

	reports := []*Report{}
	if err := r.db.SelectContext(ctx, &reports, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (r *ReportRepo) ListAll(ctx context.Context) ([]*Report, error) {
	query := reportSelect + `
		FROM reports r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC, r.id DESC
	`

	reports := []*Report{}
	if err := r.db.SelectContext(ctx, &reports, query); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// Create always stores the report as OPEN
func (r *ReportRepo) Create(ctx context.Context, projectID, userID int64, category Category, description string) (*Report, error) {
	query := `
		WITH r AS (
			INSERT INTO reports (project_id, user_id, category, description, status)
			VALUES ($1, $2, $3, $4, 'OPEN')
			RETURNING *
		)` + reportSelect + `
		FROM r
		JOIN users u ON u.id = r.user_id
	`

	var report Report
	if err := r.db.GetContext(ctx, &report, query, projectID, userID, category, description); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (r *ReportRepo) UpdateStatus(ctx context.Context, id int64, status Status) (*Report, error) {
	query := `
		WITH r AS (
			UPDATE reports
			SET status = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)` + reportSelect + `
		FROM r
		JOIN users u ON u.id = r.user_id
	`

	var report Report
	if err := r.db.GetContext(ctx, &report, query, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}
	return &report, nil
}

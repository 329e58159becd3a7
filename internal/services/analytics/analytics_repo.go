package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/curaious/civicpulse/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Store is the persistence the analytics service depends on.
// A nil since means all time.
type Store interface {
	RecordSearch(ctx context.Context, query string) (*SearchEvent, error)
	ProjectExists(ctx context.Context, projectID int64) (bool, error)
	RecordProjectView(ctx context.Context, projectID int64) (*ProjectViewEvent, error)

	StatusCounts(ctx context.Context) ([]StatusCount, error)
	TopSearches(ctx context.Context, since *time.Time, limit int) ([]QueryCount, error)
	TopViewed(ctx context.Context, since *time.Time, limit int) ([]ViewedProject, error)
	RecentSearches(ctx context.Context, limit int) ([]RecentSearch, error)
	RecentViews(ctx context.Context, limit int) ([]RecentView, error)
	BudgetTotals(ctx context.Context) (budget, spent decimal.Decimal, err error)
}

type AnalyticsRepo struct {
	db *sqlx.DB
}

func NewAnalyticsRepo(db *sqlx.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

func (r *AnalyticsRepo) RecordSearch(ctx context.Context, query string) (*SearchEvent, error) {
	var ev SearchEvent
	err := r.db.GetContext(ctx, &ev, `
		INSERT INTO search_events (query) VALUES ($1)
		RETURNING id, query, created_at
	`, query)
	if err != nil {
		return nil, fmt.Errorf("failed to record search: %w", err)
	}
	return &ev, nil
}

func (r *AnalyticsRepo) ProjectExists(ctx context.Context, projectID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, projectID)
	if err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}
	return exists, nil
}

func (r *AnalyticsRepo) RecordProjectView(ctx context.Context, projectID int64) (*ProjectViewEvent, error) {
	var ev ProjectViewEvent
	err := r.db.GetContext(ctx, &ev, `
		INSERT INTO project_view_events (project_id) VALUES ($1)
		RETURNING id, project_id, created_at
	`, projectID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to record project view: %w", err)
	}
	return &ev, nil
}

func (r *AnalyticsRepo) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	counts := []StatusCount{}
	err := r.db.SelectContext(ctx, &counts, `
		SELECT status, COUNT(id) AS count
		FROM projects
		GROUP BY status
		ORDER BY count DESC, status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects by status: %w", err)
	}
	return counts, nil
}

func (r *AnalyticsRepo) TopSearches(ctx context.Context, since *time.Time, limit int) ([]QueryCount, error) {
	top := []QueryCount{}
	err := r.db.SelectContext(ctx, &top, `
		SELECT query, COUNT(id) AS count
		FROM search_events
		WHERE query <> '' AND ($1::timestamptz IS NULL OR created_at >= $1)
		GROUP BY query
		ORDER BY count DESC, MIN(id)
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank searches: %w", err)
	}
	return top, nil
}

func (r *AnalyticsRepo) TopViewed(ctx context.Context, since *time.Time, limit int) ([]ViewedProject, error) {
	top := []ViewedProject{}
	err := r.db.SelectContext(ctx, &top, `
		SELECT v.project_id, p.title AS project_title, p.status AS project_status,
			p.county AS project_county, COUNT(v.id) AS count
		FROM project_view_events v
		JOIN projects p ON p.id = v.project_id
		WHERE ($1::timestamptz IS NULL OR v.created_at >= $1)
		GROUP BY v.project_id, p.title, p.status, p.county
		ORDER BY count DESC, MIN(v.id)
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank viewed projects: %w", err)
	}
	return top, nil
}

func (r *AnalyticsRepo) RecentSearches(ctx context.Context, limit int) ([]RecentSearch, error) {
	recent := []RecentSearch{}
	err := r.db.SelectContext(ctx, &recent, `
		SELECT query, created_at
		FROM search_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent searches: %w", err)
	}
	return recent, nil
}

func (r *AnalyticsRepo) RecentViews(ctx context.Context, limit int) ([]RecentView, error) {
	recent := []RecentView{}
	err := r.db.SelectContext(ctx, &recent, `
		SELECT v.project_id, p.title AS project_title, v.created_at
		FROM project_view_events v
		JOIN projects p ON p.id = v.project_id
		ORDER BY v.created_at DESC, v.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent views: %w", err)
	}
	return recent, nil
}

func (r *AnalyticsRepo) BudgetTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var totals struct {
		Budget decimal.Decimal `db:"budget"`
		Spent  decimal.Decimal `db:"spent"`
	}
	err := r.db.GetContext(ctx, &totals, `
		SELECT COALESCE(SUM(budget), 0) AS budget, COALESCE(SUM(spent_amount), 0) AS spent
		FROM projects
	`)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum budgets: %w", err)
	}
	return totals.Budget, totals.Spent, nil
}

package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrProjectNotFound = errors.New("project not found")

// Store is the persistence the project service depends on.
type Store interface {
	Create(ctx context.Context, in *ProjectInput) (*Project, error)
	GetByID(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context, filter ListFilter) ([]*Project, error)
	MapMarkers(ctx context.Context) ([]*MapMarker, error)
	Update(ctx context.Context, id int64, in *ProjectInput) (*Project, error)
	Delete(ctx context.Context, id int64) error
}

// ProjectRepo handles database operations for projects
type ProjectRepo struct {
	db *sqlx.DB
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db *sqlx.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

const projectColumns = `id, title, description, county, status, budget, spent_amount, progress,
        latitude, longitude, start_date, end_date, created_at, updated_at`

// Create creates a new project
func (r *ProjectRepo) Create(ctx context.Context, in *ProjectInput) (*Project, error) {
	status := StatusPlanned
	if in.Status.Valid {
		status = in.Status.Value
	}

	query := `
        INSERT INTO projects (title, description, county, status, budget, spent_amount, progress,
            latitude, longitude, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING ` + projectColumns

	var project Project
	err := r.db.GetContext(ctx, &project, query,
		in.Title.Value,
		in.Description.Value,
		in.County.Value,
		status,
		nullable(in.Budget),
		nullable(in.SpentAmount),
		in.Progress.Value,
		nullable(in.Latitude),
		nullable(in.Longitude),
		nullable(in.StartDate),
		nullable(in.EndDate),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return &project, nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	var project Project
	err := r.db.GetContext(ctx, &project, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// List retrieves projects newest first
func (r *ProjectRepo) List(ctx context.Context, filter ListFilter) ([]*Project, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.County != "" {
		args = append(args, filter.County)
		conditions = append(conditions, fmt.Sprintf("LOWER(county) = LOWER($%d)", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR county ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM projects
        %s
        ORDER BY created_at DESC, id DESC
    `, projectColumns, where)

	projects := []*Project{}
	err := r.db.SelectContext(ctx, &projects, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// MapMarkers lists located projects only
func (r *ProjectRepo) MapMarkers(ctx context.Context) ([]*MapMarker, error) {
	query := `
        SELECT id, title, status, latitude, longitude
        FROM projects
        WHERE latitude IS NOT NULL AND longitude IS NOT NULL
        ORDER BY created_at DESC, id DESC
    `

	markers := []*MapMarker{}
	if err := r.db.SelectContext(ctx, &markers, query); err != nil {
		return nil, fmt.Errorf("failed to list map markers: %w", err)
	}

	return markers, nil
}

// Update writes the fields present in the input and refreshes updated_at
func (r *ProjectRepo) Update(ctx context.Context, id int64, in *ProjectInput) (*Project, error) {
	setParts := []string{}
	args := []interface{}{}

	set := func(column string, value interface{}) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Title.Set {
		set("title", in.Title.Value)
	}
	if in.Description.Set {
		set("description", in.Description.Value)
	}
	if in.County.Set {
		set("county", in.County.Value)
	}
	if in.Status.Set {
		set("status", in.Status.Value)
	}
	if in.Budget.Set {
		set("budget", nullable(in.Budget))
	}
	if in.SpentAmount.Set {
		set("spent_amount", nullable(in.SpentAmount))
	}
	if in.Progress.Set {
		set("progress", in.Progress.Value)
	}
	if in.Latitude.Set {
		set("latitude", nullable(in.Latitude))
	}
	if in.Longitude.Set {
		set("longitude", nullable(in.Longitude))
	}
	if in.StartDate.Set {
		set("start_date", nullable(in.StartDate))
	}
	if in.EndDate.Set {
		set("end_date", nullable(in.EndDate))
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE projects
        SET %s
        WHERE id = $%d
        RETURNING %s
    `, strings.Join(setParts, ", "), len(args), projectColumns)

	var project Project
	err := r.db.GetContext(ctx, &project, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return &project, nil
}

// Delete removes a project and everything hanging off it in one transaction
func (r *ProjectRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"comments", "reports", "project_view_events"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE project_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete %s for project: %w", table, err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProjectNotFound
	}

	return tx.Commit()
}

// nullable turns an Optional into a driver argument, nil for null.
func nullable[T any](o Optional[T]) interface{} {
	if !o.Valid {
		return nil
	}
	return o.Value
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

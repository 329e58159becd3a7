package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/curaious/civicpulse/internal/perrors"
)

// ProjectService contains business logic for projects
type ProjectService struct {
	repo Store
}

// NewProjectService constructs a new ProjectService
func NewProjectService(repo Store) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create validates and stores a new project
func (s *ProjectService) Create(ctx context.Context, in *ProjectInput) (*Project, error) {
	if fields := in.Validate(true); len(fields) > 0 {
		return nil, perrors.NewErrValidation(fields)
	}

	project, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// GetByID fetches a project by its identifier
func (s *ProjectService) GetByID(ctx context.Context, id int64) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// List returns projects newest first, narrowed by filter
func (s *ProjectService) List(ctx context.Context, filter ListFilter) ([]*Project, error) {
	filter.County = strings.TrimSpace(filter.County)
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, perrors.NewErrFieldValidation("status", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", filter.Status))
	}

	projects, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// MapMarkers returns the located projects for the map view
func (s *ProjectService) MapMarkers(ctx context.Context) ([]*MapMarker, error) {
	markers, err := s.repo.MapMarkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list map markers: %w", err)
	}

	return markers, nil
}

// Update modifies project fields. partial is false for PUT, which requires a title.
// A rejected payload leaves the stored project untouched.
func (s *ProjectService) Update(ctx context.Context, id int64, in *ProjectInput, partial bool) (*Project, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if fields := in.Validate(!partial); len(fields) > 0 {
		return nil, perrors.NewErrValidation(fields)
	}

	project, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// Delete removes a project and its comments, reports and view events
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

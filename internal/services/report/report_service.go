package report

import (
	"context"
	"fmt"

	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/services/user"
)

type ReportService struct {
	repo Store
}

func NewReportService(repo Store) *ReportService {
	return &ReportService{repo: repo}
}

func (s *ReportService) ListForProject(ctx context.Context, projectID int64) ([]*Report, error) {
	reports, err := s.repo.ListForProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (s *ReportService) ListAll(ctx context.Context) ([]*Report, error) {
	reports, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// Create files an OPEN report by author against the project in the path.
func (s *ReportService) Create(ctx context.Context, projectID int64, author *user.User, req *CreateReportRequest) (*Report, error) {
	if fields := req.Validate(); len(fields) > 0 {
		return nil, perrors.NewErrValidation(fields)
	}

	exists, err := s.repo.ProjectExists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrProjectNotFound
	}

	return s.repo.Create(ctx, projectID, author.ID, *req.Category, *req.Description)
}

// UpdateStatus moves a report to a new status; nothing else on it can change.
func (s *ReportService) UpdateStatus(ctx context.Context, id int64, req *UpdateStatusRequest) (*Report, error) {
	if fields := req.Validate(); len(fields) > 0 {
		return nil, perrors.NewErrValidation(fields)
	}
	return s.repo.UpdateStatus(ctx, id, *req.Status)
}

package comment

import (
	"context"
	"fmt"

	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/services/user"
)

type CommentService struct {
	repo Store
}

func NewCommentService(repo Store) *CommentService {
	return &CommentService{repo: repo}
}

func (s *CommentService) ListForProject(ctx context.Context, projectID int64) ([]*Comment, error) {
	comments, err := s.repo.ListForProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Create attaches a comment by author to the project named in the path.
// The payload is validated before the project lookup.
func (s *CommentService) Create(ctx context.Context, projectID int64, author *user.User, req *CreateCommentRequest) (*Comment, error) {
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

	return s.repo.Create(ctx, projectID, author.ID, *req.Body)
}

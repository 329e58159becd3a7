package memstore

import (
	"context"
	"sort"

	"github.com/curaious/civicpulse/internal/services/comment"
)

type Comments struct{ s *Store }

func (c *Comments) ProjectExists(_ context.Context, projectID int64) (bool, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return false, s.Fail
	}
	return s.projectExists(projectID), nil
}

func (c *Comments) ListForProject(_ context.Context, projectID int64) ([]*comment.Comment, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	out := []*comment.Comment{}
	for _, cm := range s.comments {
		if cm.ProjectID == projectID {
			out = append(out, s.joinCommentAuthor(cm))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (c *Comments) Create(_ context.Context, projectID, userID int64, body string) (*comment.Comment, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	if !s.projectExists(projectID) {
		return nil, comment.ErrProjectNotFound
	}

	created := &comment.Comment{ProjectID: projectID, UserID: userID, Body: body}
	created.ID, created.CreatedAt = s.next()
	s.comments = append(s.comments, created)
	return s.joinCommentAuthor(created), nil
}

func (s *Store) joinCommentAuthor(cm *comment.Comment) *comment.Comment {
	out := copyOf(cm)
	if u, ok := s.users[cm.UserID]; ok {
		out.UserUsername = u.Username
		out.UserRole = u.Role
	}
	return out
}

package memstore

import (
	"context"
	"sort"

	"github.com/curaious/civicpulse/internal/services/report"
)

type Reports struct{ s *Store }

func (r *Reports) ProjectExists(_ context.Context, projectID int64) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return false, s.Fail
	}
	return s.projectExists(projectID), nil
}

func (r *Reports) ListForProject(_ context.Context, projectID int64) ([]*report.Report, error) {
	return r.list(func(rp *report.Report) bool { return rp.ProjectID == projectID })
}

func (r *Reports) ListAll(_ context.Context) ([]*report.Report, error) {
	return r.list(func(*report.Report) bool { return true })
}

func (r *Reports) list(keep func(*report.Report) bool) ([]*report.Report, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	out := []*report.Report{}
	for _, rp := range s.reports {
		if keep(rp) {
			out = append(out, s.joinReportAuthor(rp))
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

func (r *Reports) Create(_ context.Context, projectID, userID int64, category report.Category, description string) (*report.Report, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	if !s.projectExists(projectID) {
		return nil, report.ErrProjectNotFound
	}

	created := &report.Report{
		ProjectID:   projectID,
		UserID:      userID,
		Category:    category,
		Description: description,
		Status:      report.StatusOpen,
	}
	created.ID, created.CreatedAt = s.next()
	created.UpdatedAt = created.CreatedAt
	s.reports = append(s.reports, created)
	return s.joinReportAuthor(created), nil
}

func (r *Reports) UpdateStatus(_ context.Context, id int64, status report.Status) (*report.Report, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	for _, rp := range s.reports {
		if rp.ID == id {
			rp.Status = status
			_, rp.UpdatedAt = s.next()
			return s.joinReportAuthor(rp), nil
		}
	}
	return nil, report.ErrReportNotFound
}

func (s *Store) joinReportAuthor(rp *report.Report) *report.Report {
	out := copyOf(rp)
	if u, ok := s.users[rp.UserID]; ok {
		out.UserUsername = u.Username
		out.UserRole = u.Role
	}
	return out
}

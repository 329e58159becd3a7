package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/curaious/civicpulse/internal/services/project"
	"github.com/shopspring/decimal"
)

type Projects struct{ s *Store }

func (p *Projects) Create(_ context.Context, in *project.ProjectInput) (*project.Project, error) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	created := &project.Project{Status: project.StatusPlanned}
	apply(created, in)
	created.ID, created.CreatedAt = s.next()
	created.UpdatedAt = created.CreatedAt

	s.projects[created.ID] = created
	return copyOf(created), nil
}

func (p *Projects) GetByID(_ context.Context, id int64) (*project.Project, error) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	found, ok := s.projects[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	return copyOf(found), nil
}

func (p *Projects) List(_ context.Context, filter project.ListFilter) ([]*project.Project, error) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	search := strings.ToLower(filter.Search)
	out := []*project.Project{}
	for _, pr := range s.newestFirst() {
		if filter.Status != "" && pr.Status != filter.Status {
			continue
		}
		if filter.County != "" && !strings.EqualFold(pr.County, filter.County) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(pr.Title), search) && !strings.Contains(strings.ToLower(pr.County), search) {
			continue
		}
		out = append(out, copyOf(pr))
	}
	return out, nil
}

func (p *Projects) MapMarkers(_ context.Context) ([]*project.MapMarker, error) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	out := []*project.MapMarker{}
	for _, pr := range s.newestFirst() {
		if !pr.Latitude.Valid || !pr.Longitude.Valid {
			continue
		}
		out = append(out, &project.MapMarker{
			ID:        pr.ID,
			Title:     pr.Title,
			Status:    pr.Status,
			Latitude:  pr.Latitude.Decimal,
			Longitude: pr.Longitude.Decimal,
		})
	}
	return out, nil
}

func (p *Projects) Update(_ context.Context, id int64, in *project.ProjectInput) (*project.Project, error) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	found, ok := s.projects[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}

	apply(found, in)
	_, found.UpdatedAt = s.next()
	return copyOf(found), nil
}

func (p *Projects) Delete(_ context.Context, id int64) error {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}

	if !s.projectExists(id) {
		return project.ErrProjectNotFound
	}

	comments := s.comments[:0]
	for _, c := range s.comments {
		if c.ProjectID != id {
			comments = append(comments, c)
		}
	}
	s.comments = comments

	reports := s.reports[:0]
	for _, r := range s.reports {
		if r.ProjectID != id {
			reports = append(reports, r)
		}
	}
	s.reports = reports

	views := s.views[:0]
	for _, v := range s.views {
		if v.ProjectID != id {
			views = append(views, v)
		}
	}
	s.views = views

	delete(s.projects, id)
	return nil
}

// newestFirst orders like created_at DESC, id DESC. Callers hold mu.
func (s *Store) newestFirst() []*project.Project {
	out := make([]*project.Project, 0, len(s.projects))
	for _, pr := range s.projects {
		out = append(out, pr)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// apply copies the fields present in the payload, as the SQL SET clause does.
func apply(pr *project.Project, in *project.ProjectInput) {
	if in.Title.Set {
		pr.Title = in.Title.Value
	}
	if in.Description.Set {
		pr.Description = in.Description.Value
	}
	if in.County.Set {
		pr.County = in.County.Value
	}
	if in.Status.Set && in.Status.Valid {
		pr.Status = in.Status.Value
	}
	if in.Progress.Set {
		pr.Progress = in.Progress.Value
	}
	if in.Budget.Set {
		pr.Budget = nullDecimal(in.Budget)
	}
	if in.SpentAmount.Set {
		pr.SpentAmount = nullDecimal(in.SpentAmount)
	}
	if in.Latitude.Set {
		pr.Latitude = nullDecimal(in.Latitude)
	}
	if in.Longitude.Set {
		pr.Longitude = nullDecimal(in.Longitude)
	}
	if in.StartDate.Set {
		pr.StartDate = nullDate(in.StartDate)
	}
	if in.EndDate.Set {
		pr.EndDate = nullDate(in.EndDate)
	}
}

func nullDecimal(o project.Optional[decimal.Decimal]) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: o.Value, Valid: o.Valid}
}

func nullDate(o project.Optional[project.Date]) *project.Date {
	if !o.Valid {
		return nil
	}
	d := o.Value
	return &d
}

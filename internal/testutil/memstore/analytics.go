package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/curaious/civicpulse/internal/services/analytics"
	"github.com/shopspring/decimal"
)

type Analytics struct{ s *Store }

func (a *Analytics) RecordSearch(_ context.Context, query string) (*analytics.SearchEvent, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	ev := &analytics.SearchEvent{Query: query}
	ev.ID, ev.CreatedAt = s.next()
	s.searches = append(s.searches, ev)
	return copyOf(ev), nil
}

func (a *Analytics) ProjectExists(_ context.Context, projectID int64) (bool, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return false, s.Fail
	}
	return s.projectExists(projectID), nil
}

func (a *Analytics) RecordProjectView(_ context.Context, projectID int64) (*analytics.ProjectViewEvent, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	if !s.projectExists(projectID) {
		return nil, analytics.ErrProjectNotFound
	}

	ev := &analytics.ProjectViewEvent{ProjectID: projectID}
	ev.ID, ev.CreatedAt = s.next()
	s.views = append(s.views, ev)
	return copyOf(ev), nil
}

// RecordSearchAt and RecordProjectViewAt backdate events for window tests.
func (a *Analytics) RecordSearchAt(query string, at time.Time) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := &analytics.SearchEvent{Query: query, CreatedAt: at}
	ev.ID, _ = s.next()
	s.searches = append(s.searches, ev)
}

func (a *Analytics) RecordProjectViewAt(projectID int64, at time.Time) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := &analytics.ProjectViewEvent{ProjectID: projectID, CreatedAt: at}
	ev.ID, _ = s.next()
	s.views = append(s.views, ev)
}

func (a *Analytics) StatusCounts(_ context.Context) ([]analytics.StatusCount, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	byStatus := map[string]int64{}
	for _, pr := range s.projects {
		byStatus[string(pr.Status)]++
	}

	out := []analytics.StatusCount{}
	for status, count := range byStatus {
		out = append(out, analytics.StatusCount{Status: status, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out, nil
}

// ranked keeps per-key counts plus the first id seen, the tie-break the SQL uses.
type ranked struct {
	count   int64
	firstID int64
}

func rank[K comparable](groups map[K]*ranked, keys []K, limit int) []K {
	sort.Slice(keys, func(i, j int) bool {
		a, b := groups[keys[i]], groups[keys[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		return a.firstID < b.firstID
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

func (a *Analytics) TopSearches(_ context.Context, since *time.Time, limit int) ([]analytics.QueryCount, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	groups := map[string]*ranked{}
	keys := []string{}
	for _, ev := range s.searches {
		if ev.Query == "" || (since != nil && ev.CreatedAt.Before(*since)) {
			continue
		}
		g, ok := groups[ev.Query]
		if !ok {
			g = &ranked{firstID: ev.ID}
			groups[ev.Query] = g
			keys = append(keys, ev.Query)
		}
		g.count++
	}

	out := []analytics.QueryCount{}
	for _, q := range rank(groups, keys, limit) {
		out = append(out, analytics.QueryCount{Query: q, Count: groups[q].count})
	}
	return out, nil
}

func (a *Analytics) TopViewed(_ context.Context, since *time.Time, limit int) ([]analytics.ViewedProject, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	groups := map[int64]*ranked{}
	keys := []int64{}
	for _, ev := range s.views {
		if since != nil && ev.CreatedAt.Before(*since) {
			continue
		}
		if !s.projectExists(ev.ProjectID) {
			continue
		}
		g, ok := groups[ev.ProjectID]
		if !ok {
			g = &ranked{firstID: ev.ID}
			groups[ev.ProjectID] = g
			keys = append(keys, ev.ProjectID)
		}
		g.count++
	}

	out := []analytics.ViewedProject{}
	for _, id := range rank(groups, keys, limit) {
		pr := s.projects[id]
		status := string(pr.Status)
		county := pr.County
		out = append(out, analytics.ViewedProject{
			ProjectID: id,
			Title:     pr.Title,
			Status:    &status,
			County:    &county,
			Count:     groups[id].count,
		})
	}
	return out, nil
}

func (a *Analytics) RecentSearches(_ context.Context, limit int) ([]analytics.RecentSearch, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	events := append([]*analytics.SearchEvent(nil), s.searches...)
	sort.Slice(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.After(events[j].CreatedAt)
		}
		return events[i].ID > events[j].ID
	})

	out := []analytics.RecentSearch{}
	for _, ev := range events {
		if len(out) == limit {
			break
		}
		out = append(out, analytics.RecentSearch{Query: ev.Query, CreatedAt: ev.CreatedAt})
	}
	return out, nil
}

func (a *Analytics) RecentViews(_ context.Context, limit int) ([]analytics.RecentView, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	events := append([]*analytics.ProjectViewEvent(nil), s.views...)
	sort.Slice(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.After(events[j].CreatedAt)
		}
		return events[i].ID > events[j].ID
	})

	out := []analytics.RecentView{}
	for _, ev := range events {
		if len(out) == limit {
			break
		}
		pr, ok := s.projects[ev.ProjectID]
		if !ok {
			continue
		}
		out = append(out, analytics.RecentView{ProjectID: ev.ProjectID, Title: pr.Title, CreatedAt: ev.CreatedAt})
	}
	return out, nil
}

func (a *Analytics) BudgetTotals(_ context.Context) (decimal.Decimal, decimal.Decimal, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return decimal.Zero, decimal.Zero, s.Fail
	}

	budget, spent := decimal.Zero, decimal.Zero
	for _, pr := range s.projects {
		if pr.Budget.Valid {
			budget = budget.Add(pr.Budget.Decimal)
		}
		if pr.SpentAmount.Valid {
			spent = spent.Add(pr.SpentAmount.Decimal)
		}
	}
	return budget, spent, nil
}

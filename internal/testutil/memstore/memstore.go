// Package memstore is an in-memory stand-in for the postgres repositories.
// Every facade shares one Store so joins and cascades behave like the schema.
package memstore

import (
	"sync"
	"time"

	"github.com/curaious/civicpulse/internal/services/analytics"
	"github.com/curaious/civicpulse/internal/services/comment"
	"github.com/curaious/civicpulse/internal/services/project"
	"github.com/curaious/civicpulse/internal/services/report"
	"github.com/curaious/civicpulse/internal/services/user"
)

type Store struct {
	mu   sync.Mutex
	now  func() time.Time
	seq  int64
	tick time.Duration

	users    map[int64]*user.User
	projects map[int64]*project.Project
	comments []*comment.Comment
	reports  []*report.Report
	searches []*analytics.SearchEvent
	views    []*analytics.ProjectViewEvent

	// Fail, when set, is returned by every call.
	Fail error
}

func New() *Store {
	return &Store{
		now:      time.Now,
		users:    map[int64]*user.User{},
		projects: map[int64]*project.Project{},
	}
}

// WithClock pins the base time. Each write still advances by a microsecond
// so creation order is visible in timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Users() *Users         { return &Users{s} }
func (s *Store) Projects() *Projects   { return &Projects{s} }
func (s *Store) Comments() *Comments   { return &Comments{s} }
func (s *Store) Reports() *Reports     { return &Reports{s} }
func (s *Store) Analytics() *Analytics { return &Analytics{s} }

var (
	_ user.Store      = (*Users)(nil)
	_ project.Store   = (*Projects)(nil)
	_ comment.Store   = (*Comments)(nil)
	_ report.Store    = (*Reports)(nil)
	_ analytics.Store = (*Analytics)(nil)
)

// next returns a fresh id and timestamp. Callers hold mu.
func (s *Store) next() (int64, time.Time) {
	s.seq++
	s.tick += time.Microsecond
	return s.seq, s.now().Add(s.tick).UTC()
}

func (s *Store) projectExists(id int64) bool {
	_, ok := s.projects[id]
	return ok
}

func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrProjectIDRequired = errors.New("project_id required")
	ErrInvalidProjectID  = errors.New("project_id must be an integer")
)

const (
	maxQueryLength = 200
	pulseLimit     = 10
	trendingWindow = 7 * 24 * time.Hour
	sinkTimeout    = 5 * time.Second
)

type AnalyticsService struct {
	repo Store
	sink EventSink
	now  func() time.Time

	// in-flight sink deliveries
	pending sync.WaitGroup
}

func NewAnalyticsService(repo Store) *AnalyticsService {
	return &AnalyticsService{repo: repo, now: time.Now}
}

// WithSink mirrors every recorded event to sink.
func (s *AnalyticsService) WithSink(sink EventSink) *AnalyticsService {
	s.sink = sink
	return s
}

// WithClock replaces time.Now for the trending window.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// TrackSearch stores query truncated to 200 characters. Blank queries are kept.
func (s *AnalyticsService) TrackSearch(ctx context.Context, query string) error {
	if runes := []rune(query); len(runes) > maxQueryLength {
		query = string(runes[:maxQueryLength])
	}

	ev, err := s.repo.RecordSearch(ctx, query)
	if err != nil {
		return err
	}

	s.mirror(ctx, "search", func(ctx context.Context) error { return s.sink.SearchRecorded(ctx, ev) })
	return nil
}

// TrackProjectView records a view of the project named by raw.
func (s *AnalyticsService) TrackProjectView(ctx context.Context, raw any) error {
	projectID, err := ParseProjectID(raw)
	if err != nil {
		return err
	}

	exists, err := s.repo.ProjectExists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrProjectNotFound
	}

	ev, err := s.repo.RecordProjectView(ctx, projectID)
	if err != nil {
		return err
	}

	s.mirror(ctx, "project_view", func(ctx context.Context) error { return s.sink.ProjectViewed(ctx, ev) })
	return nil
}

// mirror hands the event to the sink without holding up the request.
func (s *AnalyticsService) mirror(ctx context.Context, kind string, send func(ctx context.Context) error) {
	if s.sink == nil {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
		defer cancel()

		if err := send(ctx); err != nil {
			slog.WarnContext(ctx, "Failed to mirror analytics event", slog.String("kind", kind), slog.Any("error", err))
		}
	}()
}

// Flush waits up to timeout for in-flight sink deliveries and reports whether
// they all finished. Call it before closing the sink.
func (s *AnalyticsService) Flush(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// ParseProjectID accepts a positive integer as a JSON number or string.
// Missing, empty and zero values are ErrProjectIDRequired.
func ParseProjectID(raw any) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, ErrProjectIDRequired
	case bool:
		if !v {
			return 0, ErrProjectIDRequired
		}
		return 0, ErrInvalidProjectID
	case float64:
		if v == 0 {
			return 0, ErrProjectIDRequired
		}
		// float64(math.MaxInt64) rounds up to 2^63, which does not fit
		if v != math.Trunc(v) || v < 0 || v >= math.MaxInt64 {
			return 0, ErrInvalidProjectID
		}
		return int64(v), nil
	case int64:
		if v == 0 {
			return 0, ErrProjectIDRequired
		}
		if v < 0 {
			return 0, ErrInvalidProjectID
		}
		return v, nil
	case int:
		return ParseProjectID(int64(v))
	case json.Number:
		if id, err := v.Int64(); err == nil {
			return ParseProjectID(id)
		}
		// 1.0 or 1e2 are whole numbers too, as long as float64 holds them exactly
		if f, err := v.Float64(); err == nil && math.Abs(f) <= 1<<53 {
			return ParseProjectID(f)
		}
		return 0, ErrInvalidProjectID
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, ErrProjectIDRequired
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id < 0 {
			return 0, ErrInvalidProjectID
		}
		if id == 0 {
			return 0, ErrProjectIDRequired
		}
		return id, nil
	}
	return 0, ErrInvalidProjectID
}

// Pulse computes the aggregate snapshot. total_projects is derived from the
// status counts so the two always agree.
func (s *AnalyticsService) Pulse(ctx context.Context) (*Pulse, error) {
	statusCounts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range statusCounts {
		total += c.Count
	}

	since := s.now().Add(-trendingWindow)

	topSearches, err := s.repo.TopSearches(ctx, nil, pulseLimit)
	if err != nil {
		return nil, err
	}
	topViewed, err := s.repo.TopViewed(ctx, nil, pulseLimit)
	if err != nil {
		return nil, err
	}
	topSearches7d, err := s.repo.TopSearches(ctx, &since, pulseLimit)
	if err != nil {
		return nil, err
	}
	trending, err := s.repo.TopViewed(ctx, &since, pulseLimit)
	if err != nil {
		return nil, err
	}
	recentSearches, err := s.repo.RecentSearches(ctx, pulseLimit)
	if err != nil {
		return nil, err
	}
	recentViews, err := s.repo.RecentViews(ctx, pulseLimit)
	if err != nil {
		return nil, err
	}
	budget, spent, err := s.repo.BudgetTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}

	return &Pulse{
		TotalProjects:      total,
		StatusCounts:       statusCounts,
		TopSearches:        topSearches,
		TopViewed:          topViewed,
		TopSearches7d:      topSearches7d,
		TrendingProjects7d: trending,
		RecentSearches:     recentSearches,
		RecentViews:        recentViews,
		TotalBudget:        budget.InexactFloat64(),
		TotalSpent:         spent.InexactFloat64(),
	}, nil
}

package analytics

import "time"

type SearchEvent struct {
	ID        int64     `db:"id"`
	Query     string    `db:"query"`
	CreatedAt time.Time `db:"created_at"`
}

type ProjectViewEvent struct {
	ID        int64     `db:"id"`
	ProjectID int64     `db:"project_id"`
	CreatedAt time.Time `db:"created_at"`
}

type StatusCount struct {
	Status string `json:"status" db:"status"`
	Count  int64  `json:"count" db:"count"`
}

type QueryCount struct {
	Query string `json:"query" db:"query"`
	Count int64  `json:"count" db:"count"`
}

// ViewedProject keys keep the double underscore names existing clients read.
type ViewedProject struct {
	ProjectID int64   `json:"project_id" db:"project_id"`
	Title     string  `json:"project__title" db:"project_title"`
	Status    *string `json:"project__status" db:"project_status"`
	County    *string `json:"project__county" db:"project_county"`
	Count     int64   `json:"count" db:"count"`
}

type RecentSearch struct {
	Query     string    `json:"query" db:"query"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type RecentView struct {
	ProjectID int64     `json:"project_id" db:"project_id"`
	Title     string    `json:"project__title" db:"project_title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Pulse is the aggregate snapshot served at /api/pulse/.
type Pulse struct {
	TotalProjects      int64           `json:"total_projects"`
	StatusCounts       []StatusCount   `json:"status_counts"`
	TopSearches        []QueryCount    `json:"top_searches"`
	TopViewed          []ViewedProject `json:"top_viewed"`
	TopSearches7d      []QueryCount    `json:"top_searches_7d"`
	TrendingProjects7d []ViewedProject `json:"trending_projects_7d"`
	RecentSearches     []RecentSearch  `json:"recent_searches"`
	RecentViews        []RecentView    `json:"recent_views"`
	TotalBudget        float64         `json:"total_budget"`
	TotalSpent         float64         `json:"total_spent"`
}

// TrackProjectViewRequest accepts project_id as a JSON number or numeric string.
type TrackProjectViewRequest struct {
	ProjectID any `json:"project_id"`
}

type TrackSearchRequest struct {
	Query *string `json:"query"`
}

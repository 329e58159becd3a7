package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/services/user"
)

type Category string

const (
	CategoryCorruption Category = "CORRUPTION"
	CategoryDelay      Category = "DELAY"
	CategoryQuality    Category = "QUALITY"
	CategoryBudget     Category = "BUDGET"
	CategoryOther      Category = "OTHER"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCorruption, CategoryDelay, CategoryQuality, CategoryBudget, CategoryOther:
		return true
	}
	return false
}

type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusInReview  Status = "IN_REVIEW"
	StatusResolved  Status = "RESOLVED"
	StatusDismissed Status = "DISMISSED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInReview, StatusResolved, StatusDismissed:
		return true
	}
	return false
}

// Report is a citizen-filed issue against a project. Only Status changes after creation.
type Report struct {
	ID           int64     `json:"id" db:"id"`
	ProjectID    int64     `json:"project" db:"project_id"`
	UserID       int64     `json:"user" db:"user_id"`
	UserUsername string    `json:"user_username" db:"user_username"`
	UserRole     user.Role `json:"user_role" db:"user_role"`
	Category     Category  `json:"category" db:"category"`
	Description  string    `json:"description" db:"description"`
	Status       Status    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CreateReportRequest has no status, project or user: those never come from the client.
type CreateReportRequest struct {
	Category    *Category `json:"category"`
	Description *string   `json:"description"`
}

func (r *CreateReportRequest) Validate() perrors.FieldErrors {
	fields := perrors.FieldErrors{}

	if r.Category == nil {
		other := CategoryOther
		r.Category = &other
	} else if !r.Category.Valid() {
		fields.Add("category", fmt.Sprintf("\"%s\" is not a valid choice.", *r.Category))
	}

	switch {
	case r.Description == nil:
		fields.Add("description", "This field is required.")
	case strings.TrimSpace(*r.Description) == "":
		fields.Add("description", "Description is required.")
	default:
		trimmed := strings.TrimSpace(*r.Description)
		r.Description = &trimmed
	}

	return fields
}

// UpdateStatusRequest is the only mutation allowed on a report.
type UpdateStatusRequest struct {
	Status *Status `json:"status"`
}

func (r *UpdateStatusRequest) Validate() perrors.FieldErrors {
	fields := perrors.FieldErrors{}
	switch {
	case r.Status == nil:
		fields.Add("status", "This field is required.")
	case !r.Status.Valid():
		fields.Add("status", fmt.Sprintf("\"%s\" is not a valid choice.", *r.Status))
	}
	return fields
}

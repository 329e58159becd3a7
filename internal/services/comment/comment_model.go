package comment

import (
	"strings"
	"time"

	"github.com/curaious/civicpulse/internal/perrors"
	"github.com/curaious/civicpulse/internal/services/user"
)

// Comment is citizen feedback on a project. Project and user are fixed at creation.
type Comment struct {
	ID           int64     `json:"id" db:"id"`
	ProjectID    int64     `json:"project" db:"project_id"`
	UserID       int64     `json:"user" db:"user_id"`
	UserUsername string    `json:"user_username" db:"user_username"`
	UserRole     user.Role `json:"user_role" db:"user_role"`
	Body         string    `json:"body" db:"body"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CreateCommentRequest is the accepted payload. Any project or user keys a
// client sends are not part of it and so are dropped during decoding.
type CreateCommentRequest struct {
	Body *string `json:"body"`
}

func (r *CreateCommentRequest) Validate() perrors.FieldErrors {
	fields := perrors.FieldErrors{}
	if r.Body == nil {
		fields.Add("body", "This field is required.")
		return fields
	}

	trimmed := strings.TrimSpace(*r.Body)
	if trimmed == "" {
		fields.Add("body", "Comment body is required.")
		return fields
	}
	r.Body = &trimmed

	return fields
}

package memstore

import (
	"github.com/curaious/civicpulse/internal/services"
	"github.com/curaious/civicpulse/internal/services/analytics"
	"github.com/curaious/civicpulse/internal/services/comment"
	"github.com/curaious/civicpulse/internal/services/project"
	"github.com/curaious/civicpulse/internal/services/report"
	"github.com/curaious/civicpulse/internal/services/user"
	"golang.org/x/crypto/bcrypt"
)

// NewServices wires every service to s, with the cheapest bcrypt cost.
func NewServices(s *Store) *services.Services {
	return &services.Services{
		User:      user.NewUserService(s.Users()).WithHashCost(bcrypt.MinCost),
		Project:   project.NewProjectService(s.Projects()),
		Comment:   comment.NewCommentService(s.Comments()),
		Report:    report.NewReportService(s.Reports()),
		Analytics: analytics.NewAnalyticsService(s.Analytics()).WithClock(s.now),
	}
}

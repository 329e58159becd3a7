package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/curaious/civicpulse/internal/config"
	"github.com/curaious/civicpulse/internal/db"
	"github.com/curaious/civicpulse/internal/services/analytics"
	"github.com/curaious/civicpulse/internal/services/comment"
	"github.com/curaious/civicpulse/internal/services/project"
	"github.com/curaious/civicpulse/internal/services/report"
	"github.com/curaious/civicpulse/internal/services/user"
	"github.com/jmoiron/sqlx"
)

type Services struct {
	User      *user.UserService
	Project   *project.ProjectService
	Comment   *comment.CommentService
	Report    *report.ReportService
	Analytics *analytics.AnalyticsService

	db         *sqlx.DB
	clickhouse *analytics.ClickHouseSink
}

func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)

	analyticsSvc := analytics.NewAnalyticsService(analytics.NewAnalyticsRepo(dbconn))

	var sink *analytics.ClickHouseSink
	if conf.CLICKHOUSE_HOST != "" {
		chConn, err := analytics.NewClickHouseConn(&analytics.ClickHouseConfig{
			Host:     conf.CLICKHOUSE_HOST,
			Port:     conf.CLICKHOUSE_PORT,
			Database: conf.CLICKHOUSE_DATABASE,
			Username: conf.CLICKHOUSE_USERNAME,
			Password: conf.CLICKHOUSE_PASSWORD,
			UseTLS:   conf.CLICKHOUSE_USE_TLS,
		})
		if err != nil {
			slog.Warn("Failed to connect to ClickHouse for analytics", slog.Any("error", err))
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			sink, err = analytics.NewClickHouseSink(ctx, chConn)
			cancel()
			if err != nil {
				slog.Warn("Failed to prepare ClickHouse analytics tables", slog.Any("error", err))
				_ = chConn.Close()
			} else {
				analyticsSvc.WithSink(sink)
				slog.Info("Connected to ClickHouse for analytics")
			}
		}
	}

	return &Services{
		User:       user.NewUserService(user.NewUserRepo(dbconn)),
		Project:    project.NewProjectService(project.NewProjectRepo(dbconn)),
		Comment:    comment.NewCommentService(comment.NewCommentRepo(dbconn)),
		Report:     report.NewReportService(report.NewReportRepo(dbconn)),
		Analytics:  analyticsSvc,
		db:         dbconn,
		clickhouse: sink,
	}
}

// sinkFlushTimeout bounds how long Close waits for mirrored events.
const sinkFlushTimeout = 5 * time.Second

// Close releases the database pool and the ClickHouse mirror, after letting
// in-flight mirror writes finish.
func (s *Services) Close() {
	if s.clickhouse != nil {
		if s.Analytics != nil && !s.Analytics.Flush(sinkFlushTimeout) {
			slog.Warn("Closing ClickHouse with analytics events still in flight")
		}
		if err := s.clickhouse.Close(); err != nil {
			slog.Error("Failed to close ClickHouse connection", slog.Any("error", err))
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Failed to close database", slog.Any("error", err))
		}
	}
}

// DB exposes the pool for the migrator and the seed command.
func (s *Services) DB() *sqlx.DB {
	return s.db
}

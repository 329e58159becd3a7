package analytics

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// EventSink receives a copy of every recorded event. Postgres stays the
// source of truth for the pulse; sinks only feed long-term reporting.
type EventSink interface {
	SearchRecorded(ctx context.Context, ev *SearchEvent) error
	ProjectViewed(ctx context.Context, ev *ProjectViewEvent) error
}

// ClickHouseConfig holds ClickHouse connection configuration
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	UseTLS   bool
}

// NewClickHouseConn creates a new ClickHouse connection using HTTP protocol
func NewClickHouseConn(cfg *ClickHouseConfig) (driver.Conn, error) {
	opts := &clickhouse.Options{
		Addr:     []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Protocol: clickhouse.HTTP,
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    5,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	}

	if cfg.UseTLS {
		opts.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// ClickHouseSink appends events to MergeTree tables.
type ClickHouseSink struct {
	conn driver.Conn
}

// NewClickHouseSink creates the event tables if needed.
func NewClickHouseSink(ctx context.Context, conn driver.Conn) (*ClickHouseSink, error) {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS search_events (
			id Int64,
			query String,
			created_at DateTime64(3, 'UTC')
		) ENGINE = MergeTree ORDER BY (created_at, id)`,
		`CREATE TABLE IF NOT EXISTS project_view_events (
			id Int64,
			project_id Int64,
			created_at DateTime64(3, 'UTC')
		) ENGINE = MergeTree ORDER BY (project_id, created_at, id)`,
	}

	for _, stmt := range ddl {
		if err := conn.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to prepare clickhouse tables: %w", err)
		}
	}

	return &ClickHouseSink{conn: conn}, nil
}

func (s *ClickHouseSink) SearchRecorded(ctx context.Context, ev *SearchEvent) error {
	return s.conn.Exec(ctx,
		`INSERT INTO search_events (id, query, created_at) VALUES (?, ?, ?)`,
		ev.ID, ev.Query, ev.CreatedAt.UTC(),
	)
}

func (s *ClickHouseSink) ProjectViewed(ctx context.Context, ev *ProjectViewEvent) error {
	return s.conn.Exec(ctx,
		`INSERT INTO project_view_events (id, project_id, created_at) VALUES (?, ?, ?)`,
		ev.ID, ev.ProjectID, ev.CreatedAt.UTC(),
	)
}

func (s *ClickHouseSink) Close() error {
	return s.conn.Close()
}

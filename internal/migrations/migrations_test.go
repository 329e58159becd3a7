package migrations

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsRegisteredInOrder(t *testing.T) {
	versions := m.Versions()
	require.NotEmpty(t, versions)
	assert.True(t, sort.StringsAreSorted(versions))

	for _, v := range versions {
		mg := m.migrations[v]
		require.NotNil(t, mg, v)
		assert.NotNil(t, mg.up, v)
		assert.NotNil(t, mg.down, v)
	}
}

func TestAddMigrationKeepsOrder(t *testing.T) {
	mg := &Migrator{versions: []string{}, migrations: map[string]*migration{}}
	for _, v := range []string{"3", "1", "2"} {
		mg.addMigration(&migration{version: v})
	}
	assert.Equal(t, []string{"1", "2", "3"}, mg.Versions())
}

func TestReverseDoesNotMutate(t *testing.T) {
	in := []string{"a", "b", "c"}
	assert.Equal(t, []string{"c", "b", "a"}, reverse(in))
	assert.Equal(t, []string{"a", "b", "c"}, in)
}

func TestStepLimitedUpMarksOnlyAppliedVersions(t *testing.T) {
	conn := &recordingConnector{}
	mg := &Migrator{db: sqlx.NewDb(sql.OpenDB(conn), "postgres"), versions: []string{}, migrations: map[string]*migration{}}

	ran := []string{}
	for _, v := range []string{"1", "2", "3"} {
		mg.addMigration(&migration{
			version: v,
			up:      func(*sqlx.Tx) error { ran = append(ran, v); return nil },
			down:    func(*sqlx.Tx) error { return nil },
		})
	}

	require.NoError(t, mg.Up(1))
	assert.Equal(t, []string{"1"}, ran)
	assert.True(t, mg.migrations["1"].done)
	assert.False(t, mg.migrations["2"].done)
	assert.False(t, mg.migrations["3"].done)
	assert.Equal(t, 1, conn.count("INSERT INTO metadata.schema_migrations"))

	require.NoError(t, mg.Up(0))
	assert.Equal(t, []string{"1", "2", "3"}, ran)
	assert.Equal(t, 3, conn.count("INSERT INTO metadata.schema_migrations"))

	require.NoError(t, mg.Down(1))
	assert.False(t, mg.migrations["3"].done)
	assert.True(t, mg.migrations["2"].done)
}

// recordingConnector is a database/sql connector that accepts every Exec and
// remembers the statements it saw.
type recordingConnector struct {
	mu    sync.Mutex
	stmts []string
}

func (c *recordingConnector) Connect(context.Context) (driver.Conn, error) { return &recordingConn{c}, nil }
func (c *recordingConnector) Driver() driver.Driver                     { return recordingDriver{c} }

func (c *recordingConnector) count(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, q := range c.stmts {
		if strings.HasPrefix(q, prefix) {
			n++
		}
	}
	return n
}

type recordingDriver struct{ c *recordingConnector }

func (d recordingDriver) Open(string) (driver.Conn, error) { return &recordingConn{d.c}, nil }

type recordingConn struct{ c *recordingConnector }

func (c *recordingConn) Prepare(q string) (driver.Stmt, error) { return &recordingStmt{c.c, q}, nil }
func (c *recordingConn) Close() error                          { return nil }
func (c *recordingConn) Begin() (driver.Tx, error)             { return recordingTx{}, nil }

type recordingTx struct{}

func (recordingTx) Commit() error   { return nil }
func (recordingTx) Rollback() error { return nil }

type recordingStmt struct {
	c *recordingConnector
	q string
}

func (s *recordingStmt) Close() error  { return nil }
func (s *recordingStmt) NumInput() int { return -1 }

func (s *recordingStmt) Exec([]driver.Value) (driver.Result, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	s.c.stmts = append(s.c.stmts, s.q)
	return driver.RowsAffected(1), nil
}

func (s *recordingStmt) Query([]driver.Value) (driver.Rows, error) {
	return nil, errors.New("queries are not supported")
}

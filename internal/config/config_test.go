package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadConfigDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("JWT_ACCESS_TTL", "")
	t.Setenv("ANALYTICS_RATE_LIMIT", "")
	t.Setenv("CLICKHOUSE_HOST", "")

	conf := ReadConfig()
	assert.Equal(t, "0.0.0.0:8000", conf.HTTP_ADDR)
	assert.Equal(t, 5*time.Minute, conf.JWT_ACCESS_TTL)
	assert.Equal(t, 24*time.Hour, conf.JWT_REFRESH_TTL)
	assert.Equal(t, 60, conf.ANALYTICS_RATE_LIMIT)
	assert.Equal(t, "", conf.CLICKHOUSE_HOST)
}

func TestReadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("ANALYTICS_RATE_LIMIT", "5")
	t.Setenv("REDIS_DB", "not-a-number")

	conf := ReadConfig()
	assert.Equal(t, 15*time.Minute, conf.JWT_ACCESS_TTL)
	assert.Equal(t, 5, conf.ANALYTICS_RATE_LIMIT)
	assert.Equal(t, 0, conf.REDIS_DB)
}

func TestDSN(t *testing.T) {
	conf := &Config{DB_USERNAME: "u", DB_PASSWORD: "p", DB_HOST: "db", DB_PORT: "5432", DB_NAME: "civic"}
	assert.Equal(t, "postgresql://u:p@db:5432/civic", conf.DSN())

	conf.DISABLE_TLS = "true"
	assert.Equal(t, "postgresql://u:p@db:5432/civic?sslmode=disable", conf.DSN())
}

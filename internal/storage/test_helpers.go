package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/portfolio-report/internal/config"
	"github.com/redis/go-redis/v9"
)

// testContext creates a context with timeout for tests
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// setupMiniredis starts an in-memory Redis and returns a cache bound to it
func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisCacheFromClient(client)
}

func testPostgresConfig() *config.PostgresConfig {
	return &config.PostgresConfig{
		Host:           "localhost",
		Port:           "5432",
		Database:       "portfolio_report",
		User:           "report",
		Password:       "report_dev_password",
		MaxConnections: 5,
	}
}

func testClickHouseConfig() *config.ClickHouseConfig {
	return &config.ClickHouseConfig{
		Host:     "localhost",
		Port:     "9000",
		Database: "portfolio_report",
		User:     "default",
		Password: "clickhouse_dev_password",
	}
}

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	// DriverMemory selects the in-process store.
	DriverMemory = "memory"
	// DriverRedis selects the Redis store.
	DriverRedis = "redis"
	// DriverPostgres selects the PostgreSQL store.
	DriverPostgres = "postgres"
)

var (
	// ErrUnknownDriver indicates an unsupported store driver.
	ErrUnknownDriver = errors.New("kvstore: unknown driver")
	// ErrMissingConnection indicates the driver's connection was not provided.
	ErrMissingConnection = errors.New("kvstore: driver connection is required")
)

// FactoryOptions groups the connections used by each driver.
type FactoryOptions struct {
	// Now is the time source for memory and postgres expiry.
	Now func() time.Time
	// Redis is the client used by the redis driver.
	Redis *redis.Client
	// RedisPrefix namespaces every Redis key.
	RedisPrefix string
	// Postgres is the pool used by the postgres driver.
	Postgres *pgxpool.Pool
	// PostgresTable overrides the PostgreSQL table name.
	PostgresTable string
}

// NewFromDriver constructs a Store by driver name. An empty driver selects memory.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Store, error) {
	switch strings.TrimSpace(driver) {
	case "", DriverMemory:
		return NewMemory(opts.Now), nil
	case DriverRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingConnection, driver)
		}
		return NewRedis(opts.Redis, opts.RedisPrefix), nil
	case DriverPostgres:
		if opts.Postgres == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingConnection, driver)
		}
		return NewPostgres(ctx, opts.Postgres,
			WithTableName(opts.PostgresTable),
			WithNow(opts.Now),
			WithCloser(opts.Postgres.Close),
		)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/lo"
)

const (
	defaultTableName = "kv_entries"

	createTable = `create table if not exists %[1]s (
	key        text primary key,
	value      text not null,
	expires_at timestamptz
)`
	selectRow = "select value from %[1]s where key = $1 and (expires_at is null or expires_at > $2)"
	upsertRow = "insert into %[1]s (key, value, expires_at) values ($1, $2, $3) " +
		"on conflict (key) do update set value = excluded.value, expires_at = excluded.expires_at"
	deleteRow = "delete from %[1]s where key = $1"
	incrRow   = "insert into %[1]s as t (key, value, expires_at) values ($1, '1', $3) " +
		"on conflict (key) do update set " +
		"value = case when t.expires_at is not null and t.expires_at <= $2 then '1' else (t.value::bigint + 1)::text end, " +
		"expires_at = case when t.expires_at is not null and t.expires_at <= $2 then excluded.expires_at else t.expires_at end " +
		"returning value::bigint"
)

// Commander defines the pgx operations required by the Postgres store.
type Commander interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is a Store backed by a single PostgreSQL table.
type Postgres struct {
	db        Commander
	tableName string
	now       func() time.Time
	closeFn   func()
}

// PostgresOption configures the Postgres store.
type PostgresOption func(*Postgres)

// WithTableName overrides the table name. The name is snake-cased.
func WithTableName(name string) PostgresOption {
	return func(p *Postgres) {
		if name != "" {
			p.tableName = lo.SnakeCase(name)
		}
	}
}

// WithCloser registers the function Close runs, typically pool.Close.
func WithCloser(fn func()) PostgresOption {
	return func(p *Postgres) {
		p.closeFn = fn
	}
}

// WithNow overrides the time source used for expiry checks.
func WithNow(now func() time.Time) PostgresOption {
	return func(p *Postgres) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPostgres creates the backing table when missing and returns the store.
func NewPostgres(ctx context.Context, db Commander, opts ...PostgresOption) (*Postgres, error) {
	if db == nil {
		return nil, errors.New("kvstore: postgres commander is required")
	}

	p := &Postgres{db: db, tableName: defaultTableName, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}

	if _, err := db.Exec(ctx, fmt.Sprintf(createTable, p.tableName)); err != nil {
		return nil, fmt.Errorf("kvstore: create table %s: %w", p.tableName, err)
	}

	return p, nil
}

func (p *Postgres) expiresAt(ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	return lo.ToPtr(p.now().Add(ttl))
}

// Get returns the value for key or ErrNotFound.
func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	var value string
	err := p.db.QueryRow(ctx, fmt.Sprintf(selectRow, p.tableName), key, p.now()).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return value, nil
}

// Set stores value under key.
func (p *Postgres) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}

	_, err := p.db.Exec(ctx, fmt.Sprintf(upsertRow, p.tableName), key, value, p.expiresAt(ttl))
	return err
}

// Delete removes key.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	_, err := p.db.Exec(ctx, fmt.Sprintf(deleteRow, p.tableName), key)
	return err
}

// Incr increments the counter at key, restarting it when expired.
func (p *Postgres) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	var n int64
	err := p.db.QueryRow(ctx, fmt.Sprintf(incrRow, p.tableName), key, p.now(), p.expiresAt(ttl)).Scan(&n)
	if err != nil {
		return 0, err
	}

	return n, nil
}

// Close runs the registered closer, if any.
func (p *Postgres) Close() error {
	if p.closeFn != nil {
		p.closeFn()
	}
	return nil
}

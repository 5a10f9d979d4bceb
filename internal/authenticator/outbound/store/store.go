package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shandysiswandi/authenticator/internal/authenticator/entity"
	"github.com/shandysiswandi/authenticator/internal/pkg/goerror"
	"github.com/shandysiswandi/authenticator/internal/pkg/instrument"
	"github.com/shandysiswandi/authenticator/internal/pkg/kvstore"
	"github.com/shandysiswandi/authenticator/internal/pkg/session"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Store persists widget state in a key-value store under session-scoped keys.
type Store struct {
	kv  kvstore.Store
	ins instrument.Instrumentation
}

func NewStore(kv kvstore.Store, ins instrument.Instrumentation) *Store {
	return &Store{kv: kv, ins: ins}
}

func (s *Store) mapError(err error) error {
	if errors.Is(err, kvstore.ErrNotFound) {
		return goerror.ErrNotFound
	}
	return err
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("authenticator.outbound.store").Start(ctx, name)
}

func (s *Store) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Store) GetSecret(ctx context.Context, sessionID string) (secret string, err error) {
	ctx, span := s.startSpan(ctx, "GetSecret")
	defer func() { s.endSpan(span, err) }()

	secret, err = s.kv.Get(ctx, session.Key(sessionID, entity.SecretKey))
	err = s.mapError(err)
	return secret, err
}

func (s *Store) SaveSecret(ctx context.Context, sessionID, secret string) (err error) {
	ctx, span := s.startSpan(ctx, "SaveSecret")
	defer func() { s.endSpan(span, err) }()

	err = s.kv.Set(ctx, session.Key(sessionID, entity.SecretKey), secret, 0)
	return err
}

func (s *Store) FailedAttempts(ctx context.Context, sessionID string) (n int64, err error) {
	ctx, span := s.startSpan(ctx, "FailedAttempts")
	defer func() { s.endSpan(span, err) }()

	raw, err := s.kv.Get(ctx, session.Key(sessionID, entity.FailedAttemptsKey))
	if errors.Is(err, kvstore.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	n, err = strconv.ParseInt(raw, 10, 64)
	return n, err
}

func (s *Store) IncrFailedAttempts(ctx context.Context, sessionID string, window time.Duration) (n int64, err error) {
	ctx, span := s.startSpan(ctx, "IncrFailedAttempts")
	defer func() { s.endSpan(span, err) }()

	n, err = s.kv.Incr(ctx, session.Key(sessionID, entity.FailedAttemptsKey), window)
	return n, err
}

func (s *Store) ResetFailedAttempts(ctx context.Context, sessionID string) (err error) {
	ctx, span := s.startSpan(ctx, "ResetFailedAttempts")
	defer func() { s.endSpan(span, err) }()

	err = s.kv.Delete(ctx, session.Key(sessionID, entity.FailedAttemptsKey))
	return err
}

package messaging

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/atomic"
)

// Log is a Publisher that only records events in the application log.
// It is the default when no broker is configured.
type Log struct {
	closed *atomic.Bool
}

// NewLog returns a log-only publisher.
func NewLog() *Log {
	return &Log{closed: atomic.NewBool(false)}
}

// Publish logs the destination and payload size.
func (l *Log) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := checkPublish(ctx, destination); err != nil {
		return PublishResult{}, err
	}
	if l.closed.Load() {
		return PublishResult{}, ErrClosed
	}

	slog.InfoContext(ctx, "event published", "destination", destination, "bytes", len(msg.Body))

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

// Close marks the publisher closed.
func (l *Log) Close() error {
	l.closed.Store(true)
	return nil
}

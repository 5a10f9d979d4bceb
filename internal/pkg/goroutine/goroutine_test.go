package goroutine_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shandysiswandi/authenticator/internal/pkg/goroutine"
	"github.com/stretchr/testify/assert"
)

func TestManager(t *testing.T) {
	m := goroutine.NewManager(4)
	errBoom := errors.New("boom")

	var ran atomic.Int32
	for range 3 {
		assert.True(t, m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			return nil
		}))
	}
	assert.True(t, m.Go(context.Background(), func(context.Context) error { return errBoom }))

	err := m.Wait()
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, int32(3), ran.Load())

	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
}

func TestManager_DetachedContext(t *testing.T) {
	m := goroutine.NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())

	release := make(chan struct{})
	got := make(chan error, 1)
	assert.True(t, m.Go(ctx, func(ctx context.Context) error {
		<-release
		got <- ctx.Err()
		return nil
	}))

	// at limit
	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))

	cancel()
	close(release)
	assert.NoError(t, m.Wait())
	assert.NoError(t, <-got)
}

func TestManager_Panic(t *testing.T) {
	m := goroutine.NewManager(1)
	m.Go(context.Background(), func(context.Context) error { panic("bad") })

	assert.ErrorIs(t, m.Wait(), goroutine.ErrPanic)
}

func TestManager_Nil(t *testing.T) {
	var m *goroutine.Manager
	assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
	assert.NoError(t, m.Wait())
}

package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestPingHealthChecker(t *testing.T) {
	ok := NewPingHealthChecker("store", pingFunc(func(context.Context) error { return nil }), time.Second)
	assert.True(t, ok.Healthy(context.Background()))

	down := NewPingHealthChecker("store", pingFunc(func(context.Context) error { return errors.New("connection refused") }), time.Second)
	assert.False(t, down.Healthy(context.Background()))

	slow := NewPingHealthChecker("store", pingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}), 10*time.Millisecond)
	assert.False(t, slow.Healthy(context.Background()))

	assert.True(t, NewOkHealthChecker().Healthy(context.Background()))
}

package async

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, buf
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not finish")
	}
}

func TestSafeGo_Success(t *testing.T) {
	logger, buf := newTestLogger()
	var executed atomic.Bool

	wait(t, SafeGo(context.Background(), time.Second, "test task", logger, func(ctx context.Context) error {
		executed.Store(true)
		return nil
	}))

	assert.True(t, executed.Load())
	assert.Empty(t, buf.String())
}

func TestSafeGo_WithError(t *testing.T) {
	logger, buf := newTestLogger()

	wait(t, SafeGo(context.Background(), time.Second, "test task", logger, func(ctx context.Context) error {
		return errors.New("test error")
	}))

	assert.Contains(t, buf.String(), "test error")
	assert.Contains(t, buf.String(), "Background task failed")
}

func TestSafeGo_Panic(t *testing.T) {
	logger, buf := newTestLogger()

	wait(t, SafeGo(context.Background(), time.Second, "panicking task", logger, func(ctx context.Context) error {
		panic("boom")
	}))

	assert.Contains(t, buf.String(), "PANIC recovered")
	assert.Contains(t, buf.String(), "panicking task")
}

func TestSafeGo_Timeout(t *testing.T) {
	logger, _ := newTestLogger()
	var ctxErr atomic.Value

	wait(t, SafeGo(context.Background(), 10*time.Millisecond, "slow task", logger, func(ctx context.Context) error {
		<-ctx.Done()
		ctxErr.Store(ctx.Err())
		return nil
	}))

	require.NotNil(t, ctxErr.Load())
	assert.ErrorIs(t, ctxErr.Load().(error), context.DeadlineExceeded)
}

func TestSafeGo_NoTimeoutFollowsParent(t *testing.T) {
	logger, _ := newTestLogger()
	ctx, cancel := context.WithCancel(context.Background())

	done := SafeGoNoError(ctx, 0, "watch", logger, func(ctx context.Context) {
		<-ctx.Done()
	})

	select {
	case <-done:
		t.Fatal("task finished before cancel")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	wait(t, done)
}

package async

import (
	"context"
	"time"

	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/sirupsen/logrus"
)

// SafeGo executes fn in a goroutine with panic recovery and error logging.
// A positive timeout bounds the task context. The returned channel is
// closed once fn has returned or panicked.
func SafeGo(parentCtx context.Context, timeout time.Duration, taskName string, logger *logrus.Logger, fn func(context.Context) error) <-chan struct{} {
	logger = observability.OrDefault(logger)
	done := make(chan struct{})

	go func() {
		defer close(done)

		ctx, cancel := parentCtx, context.CancelFunc(func() {})
		if timeout > 0 {
			ctx, cancel = context.WithTimeout(parentCtx, timeout)
		}
		defer cancel()

		defer observability.RecoverPanic(logger, taskName)

		if err := fn(ctx); err != nil {
			logger.WithError(err).WithField("task", taskName).Error("Background task failed")
		}
	}()

	return done
}

// SafeGoNoError is like SafeGo but for functions that don't return errors.
func SafeGoNoError(parentCtx context.Context, timeout time.Duration, taskName string, logger *logrus.Logger, fn func(context.Context)) <-chan struct{} {
	return SafeGo(parentCtx, timeout, taskName, logger, func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
}

// Package async runs background tasks with panic recovery and error logging.
//
// SafeGo is used for the long-lived goroutines of visparam, such as the
// manifest watcher and the loop that applies its updates:
//
//	async.SafeGo(ctx, 0, "manifest watcher", logger, func(ctx context.Context) error {
//		watcher.Run(ctx)
//		return nil
//	})
//
// A zero timeout leaves the task bound only by the parent context.
package async

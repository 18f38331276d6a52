package observability

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// RecoverPanic recovers from a panic and logs it with structured logging
//
// Usage in defer statements:
//
//	func watchLoop() {
//	    defer observability.RecoverPanic(logger, "manifest watcher")
//	    // ... code that might panic
//	}
//
// After logging, the panic is NOT re-raised - the function returns normally.
func RecoverPanic(logger *logrus.Logger, context string) {
	if r := recover(); r != nil {
		OrDefault(logger).WithFields(logrus.Fields{
			"panic":   r,
			"stack":   string(debug.Stack()),
			"context": context,
		}).Error("PANIC recovered")
	}
}

// RecoverPanicWithCallback recovers from a panic, logs it, and executes a callback
//
// The callback only runs when a panic was recovered. Typical use is closing
// a channel so that readers blocked on it are released.
func RecoverPanicWithCallback(logger *logrus.Logger, context string, callback func()) {
	if r := recover(); r != nil {
		OrDefault(logger).WithFields(logrus.Fields{
			"panic":   r,
			"stack":   string(debug.Stack()),
			"context": context,
		}).Error("PANIC recovered")
		if callback != nil {
			callback()
		}
	}
}

// MustRecover converts a recovered panic value to an error
//
//	func apply() (err error) {
//	    defer func() {
//	        if r := recover(); r != nil {
//	            err = observability.MustRecover(r)
//	        }
//	    }()
//	    ...
//	}
//
// Errors passed to panic are wrapped so errors.As still reaches them.
func MustRecover(r interface{}) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}

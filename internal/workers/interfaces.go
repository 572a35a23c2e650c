// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that starts and
// stops several workers as one.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run must return promptly; long-running work belongs to goroutines the
// worker owns, which end when ctx is cancelled or Stop is called. Stop
// waits for them.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    go w.loop(ctx)
//	}
//
//	func (w *MyWorker) Stop() {}
type Worker interface {
	Run(ctx context.Context)
	Stop()
}

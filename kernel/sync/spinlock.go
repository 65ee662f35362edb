// Package sync provides the synchronization primitives used by the kernel.
package sync

import "sync/atomic"

var (
	// yieldFn is invoked between acquisition attempts to emit a CPU relax
	// hint. It is wired to the arch-specific yield instruction at init time
	// and swapped for runtime.Gosched by tests.
	yieldFn func()
)

// Spinlock is a test-and-set lock. A task that fails to acquire it busy-waits
// with a CPU yield hint between attempts; there is no timeout and no queueing.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock is held by the calling task. Attempting to
// re-acquire a lock already held by the current task deadlocks.
func (l *Spinlock) Acquire() {
	for !l.TryToAcquire() {
		if yieldFn != nil {
			yieldFn()
		}
	}
}

// TryToAcquire makes a single attempt to acquire the lock and reports
// whether it succeeded.
func (l *Spinlock) TryToAcquire() bool {
	return atomic.SwapUint32(&l.state, 1) == 0
}

// Release relinquishes a held lock. Releasing a free lock has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}

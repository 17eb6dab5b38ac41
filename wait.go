package fanout

import (
	"context"
	"time"
)

// The wait primitives block the calling goroutine until the aggregate
// completes. The completion channel is closed exactly once by the unique
// completer, after the final counts are published, so every woken waiter
// observes done == true and a consistent classification.
//
// Do not call any wait variant from a goroutine that is responsible for
// completing one of the children (for example from inside a child's
// completion callback, or from the I/O loop driving the operations): the
// wait would block the very completion it is waiting for. This is a caller
// obligation; it is not detected, and the failure mode is a hang.

// Await blocks until the aggregate completes or ctx is cancelled.
// It returns nil on completion and ctx.Err() if cancelled first.
func (f *Future) Await(ctx context.Context) error {
	select {
	case <-f.doneCh:
		return nil
	case <-ctx.Done():
		// The aggregate may have completed in the same instant; prefer
		// reporting completion over a stale cancellation.
		select {
		case <-f.doneCh:
			return nil
		default:
		}
		return ctx.Err()
	}
}

// AwaitTimeout blocks until the aggregate completes, d elapses, or ctx is
// cancelled. It reports whether completion happened within the deadline;
// the error is non-nil only when ctx was cancelled first.
//
// Timing out does not affect the children: they keep running, and the
// aggregate still completes and fires its listeners eventually.
func (f *Future) AwaitTimeout(ctx context.Context, d time.Duration) (bool, error) {
	select {
	case <-f.doneCh:
		return true, nil
	default:
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-f.doneCh:
		return true, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		select {
		case <-f.doneCh:
			return true, nil
		default:
		}
		return false, ctx.Err()
	}
}

// Wait blocks until the aggregate completes. It consults no context, so no
// cancellation signal can end the wait early: the only way out is actual
// completion of every child.
func (f *Future) Wait() {
	<-f.doneCh
}

// WaitTimeout blocks until the aggregate completes or d elapses, whichever
// comes first, and reports whether it completed in time. As with Wait, no
// cancellation signal is consulted; the elapsed wall-clock time is still
// bounded by d.
func (f *Future) WaitTimeout(d time.Duration) bool {
	select {
	case <-f.doneCh:
		return true
	default:
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-f.doneCh:
		return true
	case <-timer.C:
		return false
	}
}

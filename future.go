package fanout

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/creastat/fanout/core"
)

// Future is the aggregate completion handle for one fan-out operation: the
// same logical operation issued against every endpoint of a group, with one
// child future per endpoint. It completes exactly once, when the last child
// reaches a terminal state, and then classifies the aggregate outcome as
// complete success, partial success, partial failure, or complete failure.
//
// Membership is a fixed snapshot taken at construction; endpoints joining
// or leaving the group afterwards do not affect an already issued operation.
//
// Prefer AddListener over the wait primitives where possible: listeners are
// non-blocking and run as soon as the last child resolves, while waiting
// parks a goroutine and can deadlock if misused (see wait.go).
type Future struct {
	members []core.Child
	byID    map[string]core.Child

	counter   *completionCounter
	listeners *listenerRegistry
	doneCh    chan struct{}

	logger zerolog.Logger
}

// NewFuture builds the aggregate future over a fixed snapshot of child
// futures and registers itself on every child before returning, so no
// completion can be missed even if a child resolves concurrently with (or
// before) construction. An empty snapshot is immediately done and counts as
// complete success: no operation failed.
func NewFuture(children []core.Child, opts ...Option) *Future {
	f := &Future{
		members:   make([]core.Child, len(children)),
		byID:      make(map[string]core.Child, len(children)),
		counter:   newCompletionCounter(len(children)),
		listeners: &listenerRegistry{},
		doneCh:    make(chan struct{}),
		logger:    zerolog.Nop(),
	}
	copy(f.members, children)
	for _, child := range f.members {
		f.byID[child.ID()] = child
	}

	for _, opt := range opts {
		opt(f)
	}

	if len(f.members) == 0 {
		f.complete()
		return f
	}

	// Registration must come after the struct is fully built: a child that
	// is already terminal fires the callback synchronously, inside this
	// loop, and the callback touches every field.
	for _, child := range f.members {
		child.OnComplete(f.childDone)
	}
	return f
}

// childDone is the per-child completion handler. It runs on whatever
// goroutine drove that child's completion, so up to N of these can be in
// flight at once; all shared state goes through the counter and registry.
func (f *Future) childDone(child core.Child) {
	outcome := child.Outcome()
	if !outcome.State.Terminal() {
		// Contract violation by the child; treat as failure so the
		// aggregate still terminates.
		outcome = core.Fail(fmt.Errorf("child %q reported non-terminal state %q on completion", child.ID(), outcome.State))
	}

	// Cancelled children fold into the failure bucket: the operation did
	// not succeed against that endpoint.
	if f.counter.record(!outcome.Succeeded()) {
		f.complete()
	}
}

// complete runs the completion sequence. Reached by exactly one caller: the
// unique completer elected by the counter, or the constructor for an empty
// snapshot. Waiters are woken first, then the registry is frozen and its
// listeners fired in registration order; by then the final counts are
// already published.
func (f *Future) complete() {
	close(f.doneCh)
	for _, reg := range f.listeners.freeze() {
		f.fire(reg.fn)
	}
}

// fire invokes a single listener, isolating panics so one failing listener
// cannot stop notification of the ones registered after it.
func (f *Future) fire(fn Listener) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			f.logger.Error().
				Interface("panic", r).
				Str("stack", string(buf[:n])).
				Msg("completion listener panicked")
		}
	}()
	fn(f)
}

// Find returns the child future for the given endpoint identity, or nil if
// the endpoint was not part of the snapshot.
func (f *Future) Find(id string) core.Child {
	return f.byID[id]
}

// Children returns the child futures in snapshot order. The returned slice
// is a copy; mutating it does not affect membership.
func (f *Future) Children() []core.Child {
	out := make([]core.Child, len(f.members))
	copy(out, f.members)
	return out
}

// Len returns the number of child futures in the snapshot.
func (f *Future) Len() int {
	return len(f.members)
}

// IsDone reports whether every child operation has reached a terminal state.
func (f *Future) IsDone() bool {
	_, _, _, done := f.counter.snapshot()
	return done
}

// SuccessCount returns how many children have succeeded so far.
func (f *Future) SuccessCount() int {
	_, successes, _, _ := f.counter.snapshot()
	return successes
}

// FailureCount returns how many children have failed (or been cancelled) so far.
func (f *Future) FailureCount() int {
	_, _, failures, _ := f.counter.snapshot()
	return failures
}

// IsCompleteSuccess reports whether every child operation succeeded.
// True for an empty snapshot. Always false while any child is pending.
func (f *Future) IsCompleteSuccess() bool {
	_, successes, _, done := f.counter.snapshot()
	return done && successes == len(f.members)
}

// IsPartialSuccess reports whether some, but not all, children succeeded.
// A mixed outcome is simultaneously a partial success and a partial
// failure, so on one this holds together with IsPartialFailure. Always
// false while any child is pending.
func (f *Future) IsPartialSuccess() bool {
	_, successes, _, done := f.counter.snapshot()
	return done && successes > 0 && successes < len(f.members)
}

// IsCompleteFailure reports whether every child operation failed or was
// cancelled. Requires at least one child: an empty snapshot is a complete
// success, not a complete failure. Always false while any child is pending.
func (f *Future) IsCompleteFailure() bool {
	_, _, failures, done := f.counter.snapshot()
	return done && len(f.members) > 0 && failures == len(f.members)
}

// IsPartialFailure reports whether some, but not all, children failed or
// were cancelled. Since every child lands in exactly one of the two
// buckets, this holds together with IsPartialSuccess on a mixed outcome.
// Always false while any child is pending.
func (f *Future) IsPartialFailure() bool {
	_, _, failures, done := f.counter.snapshot()
	return done && failures > 0 && failures < len(f.members)
}

// AddListener registers a completion listener and returns its removal
// token. Listeners registered before completion fire in registration order
// once the last child resolves, on the goroutine that drove that last
// completion. A listener registered after completion fires inline, on the
// calling goroutine, before AddListener returns; either way every listener
// fires exactly once.
func (f *Future) AddListener(fn Listener) *ListenerRegistration {
	reg, added := f.listeners.add(fn)
	if !added {
		f.fire(fn)
	}
	return reg
}

// RemoveListener deregisters a listener that has not fired yet, guaranteeing
// it never fires, and reports whether it removed anything. After completion,
// or for a token this future does not know, it is a no-op returning false.
func (f *Future) RemoveListener(reg *ListenerRegistration) bool {
	return f.listeners.remove(reg)
}

package fanout

import (
	"sync"

	"github.com/creastat/fanout/core"
)

// Promise is a single-operation completion handle satisfying core.Child.
// The transport layer that issues the operation holds the Promise and calls
// exactly one of Succeed, Fail, or Cancel when the operation finishes; the
// aggregate future (and any other registered callback) observes the result.
//
// The terminal transition is exactly-once: the first of Succeed, Fail, or
// Cancel wins and reports true, every later attempt is ignored and reports
// false. Callbacks registered after the transition fire synchronously.
type Promise struct {
	id string

	mu        sync.Mutex
	outcome   core.Outcome
	callbacks []func(core.Child)
}

// NewPromise creates a pending promise for the given endpoint identity.
func NewPromise(id string) *Promise {
	return &Promise{
		id:      id,
		outcome: core.Pending(),
	}
}

// ID returns the identity of the endpoint the operation was issued against.
func (p *Promise) ID() string {
	return p.id
}

// Outcome returns the current outcome. Once terminal it never changes.
func (p *Promise) Outcome() core.Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome
}

// OnComplete registers a callback fired exactly once when the promise
// reaches a terminal state. If it is already terminal the callback runs
// synchronously on the calling goroutine before OnComplete returns.
func (p *Promise) OnComplete(fn func(core.Child)) {
	p.mu.Lock()
	if !p.outcome.State.Terminal() {
		p.callbacks = append(p.callbacks, fn)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	fn(p)
}

// Succeed marks the operation as finished without error and reports whether
// this call performed the terminal transition.
func (p *Promise) Succeed() bool {
	return p.transition(core.Succeed())
}

// Fail marks the operation as finished with the given cause and reports
// whether this call performed the terminal transition.
func (p *Promise) Fail(cause error) bool {
	return p.transition(core.Fail(cause))
}

// Cancel marks the operation as cancelled and reports whether this call
// performed the terminal transition.
func (p *Promise) Cancel() bool {
	return p.transition(core.Cancel())
}

// transition publishes the terminal outcome and drains the callbacks, in
// registration order, on the calling goroutine. The outcome is stored
// before any callback runs, so callbacks always observe a terminal state.
func (p *Promise) transition(outcome core.Outcome) bool {
	p.mu.Lock()
	if p.outcome.State.Terminal() {
		p.mu.Unlock()
		return false
	}
	p.outcome = outcome
	callbacks := p.callbacks
	p.callbacks = nil
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn(p)
	}
	return true
}

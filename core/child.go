package core

// Child is the single-operation completion handle the transport layer
// produces for one endpoint when a fan-out operation is issued.
//
// Implementations must guarantee:
//   - ID is stable for the lifetime of the handle and unique within one
//     fan-out operation (it is the lookup key for the aggregate).
//   - Outcome returns the current state; once terminal it never changes.
//   - OnComplete invokes the callback exactly once, when the child reaches
//     a terminal state. If the child is already terminal at registration
//     time the callback runs synchronously, so registrations can never miss
//     a completion.
//
// Callbacks may run on whatever goroutine drives the underlying operation;
// different children of the same fan-out may complete concurrently.
type Child interface {
	// ID returns the identity of the endpoint this operation was issued against
	ID() string

	// Outcome returns the current outcome of the operation
	Outcome() Outcome

	// OnComplete registers a callback fired exactly once on terminal state
	OnComplete(fn func(Child))
}

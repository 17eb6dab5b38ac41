package core

// State identifies where a single child operation is in its lifecycle
type State string

const (
	// StatePending means the operation has been issued but has not finished
	StatePending State = "pending"

	// StateSucceeded means the operation finished without error
	StateSucceeded State = "succeeded"

	// StateFailed means the operation finished with an error
	StateFailed State = "failed"

	// StateCancelled means the operation was cancelled before it finished
	StateCancelled State = "cancelled"
)

// Terminal reports whether the state admits no further transitions
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// Outcome is the result of a single child operation.
// It is pure data produced by the transport layer that ran the operation.
type Outcome struct {
	// State is the terminal (or pending) state of the operation
	State State

	// Cause carries the failure reason. Set only when State is StateFailed.
	Cause error
}

// Succeeded reports whether the operation finished without error
func (o Outcome) Succeeded() bool {
	return o.State == StateSucceeded
}

// Failed reports whether the operation finished with an error.
// Cancelled operations do not count as failed here; aggregate classification
// folds them into the failure bucket separately (see the fanout package).
func (o Outcome) Failed() bool {
	return o.State == StateFailed
}

// Cancelled reports whether the operation was cancelled
func (o Outcome) Cancelled() bool {
	return o.State == StateCancelled
}

// Pending is a zero-value convenience for the initial outcome
func Pending() Outcome {
	return Outcome{State: StatePending}
}

// Succeed builds a successful terminal outcome
func Succeed() Outcome {
	return Outcome{State: StateSucceeded}
}

// Fail builds a failed terminal outcome carrying its cause
func Fail(cause error) Outcome {
	return Outcome{State: StateFailed, Cause: cause}
}

// Cancel builds a cancelled terminal outcome
func Cancel() Outcome {
	return Outcome{State: StateCancelled}
}

package fanout

import "sync"

// completionCounter tracks how many child operations are still outstanding
// and classifies the aggregate once the count reaches zero.
//
// record is called once per child from whatever goroutine drove that child's
// completion, so the whole block is guarded by one mutex: the counts, the
// done flag, and the decision of which caller is the unique completer must
// be a single atomic step.
type completionCounter struct {
	mu        sync.Mutex
	remaining int
	successes int
	failures  int
	done      bool
}

func newCompletionCounter(n int) *completionCounter {
	return &completionCounter{
		remaining: n,
		done:      n == 0,
	}
}

// record accounts for one child reaching a terminal state and reports
// whether this call is the unique completer. Exactly one call across all
// goroutines observes the transition to zero and returns true; that caller
// is responsible for running the completion sequence.
func (c *completionCounter) record(failed bool) (last bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.remaining == 0 {
		// Contract violation by a child future (more completions than
		// members). Ignore rather than corrupt the terminal state.
		return false
	}

	if failed {
		c.failures++
	} else {
		c.successes++
	}
	c.remaining--

	if c.remaining == 0 && !c.done {
		c.done = true
		return true
	}
	return false
}

// snapshot returns a consistent view of the counter. Readers never observe
// a torn state where the counts and the done flag disagree.
func (c *completionCounter) snapshot() (remaining, successes, failures int, done bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining, c.successes, c.failures, c.done
}
